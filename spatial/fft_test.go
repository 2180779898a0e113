package spatial

import (
	"math"
	"testing"

	"github.com/ausocean/vischeck/raster"
)

func TestMaxPrimeFactor(t *testing.T) {
	cases := map[int]int{
		1: 1, 2: 2, 7: 7, 8: 2, 9: 3, 12: 3, 14: 7, 11: 11, 49: 7, 210: 7,
	}
	for n, want := range cases {
		if got := maxPrimeFactor(n); got != want {
			t.Errorf("maxPrimeFactor(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestGoodSizeRoundsUp(t *testing.T) {
	if GoodSize(1) != 1 {
		t.Errorf("GoodSize(1) = %d, want 1", GoodSize(1))
	}
	for n := 2; n < 2000; n++ {
		g := GoodSize(n)
		if g < n {
			t.Fatalf("GoodSize(%d) = %d is smaller than n", n, g)
		}
		if maxPrimeFactor(g) > 7 {
			t.Fatalf("GoodSize(%d) = %d has a prime factor > 7", n, g)
		}
	}
}

func TestPaddedSizeGrowsDimensions(t *testing.T) {
	rf, cf := PaddedSize(100, 50)
	if rf < 100 || cf < 50 {
		t.Errorf("PaddedSize(100,50) = (%d,%d), want >= (100,50)", rf, cf)
	}
}

// Forward followed by Inverse (with no spectrum multiply in between)
// should recover the original image to near floating-point precision.
func TestForwardInverseRoundTrip(t *testing.T) {
	img := raster.New(5, 4, 255)
	for i := range img.R {
		img.R[i] = float64(i) * 1.3
		img.G[i] = float64(i) * 0.7
		img.B[i] = float64(i) * 2.1
	}
	orig := make([]float64, len(img.R))
	copy(orig, img.R)

	spec, err := Forward(img)
	if err != nil {
		t.Fatal(err)
	}
	if err := Inverse(spec, img); err != nil {
		t.Fatal(err)
	}

	for i := range orig {
		if math.Abs(img.R[i]-orig[i]) > 1e-6 {
			t.Errorf("R[%d] = %v, want %v", i, img.R[i], orig[i])
		}
	}
}

// Invariant 7 / Scenario S5: a unit impulse, forward-transformed,
// multiplied by an all-pass (constant 1) kernel and inverse-transformed,
// should sum back to approximately its original total energy.
func TestMultiplyWithUnitKernelPreservesEnergy(t *testing.T) {
	img := raster.New(4, 4, 255)
	img.R[5] = 255 // an impulse, away from the edge

	spec, err := Forward(img)
	if err != nil {
		t.Fatal(err)
	}

	one := func(n int) []complex128 {
		v := make([]complex128, n)
		for i := range v {
			v[i] = complex(1, 0)
		}
		return v
	}
	row := [3][]complex128{one(spec.Rf), one(spec.Rf), one(spec.Rf)}
	col := [3][]complex128{one(spec.Cf), one(spec.Cf), one(spec.Cf)}
	if err := Multiply(spec, row, col); err != nil {
		t.Fatal(err)
	}
	if err := Inverse(spec, img); err != nil {
		t.Fatal(err)
	}

	var total float64
	for _, v := range img.R {
		total += v
	}
	if math.Abs(total-255) > 1e-6*255 {
		t.Errorf("total energy after filtering = %v, want ~255", total)
	}
}

func TestMultiplySizeMismatch(t *testing.T) {
	img := raster.New(2, 2, 255)
	spec, err := Forward(img)
	if err != nil {
		t.Fatal(err)
	}
	bad := [3][]complex128{{1}, {1}, {1}}
	if err := Multiply(spec, bad, bad); err == nil {
		t.Fatal("expected an error for mismatched kernel size")
	}
}
