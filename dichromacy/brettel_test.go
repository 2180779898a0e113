package dichromacy

import (
	"testing"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/raster"
)

// Invariant 4: simulating with viewer 'n' is the exact identity.
func TestSimulateNormalIsIdentity(t *testing.T) {
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	img := raster.New(1, 1, 255)
	img.R[0], img.G[0], img.B[0] = 0.1, 0.2, 0.3
	img.Space = raster.LMS
	want := [3]float64{img.R[0], img.G[0], img.B[0]}

	if err := Simulate(img, Normal, p.RGB2LMS); err != nil {
		t.Fatal(err)
	}
	if img.R[0] != want[0] || img.G[0] != want[1] || img.B[0] != want[2] {
		t.Errorf("got %v, want %v", [3]float64{img.R[0], img.G[0], img.B[0]}, want)
	}
}

func TestSimulateRequiresLMS(t *testing.T) {
	img := raster.New(1, 1, 255)
	if err := Simulate(img, Deutan, [9]float64{}); err == nil {
		t.Fatal("expected an error for a non-LMS image")
	}
}

// Scenario S2: a neutral grey pixel at the equal-energy point should be
// (almost) unchanged by a deuteranope simulation, since neutral colors
// lie on the confusion line.
func TestSimulateDeutanNeutralUnchanged(t *testing.T) {
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	img := raster.New(1, 1, 255)
	if err := img.AssignBytes([]byte{128, 128, 128}, 1); err != nil {
		t.Fatal(err)
	}
	img.ApplyLUT(p.GammaR, p.GammaG, p.GammaB)
	if err := img.ChangeSpace3(p.RGB2LMS, raster.RGB, raster.LMS); err != nil {
		t.Fatal(err)
	}
	before := img.G[0]

	if err := Simulate(img, Deutan, p.RGB2LMS); err != nil {
		t.Fatal(err)
	}

	if diff := before - img.G[0]; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("neutral pixel's M channel changed by %v, want ~0", diff)
	}
}

func TestCrossProduct(t *testing.T) {
	a, b, c := cross([3]float64{1, 0, 0}, []float64{0, 1, 0})
	if a != 0 || b != 0 || c != 1 {
		t.Errorf("cross((1,0,0),(0,1,0)) = (%v,%v,%v), want (0,0,1)", a, b, c)
	}
}
