package daltonize

import (
	"math"
	"testing"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/raster"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func testImage(t *testing.T, profile *color.Profile) *raster.Image {
	t.Helper()
	img := raster.New(4, 4, 255)
	pixels := []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 0,
		128, 64, 32, 200, 100, 50, 10, 200, 10, 30, 30, 200,
		1, 2, 3, 250, 250, 250, 0, 0, 0, 128, 128, 128,
		90, 180, 90, 60, 60, 200, 200, 60, 60, 60, 200, 60,
	}
	if err := img.AssignBytes(pixels, 1); err != nil {
		t.Fatal(err)
	}
	img.ApplyLUT(profile.GammaR, profile.GammaG, profile.GammaB)
	if err := img.ChangeSpace3(profile.RGB2OPP, raster.RGB, raster.OPP); err != nil {
		t.Fatal(err)
	}
	return img
}

func TestBuildRequiresOPP(t *testing.T) {
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	img := raster.New(1, 1, 255)
	if _, err := Build(img, p, 0, 0, 1); err == nil {
		t.Fatal("expected an error for a non-OPP image")
	}
}

// Scenario S4: lumScale=sScale=0 and a stretch factor of 1 (lmStretch
// already rescaled to 1, as pipeline.Correct would pass) should yield a
// matrix approximately equal to identity once conjugated back into RGB
// space, since RGB2OPP and OPP2RGB are (approximate) inverses. Entry 15
// is 0 rather than 1 because lift4 zeroes the homogeneous row and column;
// ChangeSpace4 never reads it.
func TestBuildZeroParamsIsNearIdentity(t *testing.T) {
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	img := testImage(t, p)

	got, err := Build(img, p, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	var want [16]float64
	want[0], want[5], want[10] = 1, 1, 1

	for i := range got {
		if !approxEqual(got[i], want[i], 2e-2) {
			t.Errorf("xform[%d] = %v, want ~%v", i, got[i], want[i])
		}
	}
}

func TestBuildNonZeroParamsPerturbsMatrix(t *testing.T) {
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	img := testImage(t, p)

	zero, err := Build(img, p, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	nonzero, err := Build(img, p, 50, 50, 101)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for i := range zero {
		if !approxEqual(zero[i], nonzero[i], 1e-6) {
			same = false
		}
	}
	if same {
		t.Error("non-zero Daltonize parameters should change the matrix")
	}
}
