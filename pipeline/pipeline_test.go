package pipeline

import (
	"testing"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/dichromacy"
)

func crtProfile(t *testing.T) *color.Profile {
	t.Helper()
	p, err := color.FromName("CRT")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testPixels() []byte {
	return []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 0,
		128, 64, 32, 200, 100, 50, 10, 200, 10, 30, 30, 200,
	}
}

// Scenario S1: simulating with the Normal viewer and no spatial filter
// is (up to gamma round-trip error) the identity transform.
func TestSimulateNormalIsIdentity(t *testing.T) {
	p := crtProfile(t)
	src := testPixels()

	got, err := Simulate(SimulateParams{
		Data: src, W: 4, H: 1,
		Sensor:      dichromacy.Normal,
		SimDisplay:  p,
		ViewDisplay: p,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(src) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(src))
	}
	for i := range src {
		diff := int(got[i]) - int(src[i])
		if diff < -2 || diff > 2 {
			t.Errorf("byte %d: got %d, want ~%d", i, got[i], src[i])
		}
	}
}

// Scenario S3: simulating a protanope viewer should visibly desaturate
// a pure red swatch towards the deutan/protan confusion line, changing
// it from the untouched input.
func TestSimulateProtanChangesRed(t *testing.T) {
	p := crtProfile(t)
	src := []byte{255, 0, 0}

	got, err := Simulate(SimulateParams{
		Data: src, W: 1, H: 1,
		Sensor:      dichromacy.Protan,
		SimDisplay:  p,
		ViewDisplay: p,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] == src[0] && got[1] == src[1] && got[2] == src[2] {
		t.Error("protanope simulation left a pure-red pixel unchanged")
	}
}

// Scenario S5: enabling the spatial filter (positive ViewDist/DPI)
// should not error and should return a buffer of the same size,
// exercising the full FFT forward/multiply/inverse path.
func TestSimulateWithSpatialFilter(t *testing.T) {
	p := crtProfile(t)
	src := testPixels()

	got, err := Simulate(SimulateParams{
		Data: src, W: 4, H: 1,
		Sensor:      dichromacy.Normal,
		SimDisplay:  p,
		ViewDisplay: p,
		ViewDist:    24,
		DPI:         72,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(src) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(src))
	}
}

// Scenario S6: an unsupported device name produces ErrUnknownDevice,
// surfaced before any pipeline stage runs.
func TestUnknownDeviceName(t *testing.T) {
	if _, err := color.FromName("LCD-9000"); err == nil {
		t.Fatal("expected an error for an unknown device name")
	}
}

// Invariant 6: Simulate is deterministic -- running it twice on the
// same input with the same parameters gives byte-identical output.
func TestSimulateIsDeterministic(t *testing.T) {
	p := crtProfile(t)
	src := testPixels()
	params := SimulateParams{
		Data: src, W: 4, H: 1,
		Sensor:      dichromacy.Deutan,
		SimDisplay:  p,
		ViewDisplay: p,
	}

	a, err := Simulate(params)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(params)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("len mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("byte %d differs between runs: %d vs %d", i, a[i], b[i])
		}
	}
}

// Correct should round-trip a near-neutral image close to its input
// when all Daltonize parameters are zero (scenario S4).
func TestCorrectZeroParamsIsNearIdentity(t *testing.T) {
	p := crtProfile(t)
	src := testPixels()

	got, err := Correct(CorrectParams{
		Data: src, W: 4, H: 1,
		SimDisplay:  p,
		ViewDisplay: p,
		LumScale:    0,
		SScale:      0,
		LMStretch:   0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(src) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(src))
	}
	for i := range src {
		diff := int(got[i]) - int(src[i])
		if diff < -4 || diff > 4 {
			t.Errorf("byte %d: got %d, want ~%d", i, got[i], src[i])
		}
	}
}

func TestCorrectWrongByteLength(t *testing.T) {
	p := crtProfile(t)
	_, err := Correct(CorrectParams{
		Data: []byte{1, 2, 3}, W: 4, H: 1,
		SimDisplay:  p,
		ViewDisplay: p,
	})
	if err == nil {
		t.Fatal("expected an error for a mis-sized buffer")
	}
}
