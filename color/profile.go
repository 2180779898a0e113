/*
NAME
  profile.go

DESCRIPTION
  profile.go models a physical display device: its RGB<->LMS cone-space
  transform, its per-channel gamma and inverse-gamma lookup tables, and
  the opponent-space transforms derived from them.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package color models display-device colorimetry: the RGB<->LMS cone
// transform, gamma linearisation, and the derived LMS<->opponent
// transforms used throughout the vischeck pipeline.
package color

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ErrUnknownDevice is returned by FromName for a device name with no
// built-in profile.
var ErrUnknownDevice = errors.New("color: unknown display device")

// ErrBadProfileFile is returned when a profile file is truncated or
// otherwise malformed.
var ErrBadProfileFile = errors.New("color: malformed display profile file")

// lms2opp and opp2lms are fixed opponent-space rotations; they don't
// depend on the display and are the same for every Profile.
var lms2opp = [9]float64{
	0.5000, 0.5000, 0.0000,
	-0.6690, 0.7420, -0.0270,
	-0.2120, -0.3540, 0.9110,
}

var opp2lms = [9]float64{
	1.0400, -0.7108, -0.0211,
	0.9600, 0.7108, 0.0211,
	0.6151, 0.1108, 1.1010,
}

// crtRGB2LMS and crtLMS2RGB are the built-in CRT device's cone-space
// transform, measured from a reference monitor.
var crtRGB2LMS = [9]float64{
	0.05059983, 0.08585369, 0.00952420,
	0.01893033, 0.08925308, 0.01370054,
	0.00292202, 0.00975732, 0.07145979,
}

var crtLMS2RGB = [9]float64{
	30.830854, -29.832659, 1.610474,
	-6.481468, 17.715578, -2.532642,
	-0.375690, -1.199062, 14.273846,
}

// Profile holds the display-dependent matrices and lookup tables needed
// to move pixel data between RGB, LMS and opponent color spaces.
type Profile struct {
	Name string

	RGB2LMS, LMS2RGB [9]float64
	LMS2OPP, OPP2LMS [9]float64
	RGB2OPP, OPP2RGB [9]float64

	GammaR, GammaG, GammaB          []float64
	InvGammaR, InvGammaG, InvGammaB []float64
}

// FromName returns the built-in profile for a named device. Only "CRT"
// is currently wired in; LCD-class devices are loaded from a profile
// file via FromFile instead.
func FromName(name string) (*Profile, error) {
	if name != "CRT" {
		return nil, errors.Wrapf(ErrUnknownDevice, "device %q", name)
	}
	p := &Profile{
		Name:    "CRT",
		RGB2LMS: crtRGB2LMS,
		LMS2RGB: crtLMS2RGB,
		LMS2OPP: lms2opp,
		OPP2LMS: opp2lms,
	}
	p.ComputeGamma(256, 2.1, 2.0, 2.1)
	p.DeriveOpponent()
	return p, nil
}

// FromFile loads a display profile from the binary device file at path.
// See ReadProfile for the file layout.
func FromFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrBadProfileFile, "opening %q: %v", path, err)
	}
	defer f.Close()
	p, err := ReadProfile(f)
	if err != nil {
		return nil, err
	}
	p.Name = path
	return p, nil
}

// ReadProfile reads a display profile from r. The layout is: 9
// little-endian float32s (RGB->LMS, row-major), 9 float32s (LMS->RGB,
// row-major), one float32 holding the gamma table length N, then six
// runs of N float32s in the order gammaR, gammaG, gammaB, invGammaR,
// invGammaG, invGammaB.
func ReadProfile(r io.Reader) (*Profile, error) {
	p := &Profile{LMS2OPP: lms2opp, OPP2LMS: opp2lms}

	if err := readMatrix(r, &p.RGB2LMS); err != nil {
		return nil, err
	}
	if err := readMatrix(r, &p.LMS2RGB); err != nil {
		return nil, err
	}

	var nf float32
	if err := binary.Read(r, binary.LittleEndian, &nf); err != nil {
		return nil, errors.Wrap(ErrBadProfileFile, err.Error())
	}
	n := int(0.5 + nf)
	if n <= 0 {
		return nil, errors.Wrapf(ErrBadProfileFile, "non-positive gamma table length %d", n)
	}

	tables := []*[]float64{
		&p.GammaR, &p.GammaG, &p.GammaB,
		&p.InvGammaR, &p.InvGammaG, &p.InvGammaB,
	}
	for _, t := range tables {
		v, err := readFloats(r, n)
		if err != nil {
			return nil, err
		}
		*t = v
	}

	p.DeriveOpponent()
	return p, nil
}

func readMatrix(r io.Reader, m *[9]float64) error {
	v, err := readFloats(r, 9)
	if err != nil {
		return err
	}
	copy(m[:], v)
	return nil
}

func readFloats(r io.Reader, n int) ([]float64, error) {
	buf := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
		return nil, errors.Wrap(ErrBadProfileFile, err.Error())
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

// ComputeGamma fills in n-sample gamma and inverse-gamma tables for the
// given per-channel exponents, replacing any tables loaded from a file.
func (p *Profile) ComputeGamma(n int, r, g, b float64) {
	scale := float64(n - 1)
	p.GammaR = make([]float64, n)
	p.GammaG = make([]float64, n)
	p.GammaB = make([]float64, n)
	p.InvGammaR = make([]float64, n)
	p.InvGammaG = make([]float64, n)
	p.InvGammaB = make([]float64, n)

	for i := 0; i < n; i++ {
		v := float64(i) / scale
		p.GammaR[i] = math.Pow(v, r) * scale
		p.GammaG[i] = math.Pow(v, g) * scale
		p.GammaB[i] = math.Pow(v, b) * scale
		p.InvGammaR[i] = math.Pow(v, 1/r) * scale
		p.InvGammaG[i] = math.Pow(v, 1/g) * scale
		p.InvGammaB[i] = math.Pow(v, 1/b) * scale
	}
}

// DeriveOpponent recomputes RGB2OPP and OPP2RGB from the profile's
// RGB2LMS/LMS2RGB and the fixed LMS2OPP/OPP2LMS rotations. It must be
// called whenever RGB2LMS or LMS2RGB change.
func (p *Profile) DeriveOpponent() {
	p.RGB2OPP = mul3(p.LMS2OPP, p.RGB2LMS)
	p.OPP2RGB = mul3(p.LMS2RGB, p.OPP2LMS)
}

// mul3 computes the standard row-major 3x3 matrix product a*b.
func mul3(a, b [9]float64) [9]float64 {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i*3+k] * b[k*3+j]
			}
			out[i*3+j] = s
		}
	}
	return out
}
