/*
NAME
  pipeline.go

DESCRIPTION
  pipeline.go assembles the color, raster, dichromacy, daltonize,
  kernel and spatial packages into the two top-level vischeck
  operations: Simulate (what a dichromat, or a viewer at a given
  distance from a given display, would see) and Correct (the Daltonize
  pre-correction that makes an image easier for a dichromat to read).

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline orchestrates the full vischeck image pipeline:
// gamma linearisation, color-space rotation, dichromacy simulation,
// the spatial contrast-sensitivity filter, Daltonize correction, and
// the inverse steps back to a displayable byte buffer.
package pipeline

import (
	"fmt"
	"math"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/daltonize"
	"github.com/ausocean/vischeck/dichromacy"
	"github.com/ausocean/vischeck/kernel"
	"github.com/ausocean/vischeck/raster"
	"github.com/ausocean/vischeck/spatial"
)

// samplesPerDegree converts a viewing distance and display resolution
// into samples-per-degree of visual angle, matching the reference
// tool's viewDist*(pi/180)*dpi.
func samplesPerDegree(viewDist, dpi float64) float64 {
	return viewDist * (math.Pi / 180) * dpi
}

// DefaultKernelWeights, DefaultKernelSDs and DefaultKernelScales are the
// Poirson & Wandell spatial-filter defaults the reference CLI ships
// with, one triple per opponent channel (luminance, L-M, S).
var (
	DefaultKernelWeights = [9]float64{
		0.9207, 0.105, -0.108,
		0.5310, 0.33, 0.0,
		0.4877, 0.3711, 0.0,
	}
	DefaultKernelSDs = [9]float64{
		0.01, 0.05, 1.5,
		0.015, 0.18, 0.5,
		0.02, 0.14, 0.0,
	}
	DefaultKernelScales = [3]float64{1.0, 1.0, 1.0}
)

// SimulateParams bundles the inputs to Simulate.
type SimulateParams struct {
	Data []byte
	W, H int

	// ViewDist (inches) and DPI select the spatial contrast-sensitivity
	// filter; the filter is skipped unless both are positive.
	ViewDist, DPI float64

	Sensor dichromacy.Viewer

	SimDisplay, ViewDisplay *color.Profile

	KernelWeights, KernelSDs [9]float64
	KernelScales             [3]float64
	HasKernel                bool // false selects the Poirson & Wandell defaults

	Log logging.Logger
}

// CorrectParams bundles the inputs to Correct.
type CorrectParams struct {
	Data []byte
	W, H int

	SimDisplay, ViewDisplay *color.Profile

	LumScale, SScale, LMStretch float64

	Log logging.Logger
}

// Simulate renders how img would appear to the given dichromat viewer,
// and/or at the given viewing distance and display resolution, and
// returns the result as an interleaved RGB byte buffer.
func Simulate(p SimulateParams) ([]byte, error) {
	img, err := assign(p.Data, p.W, p.H, p.SimDisplay)
	if err != nil {
		return nil, err
	}
	debugf(p.Log, "simulate: assigned %dx%d image for sensor %q", p.W, p.H, p.Sensor)

	img.ApplyLUT(p.SimDisplay.GammaR, p.SimDisplay.GammaG, p.SimDisplay.GammaB)

	if p.Sensor != dichromacy.Normal {
		if err := img.ChangeSpace3(p.SimDisplay.RGB2LMS, raster.RGB, raster.LMS); err != nil {
			return nil, err
		}
		if err := dichromacy.Simulate(img, p.Sensor, p.SimDisplay.RGB2LMS); err != nil {
			return nil, errors.Wrap(err, "pipeline: simulating dichromacy")
		}
	}

	if p.ViewDist > 0 && p.DPI > 0 {
		spd := samplesPerDegree(p.ViewDist, p.DPI)
		if err := toOPP(img, p.SimDisplay); err != nil {
			return nil, err
		}
		debugf(p.Log, "simulate: applying spatial filter at %.3f samples/degree", spd)
		if err := applySpatialFilter(img, p, spd); err != nil {
			return nil, errors.Wrap(err, "pipeline: applying spatial filter")
		}
	}

	if err := toRGB(img, p.ViewDisplay); err != nil {
		return nil, err
	}

	img.ClipRange()
	img.ApplyLUT(p.ViewDisplay.InvGammaR, p.ViewDisplay.InvGammaG, p.ViewDisplay.InvGammaB)
	return img.ExtractBytes(1), nil
}

// Correct applies the Daltonize pre-correction to img so that a
// dichromat viewer can better distinguish colors that would otherwise
// be confused, and returns the result as an interleaved RGB byte
// buffer.
func Correct(p CorrectParams) ([]byte, error) {
	img, err := assign(p.Data, p.W, p.H, p.SimDisplay)
	if err != nil {
		return nil, err
	}
	debugf(p.Log, "correct: lumScale=%v sScale=%v lmStretch=%v", p.LumScale, p.SScale, p.LMStretch)

	img.ApplyLUT(p.SimDisplay.GammaR, p.SimDisplay.GammaG, p.SimDisplay.GammaB)
	if err := img.ChangeSpace3(p.SimDisplay.RGB2OPP, raster.RGB, raster.OPP); err != nil {
		return nil, err
	}

	// lmStretch is specified on the same 0-100-ish scale as lumScale and
	// sScale; the matrix builder itself expects the reference tool's
	// internally rescaled 2*lmStretch+1 form.
	xform, err := daltonize.Build(img, p.SimDisplay, p.LumScale, p.SScale, 2*p.LMStretch+1)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: building daltonize matrix")
	}

	if err := img.ChangeSpace3(p.ViewDisplay.OPP2RGB, raster.OPP, raster.RGB); err != nil {
		return nil, err
	}
	img.ChangeSpace4(xform)

	img.ClipRange()
	img.ApplyLUT(p.ViewDisplay.InvGammaR, p.ViewDisplay.InvGammaG, p.ViewDisplay.InvGammaB)
	return img.ExtractBytes(1), nil
}

func assign(data []byte, w, h int, profile *color.Profile) (*raster.Image, error) {
	img := raster.New(w, h, 255)
	scale := 1.0
	if n := len(profile.GammaR); n > 0 {
		scale = float64(n-1) / img.MaxVal
	}
	if err := img.AssignBytes(data, scale); err != nil {
		return nil, errors.Wrap(err, "pipeline: assigning input bytes")
	}
	return img, nil
}

// toOPP converts img from its current tagged space into OPP, using
// whichever of the profile's 3x3 matrices applies.
func toOPP(img *raster.Image, simDisplay *color.Profile) error {
	switch img.Space {
	case raster.RGB:
		return img.ChangeSpace3(simDisplay.RGB2OPP, raster.RGB, raster.OPP)
	case raster.LMS:
		return img.ChangeSpace3(simDisplay.LMS2OPP, raster.LMS, raster.OPP)
	case raster.OPP:
		return nil
	default:
		return fmt.Errorf("pipeline: unexpected color space %v", img.Space)
	}
}

// toRGB converts img from its current tagged space back into RGB.
func toRGB(img *raster.Image, viewDisplay *color.Profile) error {
	switch img.Space {
	case raster.RGB:
		return nil
	case raster.LMS:
		return img.ChangeSpace3(viewDisplay.LMS2RGB, raster.LMS, raster.RGB)
	case raster.OPP:
		return img.ChangeSpace3(viewDisplay.OPP2RGB, raster.OPP, raster.RGB)
	default:
		return fmt.Errorf("pipeline: unexpected color space %v", img.Space)
	}
}

func applySpatialFilter(img *raster.Image, p SimulateParams, spd float64) error {
	spec, err := spatial.Forward(img)
	if err != nil {
		return err
	}

	weights, sds, scales := p.KernelWeights, p.KernelSDs, p.KernelScales
	if !p.HasKernel {
		weights, sds, scales = DefaultKernelWeights, DefaultKernelSDs, DefaultKernelScales
	}

	var channels [3]kernel.ChannelSpec
	for c := 0; c < 3; c++ {
		for g := 0; g < 3; g++ {
			channels[c].Gaussians[g] = kernel.Gaussian{
				Weight: weights[c*3+g],
				SD:     sds[c*3+g] * spd,
			}
		}
		channels[c].Scale = scales[c]
	}

	kset := kernel.Build(channels, spec.Rf, spec.Cf)
	if err := spatial.Multiply(spec, kset.Row, kset.Col); err != nil {
		return err
	}
	return spatial.Inverse(spec, img)
}

func debugf(log logging.Logger, format string, args ...interface{}) {
	if log == nil {
		return
	}
	log.Debug(fmt.Sprintf(format, args...))
}
