/*
NAME
  daltonize.go

DESCRIPTION
  daltonize.go builds the 4x4 affine "stretch and inject" correction
  matrix used to recolor an image so that a dichromat viewer can
  distinguish colors that would otherwise be confused, following the
  Daltonize algorithm: widen the image's L-M opponent channel and inject
  some of its contrast into the L+M (luminance) and S channels, then
  conjugate the whole transform from opponent space back into RGB.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package daltonize computes the Daltonize pre-correction matrix: an
// affine transform, built from an image's own opponent-space
// statistics, that boosts chromatic contrast a dichromat viewer would
// otherwise lose.
package daltonize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/raster"
)

// Build computes the 4x4 RGB-space Daltonize matrix for img, which must
// already be in opponent (OPP) color space. lumScale and sScale control
// how much L-M contrast is injected into the luminance and S channels
// respectively; lmStretch controls how much the L-M channel itself is
// widened. lumScale and sScale follow the reference tool's 0-100-ish
// scale (the CLI's defaults are 50), not a normalized [0,1] range;
// lmStretch is taken in its rescaled 2*x+1 form (pipeline.Correct does
// that rescale), so a value of 1 leaves the L-M channel unstretched.
//
// The returned matrix is conjugated into RGB space (via profile's
// RGB2OPP/OPP2RGB) and is ready to apply directly to an RGB-tagged
// image with raster.Image.ChangeSpace4.
func Build(img *raster.Image, profile *color.Profile, lumScale, sScale, lmStretch float64) ([16]float64, error) {
	if img.Space != raster.OPP {
		return [16]float64{}, fmt.Errorf("daltonize: Build requires an OPP image, got %v", img.Space)
	}

	mean, variance := meanAndVariance(img)

	amountToLM := -lumScale * 50 / (variance[0] + 1)
	amountToS := -sScale * 20 / (variance[2] + 1)

	stretch := identity4()
	stretch.Set(0, 1, amountToLM)
	stretch.Set(1, 1, (lmStretch-1)/4+1)
	stretch.Set(2, 1, amountToS)

	meanInv := identity4()
	meanInv.Set(3, 1, -mean[1])

	meanFwd := identity4()
	meanFwd.Set(3, 1, mean[1])

	var tmp, opp mat.Dense
	tmp.Mul(meanInv, stretch)
	opp.Mul(&tmp, meanFwd)

	rgb2opp := lift4(profile.RGB2OPP)
	opp2rgb := lift4(profile.OPP2RGB)

	var tmp2, rgb mat.Dense
	tmp2.Mul(opp2rgb, &opp)
	rgb.Mul(&tmp2, rgb2opp)

	return flatten(&rgb), nil
}

// meanAndVariance computes the per-channel mean and (biased, population)
// variance of img in a single pair of passes, matching the reference
// tool's exact two-pass formula rather than deferring to a general
// statistics routine whose rounding behavior might differ subtly.
func meanAndVariance(img *raster.Image) (mean, variance [3]float64) {
	n := float64(img.Len())
	for i := 0; i < img.Len(); i++ {
		mean[0] += img.R[i]
		mean[1] += img.G[i]
		mean[2] += img.B[i]
	}
	mean[0] /= n
	mean[1] /= n
	mean[2] /= n

	for i := 0; i < img.Len(); i++ {
		d0 := img.R[i] - mean[0]
		d1 := img.G[i] - mean[1]
		d2 := img.B[i] - mean[2]
		variance[0] += d0 * d0
		variance[1] += d1 * d1
		variance[2] += d2 * d2
	}
	variance[0] /= n
	variance[1] /= n
	variance[2] /= n
	return
}

func identity4() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		d.Set(i, i, 1)
	}
	return d
}

// lift4 embeds a row-major 3x3 matrix into the top-left corner of a 4x4
// matrix, zeroing the homogeneous row and column entirely so the result
// behaves as a pure 3-vector rotation rather than an affine map.
func lift4(m3 [9]float64) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m3[i*3+j])
		}
	}
	return d
}

// flatten packs a standard (out = T*in) 4x4 matrix into the [16]float64
// layout raster.Image.ChangeSpace4 expects, which accesses entries as
// r' = r*m[0]+g*m[4]+b*m[8]+m[12] -- i.e. m[row*4+col] = T[col][row].
func flatten(t *mat.Dense) [16]float64 {
	var out [16]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = t.At(col, row)
		}
	}
	return out
}
