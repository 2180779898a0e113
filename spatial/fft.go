/*
NAME
  fft.go

DESCRIPTION
  fft.go is the 2D FFT engine used to apply the separable spatial
  contrast-sensitivity filter: padding an image to an FFT-friendly size,
  transforming it, multiplying by a kernel's spectrum, and transforming
  back.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spatial wraps go-dsp/fft to apply a separable frequency-domain
// filter to a raster.Image: padding to an FFT-friendly size, the
// forward/inverse 2D transform, and the spectrum multiply.
//
// The reference implementation builds on FFTW's packed half-complex
// real-to-complex transform. go-dsp/fft only exposes a whole-array
// complex-to-complex transform, so this package instead carries full
// Rf x Cf complex spectra throughout; for a real-valued input this is
// mathematically equivalent (the spectrum is conjugate-symmetric) at
// the cost of some redundant storage and arithmetic.
package spatial

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"

	"github.com/ausocean/vischeck/raster"
)

// ErrPlanCreationFailed is returned when a transform size could not be
// determined for the requested image dimensions.
var ErrPlanCreationFailed = errors.New("spatial: FFT could not be computed for the given shape")

// maxGoodSize caps the search for a good FFT size; large enough for
// any image vischeck is meant to process.
const maxGoodSize = 1 << 16

// GoodSize rounds n up to the next transform length whose largest prime
// factor is <= 7 -- the sizes go-dsp's FFT (and the reference
// FFTW-based tool) handle efficiently. The reference implementation's
// table search used a bitwise AND where a logical AND was intended;
// this search tests each candidate's prime factors directly instead.
func GoodSize(n int) int {
	if n < 1 {
		n = 1
	}
	for ; n < maxGoodSize; n++ {
		if maxPrimeFactor(n) <= 7 {
			return n
		}
	}
	return maxGoodSize
}

// maxPrimeFactor returns the largest prime factor of n (n >= 1).
func maxPrimeFactor(n int) int {
	max := 1
	for _, p := range []int{2, 3, 5, 7} {
		for n%p == 0 {
			n /= p
			max = p
		}
	}
	if n > 1 {
		return n
	}
	return max
}

// PaddedSize returns the padded, FFT-friendly transform dimensions for
// an r x c image: each dimension grows by 5%, then rounds up to a good
// FFT size.
func PaddedSize(r, c int) (rf, cf int) {
	rf = GoodSize(r + int(0.05*float64(r)))
	cf = GoodSize(c + int(0.05*float64(c)))
	return
}

// Spectrum holds the per-channel 2D forward FFTs of a padded image.
type Spectrum struct {
	Rf, Cf  int
	R, G, B [][]complex128 // Rf rows x Cf cols each
}

// Forward pads img with edge-reflection into an Rf x Cf buffer per
// channel and computes the 2D forward FFT of each.
func Forward(img *raster.Image) (*Spectrum, error) {
	rf, cf := PaddedSize(img.H, img.W)
	if rf <= 0 || cf <= 0 {
		return nil, ErrPlanCreationFailed
	}
	return &Spectrum{
		Rf: rf, Cf: cf,
		R: forwardPlane(img.R, img.H, img.W, rf, cf),
		G: forwardPlane(img.G, img.H, img.W, rf, cf),
		B: forwardPlane(img.B, img.H, img.W, rf, cf),
	}, nil
}

func forwardPlane(plane []float64, h, w, rf, cf int) [][]complex128 {
	return fft.FFT2(reflectPad(plane, h, w, rf, cf))
}

// reflectPad copies plane (h x w, row-major) into an rf x cf complex
// buffer, filling the pad region by mirroring about the image edge.
func reflectPad(plane []float64, h, w, rf, cf int) [][]complex128 {
	out := make([][]complex128, rf)
	for i := range out {
		out[i] = make([]complex128, cf)
	}
	for i := 0; i < rf; i++ {
		for j := 0; j < cf; j++ {
			out[i][j] = complex(plane[mirror(i, h)*w+mirror(j, w)], 0)
		}
	}
	return out
}

// mirror reflects an out-of-range index back into [0, n) about the
// n-1 edge, so the padding region is a mirror image of the source.
func mirror(i, n int) int {
	if i < n {
		return i
	}
	r := i - n + 1
	if r >= n {
		r = n - 1
	}
	return n - 1 - r
}

// Multiply applies the separable row/column kernel spectra (one pair
// per channel, in R, G, B order) to spec in place. Each pixel's product
// is computed as a single complex128 value, so there is no risk of the
// classic bug of overwriting a real part before it's used to compute
// the matching imaginary part.
func Multiply(spec *Spectrum, row, col [3][]complex128) error {
	for c, plane := range [][][]complex128{spec.R, spec.G, spec.B} {
		if len(row[c]) != spec.Rf || len(col[c]) != spec.Cf {
			return errors.New("spatial: kernel size does not match spectrum size")
		}
		multiplyPlane(plane, row[c], col[c])
	}
	return nil
}

func multiplyPlane(plane [][]complex128, row, col []complex128) {
	for i := range plane {
		for j := range plane[i] {
			plane[i][j] = plane[i][j] * row[i] * col[j]
		}
	}
}

// Inverse computes the 2D inverse FFT of spec and writes the unpadded,
// real-valued result into img (which must already be sized img.H x
// img.W matching the original pre-pad dimensions), normalizing by
// Rf*Cf -- the number of samples actually transformed, not the
// unpadded pixel count.
func Inverse(spec *Spectrum, img *raster.Image) error {
	r := inverse2D(spec.R)
	g := inverse2D(spec.G)
	b := inverse2D(spec.B)
	scale := float64(spec.Rf * spec.Cf)

	for i := 0; i < img.H; i++ {
		for j := 0; j < img.W; j++ {
			idx := i*img.W + j
			img.R[idx] = real(r[i][j]) / scale
			img.G[idx] = real(g[i][j]) / scale
			img.B[idx] = real(b[i][j]) / scale
		}
	}
	return nil
}

// inverse2D computes an unnormalized inverse 2D DFT using only the
// forward transform -- conjugate, forward FFT, conjugate -- so the
// caller controls normalization explicitly instead of depending on
// whatever convention go-dsp's own IFFT2 happens to use internally.
func inverse2D(spec [][]complex128) [][]complex128 {
	conj := make([][]complex128, len(spec))
	for i, row := range spec {
		conj[i] = make([]complex128, len(row))
		for j, v := range row {
			conj[i][j] = cmplx.Conj(v)
		}
	}
	out := fft.FFT2(conj)
	for i, row := range out {
		for j, v := range row {
			out[i][j] = cmplx.Conj(v)
		}
	}
	return out
}

// ForwardComplex1D computes the unnormalized forward 1D FFT of a
// real-valued sequence, used by the kernel package to transform a
// separable row or column kernel.
func ForwardComplex1D(k []float64) []complex128 {
	c := make([]complex128, len(k))
	for i, v := range k {
		c[i] = complex(v, 0)
	}
	return fft.FFT(c)
}
