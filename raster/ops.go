/*
NAME
  ops.go

DESCRIPTION
  ops.go implements the per-pixel operators applied between pipeline
  stages: gamma lookup, 3x3 and 4x4 color-space transforms, and range
  clipping/scaling.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package raster

import (
	"fmt"
	"math"
)

// ApplyLUT replaces each channel's values with tr[round(v)], tg[round(v)]
// and tb[round(v)] respectively. The tables are typically a Profile's
// gamma or inverse-gamma table; values are expected to already lie
// within the table's index range.
func (img *Image) ApplyLUT(tr, tg, tb []float64) {
	n := img.Len()
	for i := 0; i < n; i++ {
		img.R[i] = tr[clampIndex(img.R[i], len(tr))]
		img.G[i] = tg[clampIndex(img.G[i], len(tg))]
		img.B[i] = tb[clampIndex(img.B[i], len(tb))]
	}
}

func clampIndex(v float64, n int) int {
	i := int(v + 0.5)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ChangeSpace3 rotates every pixel by the row-major 3x3 matrix m,
// requiring the image to currently be tagged from and retagging it to
// to on success.
func (img *Image) ChangeSpace3(m [9]float64, from, to Space) error {
	if img.Space != from {
		return fmt.Errorf("raster: ChangeSpace3: image is in %v, not %v", img.Space, from)
	}
	n := img.Len()
	for i := 0; i < n; i++ {
		r, g, b := img.R[i], img.G[i], img.B[i]
		img.R[i] = r*m[0] + g*m[1] + b*m[2]
		img.G[i] = r*m[3] + g*m[4] + b*m[5]
		img.B[i] = r*m[6] + g*m[7] + b*m[8]
	}
	img.Space = to
	return nil
}

// ChangeSpace4 applies the 4x4 affine matrix m (pre-multiply convention
// with translation in the last row: r' = r*m[0]+g*m[4]+b*m[8]+m[12],
// and similarly for g' and b') to every pixel, in place. It does not
// change the image's Space tag: m is expected to map RGB to RGB (e.g. a
// Daltonize correction matrix already conjugated into RGB space).
func (img *Image) ChangeSpace4(m [16]float64) {
	n := img.Len()
	for i := 0; i < n; i++ {
		r, g, b := img.R[i], img.G[i], img.B[i]
		img.R[i] = r*m[0] + g*m[4] + b*m[8] + m[12]
		img.G[i] = r*m[1] + g*m[5] + b*m[9] + m[13]
		img.B[i] = r*m[2] + g*m[6] + b*m[10] + m[14]
	}
}

// ClipRange clamps every channel of every pixel into [0, img.MaxVal].
func (img *Image) ClipRange() {
	n := img.Len()
	for i := 0; i < n; i++ {
		img.R[i] = clampFloat(img.R[i], 0, img.MaxVal)
		img.G[i] = clampFloat(img.G[i], 0, img.MaxVal)
		img.B[i] = clampFloat(img.B[i], 0, img.MaxVal)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScaleRange rescales each pixel's three channels uniformly so that none
// exceeds img.MaxVal, then shifts them uniformly so that none is
// negative. Unlike ClipRange, this preserves hue by scaling/shifting all
// three channels of a pixel together rather than clamping independently.
func (img *Image) ScaleRange() {
	n := img.Len()
	for i := 0; i < n; i++ {
		r, g, b := img.R[i], img.G[i], img.B[i]

		if m := math.Max(r, math.Max(g, b)); m > img.MaxVal {
			scale := img.MaxVal / m
			r *= scale
			g *= scale
			b *= scale
		}
		if m := math.Min(r, math.Min(g, b)); m < 0 {
			r -= m
			g -= m
			b -= m
		}

		img.R[i], img.G[i], img.B[i] = r, g, b
	}
}
