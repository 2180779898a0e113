/*
NAME
  image.go

DESCRIPTION
  image.go defines Image, a planar floating-point RGB raster tagged with
  the color space its three planes currently hold.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package raster holds the planar floating-point image type shared by
// every stage of the vischeck pipeline, and the per-pixel operators
// (lookup tables, color-space rotations, range clipping) used to move
// an image between color spaces.
package raster

import "fmt"

// Space tags which color space an Image's three planes currently hold.
type Space int

const (
	RGB Space = iota
	LMS
	OPP
)

func (s Space) String() string {
	switch s {
	case RGB:
		return "RGB"
	case LMS:
		return "LMS"
	case OPP:
		return "OPP"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

// Image is a W x H raster stored as three row-major float64 planes.
// MaxVal is the nominal full-scale value of a channel (255 for 8-bit
// input); Space records what the three planes currently represent.
type Image struct {
	W, H   int
	MaxVal float64

	R, G, B []float64

	Space Space
}

// New allocates a zeroed W x H image tagged RGB.
func New(w, h int, maxVal float64) *Image {
	n := w * h
	return &Image{
		W: w, H: h, MaxVal: maxVal,
		R: make([]float64, n),
		G: make([]float64, n),
		B: make([]float64, n),
		Space: RGB,
	}
}

// Len returns the pixel count W*H.
func (img *Image) Len() int { return img.W * img.H }

// AssignBytes unpacks an interleaved RGB byte buffer into the image's
// planes, dividing each byte by scale. len(src) must equal 3*img.Len().
func (img *Image) AssignBytes(src []byte, scale float64) error {
	n := img.Len()
	if len(src) != 3*n {
		return fmt.Errorf("raster: AssignBytes: got %d bytes, want %d", len(src), 3*n)
	}
	for i := 0; i < n; i++ {
		img.R[i] = float64(src[3*i]) / scale
		img.G[i] = float64(src[3*i+1]) / scale
		img.B[i] = float64(src[3*i+2]) / scale
	}
	return nil
}

// ExtractBytes packs the image's planes back into an interleaved RGB
// byte buffer, multiplying by scale and clamping to [0,255].
func (img *Image) ExtractBytes(scale float64) []byte {
	n := img.Len()
	out := make([]byte, 3*n)
	for i := 0; i < n; i++ {
		out[3*i] = clampByte(img.R[i]*scale + 0.5)
		out[3*i+1] = clampByte(img.G[i]*scale + 0.5)
		out[3*i+2] = clampByte(img.B[i]*scale + 0.5)
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// At returns the value of the given channel (0=R/L, 1=G/M, 2=B/S) at
// (row, col), and false if the coordinates are out of range.
func (img *Image) At(row, col, channel int) (float64, bool) {
	if row < 0 || row >= img.H || col < 0 || col >= img.W {
		return 0, false
	}
	i := row*img.W + col
	switch channel {
	case 0:
		return img.R[i], true
	case 1:
		return img.G[i], true
	case 2:
		return img.B[i], true
	default:
		return 0, false
	}
}

// Set stores val into the given channel (0=R/L, 1=G/M, 2=B/S) at (row,
// col), and reports whether the coordinates were in range.
func (img *Image) Set(row, col, channel int, val float64) bool {
	if row < 0 || row >= img.H || col < 0 || col >= img.W {
		return false
	}
	i := row*img.W + col
	switch channel {
	case 0:
		img.R[i] = val
	case 1:
		img.G[i] = val
	case 2:
		img.B[i] = val
	default:
		return false
	}
	return true
}
