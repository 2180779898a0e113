/*
NAME
  brettel.go

DESCRIPTION
  brettel.go implements the Brettel, Vienot & Mollon (1997) dichromacy
  simulation: projecting an LMS-space image onto the reduced gamut
  visible to a deuteranope, protanope or tritanope viewer by reflecting
  each pixel onto one of two half-plane "wings" of the confusion locus.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dichromacy simulates how an image appears to a dichromat
// viewer, using the Brettel-Vienot-Mollon projection onto the
// missing-cone's confusion plane.
package dichromacy

import (
	"fmt"

	"github.com/ausocean/vischeck/raster"
)

// Viewer identifies which cone type is missing.
type Viewer byte

const (
	Normal Viewer = 'n'
	Deutan Viewer = 'd' // deuteranope: missing M cones
	Protan Viewer = 'p' // protanope: missing L cones
	Tritan Viewer = 't' // tritanope: missing S cones
)

// anchor holds LMS-like spectral-locus constants for four wavelengths
// (475, 485, 575 and 660 nm), one (L, M, S) triple per wavelength:
// anchor[0:3] is the 475nm triple, anchor[3:6] is 485nm, anchor[6:9] is
// 575nm and anchor[9:12] is 660nm.
var anchor = [12]float64{
	0.08008, 0.1284, 0.9856,
	0.1579, 0.2237, 0.7325,
	0.5897, 0.3636, 0.001079,
	0.0914, 0.007009, 0.0,
}

// Simulate projects img, which must already be in LMS space, onto the
// gamut visible to viewer, in place. rgb2lms is the originating display
// profile's RGB->LMS matrix, used only to recover the LMS coordinates
// of equal-energy white.
func Simulate(img *raster.Image, viewer Viewer, rgb2lms [9]float64) error {
	if viewer == Normal {
		return nil
	}
	if img.Space != raster.LMS {
		return fmt.Errorf("dichromacy: Simulate requires an image in LMS space, got %v", img.Space)
	}

	e := [3]float64{
		rgb2lms[0] + rgb2lms[1] + rgb2lms[2],
		rgb2lms[3] + rgb2lms[4] + rgb2lms[5],
		rgb2lms[6] + rgb2lms[7] + rgb2lms[8],
	}

	n := img.Len()
	switch viewer {
	case Deutan:
		a1, b1, c1 := cross(e, anchor[6:9])
		a2, b2, c2 := cross(e, anchor[0:3])
		inflection := e[2] / e[0]
		for i := 0; i < n; i++ {
			if img.B[i]/img.R[i] < inflection {
				img.G[i] = -(a1*img.R[i] + c1*img.B[i]) / b1
			} else {
				img.G[i] = -(a2*img.R[i] + c2*img.B[i]) / b2
			}
		}
	case Protan:
		a1, b1, c1 := cross(e, anchor[6:9])
		a2, b2, c2 := cross(e, anchor[0:3])
		inflection := e[2] / e[1]
		for i := 0; i < n; i++ {
			if img.B[i]/img.G[i] < inflection {
				img.R[i] = -(b1*img.G[i] + c1*img.B[i]) / a1
			} else {
				img.R[i] = -(b2*img.G[i] + c2*img.B[i]) / a2
			}
		}
	case Tritan:
		a1, b1, c1 := cross(e, anchor[9:12])
		a2, b2, c2 := cross(e, anchor[3:6])
		inflection := e[1] / e[0]
		for i := 0; i < n; i++ {
			if img.G[i]/img.R[i] < inflection {
				img.B[i] = -(a1*img.R[i] + b1*img.G[i]) / c1
			} else {
				img.B[i] = -(a2*img.R[i] + b2*img.G[i]) / c2
			}
		}
	default:
		return fmt.Errorf("dichromacy: unsupported viewer type %q", viewer)
	}
	return nil
}

// cross returns the cross product of e and v (v must have length 3):
// the LMS-space normal of the plane through the origin, e, and v.
func cross(e [3]float64, v []float64) (a, b, c float64) {
	a = e[1]*v[2] - e[2]*v[1]
	b = e[2]*v[0] - e[0]*v[2]
	c = e[0]*v[1] - e[1]*v[0]
	return
}
