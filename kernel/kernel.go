/*
NAME
  kernel.go

DESCRIPTION
  kernel.go builds the separable sum-of-Gaussians spatial filter used to
  model the human contrast-sensitivity function, one 1D kernel per row
  and column of each opponent channel, already transformed into the
  frequency domain.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package kernel builds the separable sum-of-Gaussians spatial filter
// applied to each opponent channel (luminance, L-M, S) to model the
// human contrast-sensitivity function at a given viewing geometry.
package kernel

import (
	"math"

	"github.com/ausocean/vischeck/spatial"
)

// Gaussian is one term of a sum-of-Gaussians 1D kernel.
type Gaussian struct {
	Weight float64
	SD     float64 // standard deviation, in samples
}

// ChannelSpec describes one opponent channel's spatial filter: up to
// three Gaussian components and an overall rescale.
type ChannelSpec struct {
	Gaussians [3]Gaussian
	Scale     float64
}

// Set holds the frequency-domain separable kernel for all three
// opponent channels (index 0=luminance, 1=L-M, 2=S), one 1D spectrum
// per row length and one per column length.
type Set struct {
	Row [3][]complex128 // length Rf
	Col [3][]complex128 // length Cf
}

// Build constructs the row and column kernel spectra for all three
// channels at the given padded transform size.
func Build(channels [3]ChannelSpec, rf, cf int) Set {
	var s Set
	for c := 0; c < 3; c++ {
		s.Row[c] = build1D(channels[c], rf)
		s.Col[c] = build1D(channels[c], cf)
	}
	return s
}

// build1D constructs a length-n sum-of-Gaussians kernel from spec,
// normalizes it, and returns its forward FFT.
func build1D(spec ChannelSpec, n int) []complex128 {
	k := make([]float64, n)
	center := float64(n)/2 + 0.5

	var total float64
	for i := 0; i < n; i++ {
		d := center - math.Abs(float64(i)-center)
		d *= d

		var v float64
		for _, g := range spec.Gaussians {
			sd := g.SD
			if sd == 0 {
				sd = 0.001
			}
			w := g.Weight / (math.Sqrt(4*math.Pi) * sd)
			v += w * math.Exp(-d/(2*sd*sd))
		}
		k[i] = v
		total += v
	}

	total = math.Abs(total)
	if total != 0 {
		norm := spec.Scale / total
		for i := range k {
			k[i] *= norm
		}
	}

	return spatial.ForwardComplex1D(k)
}
