/*
NAME
  filter.go

DESCRIPTION
  filter.go provides the interface and common machinery for filters applied
  to single-lead microvolt sample arrays.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides FIR filters for ECG lead preprocessing: baseline
// wander removal and mains interference notching. Filters operate on one
// lead's microvolt samples and preserve array length.
package filter

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Filter applies a transformation to a single lead's samples, returning a
// new array of the same length.
type Filter interface {
	Apply(samples []float64) ([]float64, error)
}

// fastConvolve computes the linear convolution of x and h in O(n log n)
// via the FFT.
func fastConvolve(x, h []float64) ([]float64, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, errors.New("convolution requires slice of length > 0")
	}

	convLen := len(x) + len(h) - 1

	// Pad both signals to the next power of 2 at or above convLen.
	padLen := int(math.Pow(2, math.Ceil(math.Log2(float64(convLen)))))
	xp := make([]float64, padLen)
	copy(xp, x)
	hp := make([]float64, padLen)
	copy(hp, h)

	xf, hf := fft.FFTReal(xp), fft.FFTReal(hp)
	yf := make([]complex128, padLen)
	for i := range xf {
		yf[i] = xf[i] * hf[i]
	}
	iy := fft.IFFT(yf)

	y := make([]float64, convLen)
	for i := range y {
		y[i] = real(iy[i])
	}
	return y, nil
}
