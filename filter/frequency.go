/*
NAME
  frequency.go

DESCRIPTION
  frequency.go contains windowed-sinc FIR lowpass, highpass and bandstop
  filters for ECG leads.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
)

// FIR is a linear-phase finite impulse response filter designed by the
// windowed-sinc method.
type FIR struct {
	coeffs     []float64
	cutoff     [2]float64
	sampleRate int
	taps       int
}

// NewLowPass returns an FIR lowpass filter with cutoff fc Hz for the given
// sample rate, using the given number of taps.
func NewLowPass(fc float64, rate, taps int) (*FIR, error) {
	return newLoHi(fc, rate, taps, [2]float64{0, fc})
}

// NewHighPass returns an FIR highpass filter with cutoff fc Hz for the
// given sample rate, using the given number of taps.
func NewHighPass(fc float64, rate, taps int) (*FIR, error) {
	return newLoHi(fc, rate, taps, [2]float64{fc, 0})
}

// NewBandStop returns an FIR bandstop filter attenuating lower..upper Hz,
// built by summing a lowpass at lower and a highpass at upper. Used as the
// mains notch (e.g. 48..52 Hz).
func NewBandStop(lower, upper float64, rate, taps int) (*FIR, error) {
	if lower >= upper {
		return nil, fmt.Errorf("bandstop bounds inverted: %v >= %v", lower, upper)
	}
	lp, err := NewLowPass(lower, rate, taps)
	if err != nil {
		return nil, fmt.Errorf("could not create lowpass half: %w", err)
	}
	hp, err := NewHighPass(upper, rate, taps)
	if err != nil {
		return nil, fmt.Errorf("could not create highpass half: %w", err)
	}

	f := &FIR{cutoff: [2]float64{lower, upper}, sampleRate: rate, taps: taps}
	f.coeffs = make([]float64, taps+1)
	for i := range f.coeffs {
		f.coeffs[i] = lp.coeffs[i] + hp.coeffs[i]
	}
	return f, nil
}

// Apply convolves the samples with the filter kernel and trims the group
// delay so that the output is aligned with, and the same length as, the
// input.
func (f *FIR) Apply(samples []float64) ([]float64, error) {
	y, err := fastConvolve(samples, f.coeffs)
	if err != nil {
		return nil, fmt.Errorf("could not compute fast convolution: %w", err)
	}
	delay := f.taps / 2
	return y[delay : delay+len(samples)], nil
}

// newLoHi designs a windowed-sinc kernel. For a lowpass cutoff is {0, fc};
// for a highpass it is {fc, 0}, realised by spectral inversion of the
// corresponding lowpass.
func newLoHi(fc float64, rate, taps int, cutoff [2]float64) (*FIR, error) {
	if fc <= 0 || fc >= float64(rate)/2 {
		return nil, errors.New("cutoff frequency out of bounds")
	}
	if taps <= 0 || taps%2 != 0 {
		return nil, errors.New("tap count must be positive and even")
	}

	var fd, factor1, factor2 float64
	switch {
	case cutoff[0] == 0: // Lowpass.
		fd = cutoff[1] / float64(rate)
		factor1 = 1
		factor2 = 2 * fd
	case cutoff[1] == 0: // Highpass.
		fd = cutoff[0] / float64(rate)
		factor1 = -1
		factor2 = 1 - 2*fd
	default:
		return nil, errors.New("newLoHi only designs lowpass or highpass kernels")
	}

	f := &FIR{cutoff: cutoff, sampleRate: rate, taps: taps}
	size := taps + 1
	f.coeffs = make([]float64, size)
	b := 2 * math.Pi * fd
	win := window.Hamming(size)
	for n := 0; n < taps/2; n++ {
		c := float64(n) - float64(taps)/2
		y := math.Sin(c*b) / (math.Pi * c)
		f.coeffs[n] = factor1 * y * win[n]
		f.coeffs[size-1-n] = f.coeffs[n]
	}
	f.coeffs[taps/2] = factor2 * win[taps/2]
	return f, nil
}
