/*
NAME
  filter_test.go

DESCRIPTION
  filter_test.go contains tests for the FIR lead filters.

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
	"math"
	"testing"
)

const rate = 500

// sine returns n samples of a sine at freq Hz with the given amplitude.
func sine(freq, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

// rms returns the root mean square of x, ignoring the edges where the
// filter's startup transient lives.
func rms(x []float64) float64 {
	lo, hi := len(x)/10, len(x)-len(x)/10
	var sum float64
	for _, v := range x[lo:hi] {
		sum += v * v
	}
	return math.Sqrt(sum / float64(hi-lo))
}

func TestNewFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		f    func() error
	}{
		{"lowpass zero cutoff", func() error { _, err := NewLowPass(0, rate, 200); return err }},
		{"lowpass above nyquist", func() error { _, err := NewLowPass(300, rate, 200); return err }},
		{"highpass odd taps", func() error { _, err := NewHighPass(0.5, rate, 201); return err }},
		{"bandstop inverted bounds", func() error { _, err := NewBandStop(55, 45, rate, 200); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.f() == nil {
				t.Error("no error for invalid parameters")
			}
		})
	}
}

func TestApplyPreservesLength(t *testing.T) {
	f, err := NewLowPass(40, rate, 200)
	if err != nil {
		t.Fatalf("NewLowPass failed: %v", err)
	}
	in := sine(10, 500, 3000)
	out, err := f.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(out) != len(in) {
		t.Errorf("output length %d, want %d", len(out), len(in))
	}
}

// TestBandStopNotch checks that a 45..55 Hz notch attenuates a 50 Hz tone
// far more than in-band signal.
func TestBandStopNotch(t *testing.T) {
	f, err := NewBandStop(45, 55, rate, 400)
	if err != nil {
		t.Fatalf("NewBandStop failed: %v", err)
	}

	mains := sine(50, 500, 5000)
	inBand := sine(5, 500, 5000)

	outMains, err := f.Apply(mains)
	if err != nil {
		t.Fatalf("Apply(mains) failed: %v", err)
	}
	outInBand, err := f.Apply(inBand)
	if err != nil {
		t.Fatalf("Apply(inBand) failed: %v", err)
	}

	mainsRatio := rms(outMains) / rms(mains)
	inBandRatio := rms(outInBand) / rms(inBand)
	if mainsRatio > inBandRatio/5 {
		t.Errorf("notch attenuation too weak: mains ratio %v, in-band ratio %v", mainsRatio, inBandRatio)
	}
}

// TestHighPassRemovesBaseline checks that a 0.5 Hz highpass strips a DC
// offset while passing ECG-band content.
func TestHighPassRemovesBaseline(t *testing.T) {
	f, err := NewHighPass(0.5, rate, 400)
	if err != nil {
		t.Fatalf("NewHighPass failed: %v", err)
	}

	n := 5000
	offset := make([]float64, n)
	for i := range offset {
		offset[i] = 1000
	}
	out, err := f.Apply(offset)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := rms(out); got > 150 {
		t.Errorf("DC residue RMS = %v µV, want < 150", got)
	}

	tone := sine(10, 500, n)
	outTone, err := f.Apply(tone)
	if err != nil {
		t.Fatalf("Apply(tone) failed: %v", err)
	}
	if ratio := rms(outTone) / rms(tone); ratio < 0.7 {
		t.Errorf("in-band attenuation too strong: ratio %v", ratio)
	}
}
