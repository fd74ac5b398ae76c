/*
NAME
  signal_test.go

DESCRIPTION
  signal_test.go contains tests for Signal assembly, the duration invariant
  and the quality metrics.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ecg

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		leads   map[Lead][]float64
		wantErr bool
	}{
		{
			name:  "uniform",
			rate:  500,
			leads: map[Lead][]float64{LeadI: make([]float64, 5000), LeadII: make([]float64, 5000)},
		},
		{
			name:  "within tolerance",
			rate:  500,
			leads: map[Lead][]float64{LeadI: make([]float64, 5000), LeadII: make([]float64, 4999)},
		},
		{
			name:    "length mismatch",
			rate:    500,
			leads:   map[Lead][]float64{LeadI: make([]float64, 5000), LeadII: make([]float64, 4000)},
			wantErr: true,
		},
		{
			name:    "zero rate",
			rate:    0,
			leads:   map[Lead][]float64{LeadI: make([]float64, 10)},
			wantErr: true,
		},
		{
			name:  "empty leads skipped",
			rate:  250,
			leads: map[Lead][]float64{LeadI: make([]float64, 2500), LeadV7: {}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rate, tt.leads)
			if (err != nil) != tt.wantErr {
				t.Errorf("New error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	sig, err := New(500, map[Lead][]float64{
		LeadV1: make([]float64, 5000),
		LeadII: make([]float64, 5000),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := sig.Duration(); got != 10 {
		t.Errorf("Duration = %v, want 10", got)
	}
}

func TestQuality(t *testing.T) {
	const rate = 500
	n := 10 * rate
	flat := make([]float64, n)
	mains := make([]float64, n)
	ecgish := make([]float64, n)
	for i := 0; i < n; i++ {
		ts := float64(i) / rate
		mains[i] = 300 * math.Sin(2*math.Pi*50*ts)
		ecgish[i] = 400*math.Sin(2*math.Pi*1.2*ts) + 50*math.Sin(2*math.Pi*10*ts)
	}

	sig, err := New(rate, map[Lead][]float64{
		LeadI:  ecgish,
		LeadII: mains,
		LeadV1: flat,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	q := Quality(sig)

	if !q[LeadV1].Flatline {
		t.Error("flat lead not flagged as flatline")
	}
	if q[LeadI].Flatline {
		t.Error("active lead flagged as flatline")
	}
	if q[LeadII].MainsShare < 0.9 {
		t.Errorf("pure 50 Hz tone has mains share %v, want > 0.9", q[LeadII].MainsShare)
	}
	if q[LeadI].MainsShare > 0.1 {
		t.Errorf("clean lead has mains share %v, want < 0.1", q[LeadI].MainsShare)
	}
}

func TestLeadFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    Lead
		wantErr bool
	}{
		{"I", LeadI, false},
		{"avr", LeadAVR, false},
		{"AVL", LeadAVL, false},
		{"v3r", LeadV3R, false},
		{"X9", "", true},
	}
	for _, tt := range tests {
		got, err := LeadFromString(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("LeadFromString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("LeadFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
