/*
NAME
  delta_test.go

DESCRIPTION
  delta_test.go contains tests for the first-difference and
  second-difference decoders.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xli

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// leBytes packs int16 values as little-endian bytes.
func leBytes(vals []int16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

func TestDeltaDecode(t *testing.T) {
	// Two channels laid out channel-major: all of channel 0 then all of
	// channel 1. Each channel's accumulator starts at zero.
	raw := leBytes([]int16{5, -2, 3, 100, -50, 1})
	want := [][]int16{
		{5, 3, 6},
		{100, 50, 51},
	}
	got := deltaDecode(raw, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected channels (-want +got):\n%s", diff)
	}
}

// TestDeltaDecodeTruncates checks that a sample count not divisible by the
// channel count drops the trailing samples rather than failing.
func TestDeltaDecodeTruncates(t *testing.T) {
	raw := leBytes([]int16{1, 1, 1, 1, 1, 1, 1}) // 7 samples over 2 channels.
	got := deltaDecode(raw, 2)
	if len(got) != 2 || len(got[0]) != 3 || len(got[1]) != 3 {
		t.Fatalf("got lengths %d/%d/%d, want 2 channels of 3", len(got), len(got[0]), len(got[1]))
	}
	// Channel 1 starts at sample index 3, not 4: truncation happens after
	// the split, so the block boundary is at floor(total/channels).
	want := [][]int16{{1, 2, 3}, {1, 2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected channels (-want +got):\n%s", diff)
	}
}

func TestSecondDifference(t *testing.T) {
	tests := []struct {
		name string
		x    []int16
		want []int16
	}{
		{"empty", []int16{}, []int16{}},
		{"one", []int16{7}, []int16{7}},
		{"two", []int16{7, -3}, []int16{7, -3}},
		{"vector", []int16{3, 4, 2, 1}, []int16{3, 4, 7, 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := secondDifference(tt.x)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}
