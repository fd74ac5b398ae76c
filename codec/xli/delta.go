/*
NAME
  delta.go

DESCRIPTION
  delta.go provides inversion of the first-difference and second-difference
  encodings applied to XLI waveform channels.

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

import "encoding/binary"

// deltaDecode interprets raw as a sequence of little-endian signed 16-bit
// values laid out channel-major (all of channel 0, then all of channel 1,
// and so on) and inverts the first-difference encoding within each channel.
// Trailing samples that do not fill every channel evenly are dropped.
func deltaDecode(raw []byte, channels int) [][]int16 {
	total := len(raw) / 2
	per := total / channels
	out := make([][]int16, channels)
	for c := 0; c < channels; c++ {
		samples := make([]int16, per)
		var acc int16
		for i := 0; i < per; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[2*(c*per+i):]))
			acc += v
			samples[i] = acc
		}
		out[c] = samples
	}
	return out
}

// secondDifference inverts second-order differencing over one channel:
// y[0] = x[0], y[1] = x[1], and y[i] = x[i] + 2*y[i-1] - y[i-2] for i >= 2.
// Arithmetic wraps to the signed 16-bit range, matching the encoder.
func secondDifference(x []int16) []int16 {
	y := make([]int16, len(x))
	copy(y, x)
	for i := 2; i < len(x); i++ {
		y[i] = int16(int(x[i]) + 2*int(y[i-1]) - int(y[i-2]))
	}
	return y
}
