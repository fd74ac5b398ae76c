/*
NAME
  xli.go

DESCRIPTION
  xli.go is the entry point for decoding XLI compressed waveform payloads:
  an 8-byte header followed by an LZW code stream carrying delta and
  second-difference encoded channel samples.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xli implements decoding of the XLI waveform container used by
// Philips XML ECG exports. The payload layout is an 8-byte header followed
// by an LZW-compressed stream of channel-major, delta then second-difference
// encoded signed 16-bit samples.
package xli

import "fmt"

// headerSize is the fixed XLI header length. The header carries no
// information the decoder needs and is skipped.
const headerSize = 8

// DefaultChannels is the channel count of a standard 12-lead export.
const DefaultChannels = 12

// Decompress decodes an XLI payload into per-channel signed 16-bit sample
// arrays. An LZW truncation mid-stream is not an error: whatever channel
// data is reconstructable from the decoded prefix is returned, leaving the
// caller free to fall back to an uncompressed path.
func Decompress(b []byte, numChannels int) ([][]int16, error) {
	if numChannels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", numChannels)
	}
	if len(b) < headerSize {
		return nil, fmt.Errorf("payload length %d shorter than %d byte header", len(b), headerSize)
	}

	raw, _ := DecodeLZW(b[headerSize:])

	chans := deltaDecode(raw, numChannels)
	for i := range chans {
		chans[i] = secondDifference(chans[i])
	}
	return chans, nil
}
