/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a bit reader for extracting variable-width unsigned
  integers from a byte buffer, as used by the XLI LZW code stream.

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

// bitReader extracts unsigned integers of arbitrary bit width from a byte
// buffer, least-significant bit first within each byte, crossing byte
// boundaries transparently. The source buffer is never modified.
type bitReader struct {
	buf []byte
	pos int // Cursor position in bits from the start of buf.
}

// newBitReader returns a bitReader over b with the cursor at bit 0.
func newBitReader(b []byte) *bitReader {
	return &bitReader{buf: b}
}

// readBits returns the next n bits as an unsigned integer, or -1 if fewer
// than n bits remain. The cursor advances by exactly n bits on success and
// not at all on failure.
func (r *bitReader) readBits(n int) int {
	if r.pos+n > len(r.buf)*8 {
		return -1
	}
	var v int
	for i := 0; i < n; i++ {
		if r.buf[r.pos>>3]>>(uint(r.pos)&7)&1 == 1 {
			v |= 1 << uint(i)
		}
		r.pos++
	}
	return v
}

// hasMore reports whether any unread bits remain.
func (r *bitReader) hasMore() bool {
	return r.pos < len(r.buf)*8
}
