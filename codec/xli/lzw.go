/*
NAME
  lzw.go

DESCRIPTION
  lzw.go provides a decoder for the LZW variant used by the XLI waveform
  container: variable code widths from 9 to 12 bits packed LSB-first, a
  CLEAR code at 256, an END code at 257 and dynamic codes from 258 with a
  hard dictionary cap of 4096 entries.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).

NOTES
  Go's compress/lzw implements the GIF and TIFF wire variants, whose code
  width switching rules differ from this vendor's stream; decoding with it
  produces invalid-code failures, hence the dedicated decoder here.
*/

package xli

const (
	clearCode = 256  // Rebuilds the dictionary and resets the code width.
	endCode   = 257  // Terminates the stream.
	firstCode = 258  // First dynamically assigned code.
	maxCodes  = 4096 // Dictionary capacity; no insertions once reached.
	minWidth  = 9
	maxWidth  = 12
)

// entry is one dictionary slot. The byte sequence for a code is recovered
// lazily by following the prefix chain; literal entries have prefix -1.
type entry struct {
	prefix int
	suffix byte
	length int
}

// lzwDecoder holds the state for a single decode pass. A decoder must not
// be reused across payloads.
type lzwDecoder struct {
	r        *bitReader
	table    [maxCodes]entry
	nextCode int
	width    int
	prev     int    // Previously read code, or -1 at the start and after CLEAR.
	scratch  []byte // Reused when expanding prefix chains.
}

// newLZWDecoder returns a decoder for the given code stream with the 256
// literal codes pre-populated.
func newLZWDecoder(b []byte) *lzwDecoder {
	d := &lzwDecoder{r: newBitReader(b)}
	for i := 0; i < 256; i++ {
		d.table[i] = entry{prefix: -1, suffix: byte(i), length: 1}
	}
	d.reset()
	return d
}

// reset restores the initial dictionary state. Dynamic slots are not
// cleared; codes at or above nextCode are unreachable until reassigned.
func (d *lzwDecoder) reset() {
	d.nextCode = firstCode
	d.width = minWidth
	d.prev = -1
}

// decodeAll decompresses the stream. It returns the bytes emitted and
// whether decoding ended cleanly, that is on an END code or on exhausting
// the input rather than on an unrecognised code. Either way the emitted
// prefix is valid output; the source vendor's own decoder truncates
// silently on bad codes and downstream fallbacks rely on that.
func (d *lzwDecoder) decodeAll() ([]byte, bool) {
	var out []byte
	for {
		code := d.r.readBits(d.width)
		if code < 0 || code == endCode {
			return out, true
		}
		if code == clearCode {
			d.reset()
			continue
		}

		var seq []byte
		switch {
		case code < d.nextCode && code != clearCode && code != endCode:
			seq = d.expand(code)
		case code == d.nextCode && d.prev >= 0:
			// The KwK case: the code refers to the entry about to be
			// assigned, which must be the previous entry plus its own
			// first byte.
			p := d.expand(d.prev)
			seq = make([]byte, len(p)+1)
			copy(seq, p)
			seq[len(p)] = p[0]
		default:
			return out, false
		}

		out = append(out, seq...)
		if d.prev >= 0 {
			d.insert(d.prev, seq[0])
		}
		d.prev = code
	}
}

// insert assigns the next dynamic code as (prefix entry + suffix byte),
// escalating the code width once the next assignment would no longer fit.
// Insertions stop at capacity but decoding continues on existing entries.
func (d *lzwDecoder) insert(prefix int, suffix byte) {
	if d.nextCode >= maxCodes {
		return
	}
	d.table[d.nextCode] = entry{prefix: prefix, suffix: suffix, length: d.table[prefix].length + 1}
	d.nextCode++
	if d.nextCode >= 1<<uint(d.width) && d.width < maxWidth {
		d.width++
	}
}

// expand resolves a code to its byte sequence by walking the prefix chain.
// The returned slice aliases the decoder's scratch buffer and is only valid
// until the next call.
func (d *lzwDecoder) expand(code int) []byte {
	n := d.table[code].length
	if cap(d.scratch) < n {
		d.scratch = make([]byte, n)
	}
	b := d.scratch[:n]
	for i := n - 1; i >= 0; i-- {
		e := &d.table[code]
		b[i] = e.suffix
		code = e.prefix
	}
	return b
}

// DecodeLZW decompresses an XLI LZW code stream. The returned flag is false
// if decoding stopped early on an unrecognised code, in which case the
// returned bytes are the valid prefix decoded up to that point.
func DecodeLZW(b []byte) ([]byte, bool) {
	return newLZWDecoder(b).decodeAll()
}
