/*
NAME
  format.go

DESCRIPTION
  format.go classifies incoming ECG documents by content inspection and
  dispatches them to the matching vendor adapter.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package format detects which vendor schema an ECG document uses and
// parses it into the canonical signal. Detection is heuristic content
// inspection over a closed set of supported formats; the adapters perform
// the real validation.
package format

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/ausocean/ecg"
	"github.com/ausocean/ecg/format/hl7aecg"
	"github.com/ausocean/ecg/format/philips"
)

// Format identifies one supported vendor schema.
type Format int

const (
	Unknown Format = iota
	HL7AECG
	Philips
)

// String returns the format's display name.
func (f Format) String() string {
	switch f {
	case HL7AECG:
		return "HL7 aECG"
	case Philips:
		return "Philips XML"
	default:
		return "unknown"
	}
}

// ErrUnsupportedSchema is returned by Parse when no adapter recognises the
// document.
var ErrUnsupportedSchema = errors.New("unsupported ECG document schema")

// Detect classifies a document by heuristic content inspection. The aECG
// root marker is checked first: aECG documents routinely name Philips
// hardware in their device metadata and would otherwise trip the Philips
// marker scan.
func Detect(b []byte) Format {
	if bytes.Contains(b, []byte("AnnotatedECG")) {
		return HL7AECG
	}
	if philips.IsPhilipsXML(b) {
		return Philips
	}
	return Unknown
}

// Parse detects the document's format and runs the matching adapter.
func Parse(b []byte) (*ecg.Result, error) {
	switch Detect(b) {
	case HL7AECG:
		return hl7aecg.Parse(b)
	case Philips:
		return philips.Parse(b)
	}
	return nil, ErrUnsupportedSchema
}
