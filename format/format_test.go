/*
NAME
  format_test.go

DESCRIPTION
  format_test.go contains tests for format detection and dispatch.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package format

import (
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Format
	}{
		{"aecg", `<AnnotatedECG xmlns="urn:hl7-org:v3"></AnnotatedECG>`, HL7AECG},
		{"philips", `<restingecgdata><parsedwaveforms/></restingecgdata>`, Philips},
		{
			// An aECG document naming Philips hardware must still detect
			// as aECG.
			"aecg with philips device",
			`<AnnotatedECG><manufacturerModelName>Philips Medical</manufacturerModelName></AnnotatedECG>`,
			HL7AECG,
		},
		{"unknown", `<foo>bar</foo>`, Unknown},
		{"binary garbage", "\x00\x01\x02\x03", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect([]byte(tt.doc)); got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse([]byte(`<foo/>`))
	if !errors.Is(err, ErrUnsupportedSchema) {
		t.Errorf("error = %v, want ErrUnsupportedSchema", err)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{HL7AECG, "HL7 aECG"},
		{Philips, "Philips XML"},
		{Unknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
