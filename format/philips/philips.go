/*
NAME
  philips.go

DESCRIPTION
  philips.go extracts the canonical signal and metadata from Philips XML
  ECG exports, decoding the XLI-compressed parsedwaveforms payload where
  present and falling back to explicit per-lead sample elements otherwise.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package philips parses Philips XML ECG documents into the canonical
// signal.
package philips

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/ecg"
	"github.com/ausocean/ecg/codec/xli"
	"github.com/ausocean/ecg/format/internal/xmldoc"
)

// Defaults used when the waveform-info fields are absent. The resolution is
// in microvolts per count; 1.0 means samples are already microvolts.
const (
	defaultLeads      = 12
	defaultRate       = 500
	defaultResolution = 1.0
)

// channelOrder is the fixed lead assignment of decoded XLI channels.
var channelOrder = []ecg.Lead{
	ecg.LeadI, ecg.LeadII, ecg.LeadIII,
	ecg.LeadAVR, ecg.LeadAVL, ecg.LeadAVF,
	ecg.LeadV1, ecg.LeadV2, ecg.LeadV3,
	ecg.LeadV4, ecg.LeadV5, ecg.LeadV6,
}

// markers are the substrings IsPhilipsXML looks for. This is content
// heuristics, not schema validation; Parse does not require a prior
// IsPhilipsXML check.
var markers = []string{
	"restingecgdata",
	"parsedwaveforms",
	"sierraecg",
	"philips medical",
}

// IsPhilipsXML reports whether the document looks like a Philips ECG
// export.
func IsPhilipsXML(b []byte) bool {
	s := strings.ToLower(string(b))
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Parse extracts patient and test metadata and the canonical signal from a
// Philips XML document. It fails only on malformed XML or if no waveform
// data at all can be recovered; a failed XLI decode degrades to the
// per-lead element fallback.
func Parse(b []byte) (*ecg.Result, error) {
	doc, err := xmldoc.Parse(b)
	if err != nil {
		return nil, err
	}

	numLeads := intField(doc, defaultLeads, "numberofleads", "leadcount", "numberofchannelsvalid")
	rate := intField(doc, defaultRate, "samplerate", "samplingrate", "samplefrequency")
	resolution := floatField(doc, defaultResolution, "resolution", "amplituderesolution", "signalresolution")
	if resolution <= 0 {
		resolution = defaultResolution
	}

	leads := parsedWaveforms(doc, numLeads, resolution)
	if len(leads) == 0 {
		leads = leadElements(doc, resolution)
	}
	if len(leads) == 0 {
		return nil, errors.New("no waveform data found in document")
	}

	ecg.DeriveLimbLeads(leads)
	sig, err := ecg.New(rate, leads)
	if err != nil {
		return nil, errors.Wrap(err, "could not assemble signal")
	}

	return &ecg.Result{
		Patient: patient(doc),
		Test:    test(doc),
		Signal:  sig,
	}, nil
}

// parsedWaveforms decodes the base64 XLI payload of a parsedwaveforms
// element into leads scaled to microvolts. It returns an empty map when the
// element is absent or nothing could be decoded, signalling the caller to
// fall back.
func parsedWaveforms(doc *xmldoc.Node, numLeads int, resolution float64) map[ecg.Lead][]float64 {
	leads := make(map[ecg.Lead][]float64)

	pw := doc.Find("parsedwaveforms")
	if pw == nil {
		return leads
	}
	// Vendors wrap the base64 text; strip all interior whitespace.
	payload, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(pw.Text), ""))
	if err != nil {
		return leads
	}
	chans, err := xli.Decompress(payload, numLeads)
	if err != nil {
		return leads
	}

	for i, ch := range chans {
		if i >= len(channelOrder) || len(ch) == 0 {
			break
		}
		samples := make([]float64, len(ch))
		for k, v := range ch {
			samples[k] = float64(v) * resolution
		}
		leads[channelOrder[i]] = samples
	}
	return leads
}

// leadElements scans explicit lead/leaddata elements carrying whitespace or
// comma separated integer samples.
func leadElements(doc *xmldoc.Node, resolution float64) map[ecg.Lead][]float64 {
	leads := make(map[ecg.Lead][]float64)

	nodes := doc.FindAll("lead")
	nodes = append(nodes, doc.FindAll("leaddata")...)
	for _, n := range nodes {
		name := n.Attr("leadname")
		if name == "" {
			name = n.Attr("name")
		}
		if name == "" {
			name = n.FirstText("leadname")
		}
		lead, err := ecg.LeadFromString(name)
		if err != nil {
			continue
		}
		if _, present := leads[lead]; present {
			continue
		}

		text := n.TrimmedText()
		if wf := n.Find("waveform"); wf != nil && wf != n {
			text = wf.TrimmedText()
		}
		samples := parseSamples(text, resolution)
		if len(samples) > 0 {
			leads[lead] = samples
		}
	}
	return leads
}

// parseSamples splits text on whitespace and commas and scales each value
// by resolution to produce microvolts.
func parseSamples(text string, resolution float64) []float64 {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	samples := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		samples = append(samples, v*resolution)
	}
	return samples
}

// intField returns the first matching element's integer value, or def.
func intField(doc *xmldoc.Node, def int, names ...string) int {
	s := doc.FirstText(names...)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// floatField returns the first matching element's float value, or def.
func floatField(doc *xmldoc.Node, def float64, names ...string) float64 {
	s := doc.FirstText(names...)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func patient(doc *xmldoc.Node) ecg.Patient {
	p := ecg.Patient{
		ID:        doc.FirstText("patientid", "medicalrecordnumber", "mrn"),
		Sex:       doc.FirstText("sex", "gender"),
		BirthDate: doc.FirstText("dateofbirth", "birthdate"),
	}
	first := doc.FirstText("firstname", "givenname")
	last := doc.FirstText("lastname", "familyname")
	p.Name = strings.TrimSpace(first + " " + last)
	if p.Name == "" {
		p.Name = doc.FirstText("patientname")
	}
	return p
}

func test(doc *xmldoc.Node) ecg.Test {
	return ecg.Test{
		Date:      doc.FirstText("acquisitiondate", "date"),
		Device:    doc.FirstText("machineid", "devicename", "acquirer"),
		Site:      doc.FirstText("institutionname", "facility"),
		Physician: doc.FirstText("orderingphysician", "referringphysician"),
		Diagnosis: doc.FirstText("interpretation", "diagnosis"),
	}
}
