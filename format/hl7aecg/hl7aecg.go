/*
NAME
  hl7aecg.go

DESCRIPTION
  hl7aecg.go extracts the canonical signal and metadata from HL7 aECG
  (annotated ECG) XML documents.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hl7aecg parses HL7 aECG documents into the canonical signal.
// Only rhythm series are read; representative-beat series are skipped.
// Waveforms are SLIST sequences whose physical value is digit*scale+origin,
// normalised here to microvolts.
package hl7aecg

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/ecg"
	"github.com/ausocean/ecg/format/internal/xmldoc"
)

// defaultRate is used when a series carries no effectiveTime increment.
const defaultRate = 500

// mdcLeads maps HL7 MDC lead codes to canonical leads.
var mdcLeads = map[string]ecg.Lead{
	"MDC_ECG_LEAD_I":   ecg.LeadI,
	"MDC_ECG_LEAD_II":  ecg.LeadII,
	"MDC_ECG_LEAD_III": ecg.LeadIII,
	"MDC_ECG_LEAD_AVR": ecg.LeadAVR,
	"MDC_ECG_LEAD_AVL": ecg.LeadAVL,
	"MDC_ECG_LEAD_AVF": ecg.LeadAVF,
	"MDC_ECG_LEAD_V1":  ecg.LeadV1,
	"MDC_ECG_LEAD_V2":  ecg.LeadV2,
	"MDC_ECG_LEAD_V3":  ecg.LeadV3,
	"MDC_ECG_LEAD_V4":  ecg.LeadV4,
	"MDC_ECG_LEAD_V5":  ecg.LeadV5,
	"MDC_ECG_LEAD_V6":  ecg.LeadV6,
	"MDC_ECG_LEAD_V3R": ecg.LeadV3R,
	"MDC_ECG_LEAD_V4R": ecg.LeadV4R,
	"MDC_ECG_LEAD_V7":  ecg.LeadV7,
}

// Parse extracts patient and test metadata and the canonical signal from an
// HL7 aECG document. It fails if the document is not well-formed XML or if
// the root element's local name does not contain "AnnotatedECG". Missing
// optional metadata defaults to empty strings.
func Parse(b []byte) (*ecg.Result, error) {
	doc, err := xmldoc.Parse(b)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(doc.Local(), "AnnotatedECG") {
		return nil, errors.Errorf("unsupported format: root element %s is not an annotated ECG", doc.Local())
	}

	rate := defaultRate
	leads := make(map[ecg.Lead][]float64)
	for _, series := range doc.FindAll("series") {
		code := ""
		if c := series.Find("code"); c != nil {
			code = c.Attr("code")
		}
		if !strings.Contains(code, "RHYTHM") {
			continue
		}

		if r, ok := seriesRate(series); ok {
			rate = r
		}
		for _, seq := range series.FindAll("sequence") {
			lead, samples, ok := decodeSequence(seq)
			if !ok {
				continue
			}
			if _, present := leads[lead]; !present {
				leads[lead] = samples
			}
		}
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

// seriesRate derives the sample rate from the series' effectiveTime
// increment: round(1/v) for seconds, round(1000/v) for milliseconds.
func seriesRate(series *xmldoc.Node) (int, bool) {
	et := series.Find("effectiveTime")
	if et == nil {
		return 0, false
	}
	inc := et.Find("increment")
	if inc == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(inc.Attr("value"), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	switch inc.Attr("unit") {
	case "s":
		return int(math.Round(1 / v)), true
	case "ms":
		return int(math.Round(1000 / v)), true
	}
	return 0, false
}

// decodeSequence decodes one lead sequence: the MDC (or bare) lead name and
// the SLIST digits scaled to microvolts.
func decodeSequence(seq *xmldoc.Node) (ecg.Lead, []float64, bool) {
	c := seq.Find("code")
	if c == nil {
		return "", nil, false
	}
	lead, ok := leadFromCode(c.Attr("code"))
	if !ok {
		return "", nil, false
	}

	value := seq.Find("value")
	if value == nil {
		return "", nil, false
	}
	digits := value.Find("digits")
	if digits == nil {
		return "", nil, false
	}

	var scale, origin float64 = 1, 0
	mul := 1.0
	if s := value.Find("scale"); s != nil {
		if v, err := strconv.ParseFloat(s.Attr("value"), 64); err == nil {
			scale = v
		}
		mul = unitMultiplier(s.Attr("unit"))
	}
	if o := value.Find("origin"); o != nil {
		if v, err := strconv.ParseFloat(o.Attr("value"), 64); err == nil {
			origin = v
		}
	}

	fields := strings.Fields(digits.TrimmedText())
	samples := make([]float64, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		samples = append(samples, (d*scale+origin)*mul)
	}
	if len(samples) == 0 {
		return "", nil, false
	}
	return lead, samples, true
}

// leadFromCode maps an MDC lead code, or a bare name like "aVR", to a
// canonical lead.
func leadFromCode(code string) (ecg.Lead, bool) {
	if l, ok := mdcLeads[code]; ok {
		return l, true
	}
	l, err := ecg.LeadFromString(code)
	if err != nil {
		return "", false
	}
	return l, true
}

// unitMultiplier converts an SLIST scale unit to microvolts.
func unitMultiplier(unit string) float64 {
	switch unit {
	case "mV":
		return 1000
	case "V":
		return 1e6
	default: // uV or absent.
		return 1
	}
}

func patient(doc *xmldoc.Node) ecg.Patient {
	var p ecg.Patient
	if subj := doc.Find("trialSubject"); subj != nil {
		if id := subj.Find("id"); id != nil {
			p.ID = id.Attr("extension")
		}
	}
	if person := doc.Find("subjectDemographicPerson"); person != nil {
		p.Name = person.FirstText("name")
		if g := person.Find("administrativeGenderCode"); g != nil {
			p.Sex = g.Attr("code")
		}
		if bt := person.Find("birthTime"); bt != nil {
			p.BirthDate = bt.Attr("value")
		}
	}
	return p
}

func test(doc *xmldoc.Node) ecg.Test {
	var t ecg.Test
	if et := doc.Find("effectiveTime"); et != nil {
		if low := et.Find("low"); low != nil {
			t.Date = low.Attr("value")
		}
	}
	if dev := doc.Find("manufacturedSeriesDevice"); dev != nil {
		t.Device = dev.FirstText("manufacturerModelName")
	}
	if loc := doc.Find("location"); loc != nil {
		t.Site = loc.FirstText("name")
	}
	if ap := doc.Find("assignedPerson"); ap != nil {
		t.Physician = ap.FirstText("name")
	}
	if interp := doc.Find("interpretation"); interp != nil {
		t.Diagnosis = interp.FirstText("statementText")
	}
	return t
}
