/*
NAME
  signal.go

DESCRIPTION
  signal.go defines the canonical multi-lead ECG signal produced by the
  format adapters and consumed by rendering, measurement and validation.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ecg defines the canonical in-memory representation of an ECG
// recording: a sample rate and per-lead sample arrays in microvolts,
// together with the patient and test metadata extracted alongside it.
package ecg

import (
	"strings"

	"github.com/pkg/errors"
)

// Lead identifies one electrode placement of a recording.
type Lead string

// The standard 12 leads plus the pediatric right-sided and posterior
// placements.
const (
	LeadI   Lead = "I"
	LeadII  Lead = "II"
	LeadIII Lead = "III"
	LeadAVR Lead = "aVR"
	LeadAVL Lead = "aVL"
	LeadAVF Lead = "aVF"
	LeadV1  Lead = "V1"
	LeadV2  Lead = "V2"
	LeadV3  Lead = "V3"
	LeadV4  Lead = "V4"
	LeadV5  Lead = "V5"
	LeadV6  Lead = "V6"
	LeadV3R Lead = "V3R"
	LeadV4R Lead = "V4R"
	LeadV7  Lead = "V7"
)

// StandardLeads is the conventional 12-lead presentation order.
var StandardLeads = []Lead{
	LeadI, LeadII, LeadIII, LeadAVR, LeadAVL, LeadAVF,
	LeadV1, LeadV2, LeadV3, LeadV4, LeadV5, LeadV6,
}

// ExtraLeads are the additional placements seen in pediatric recordings.
var ExtraLeads = []Lead{LeadV3R, LeadV4R, LeadV7}

// LeadFromString returns the Lead matching s, ignoring case.
func LeadFromString(s string) (Lead, error) {
	for _, l := range append(append([]Lead{}, StandardLeads...), ExtraLeads...) {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", errors.Errorf("unknown lead (%s)", s)
}

// Signal is the canonical recording. Lead samples are in microvolts, one
// array element per recorded instant. A Signal is immutable once assembled
// and safe for concurrent reads.
type Signal struct {
	SampleRate int
	Leads      map[Lead][]float64
}

// New assembles a Signal from per-lead microvolt arrays, validating that
// the rate is positive and that every populated lead spans the same
// duration within one sample's tolerance. Adapters must have normalised to
// microvolts before this point; no unit conversion happens here.
func New(rate int, leads map[Lead][]float64) (*Signal, error) {
	if rate <= 0 {
		return nil, errors.Errorf("invalid sample rate: %d", rate)
	}
	ref := -1
	for _, l := range leadOrder(leads) {
		n := len(leads[l])
		if n == 0 {
			continue
		}
		if ref < 0 {
			ref = n
			continue
		}
		if n-ref > 1 || ref-n > 1 {
			return nil, errors.Errorf("lead %s has %d samples, others have %d", l, n, ref)
		}
	}
	return &Signal{SampleRate: rate, Leads: leads}, nil
}

// Duration returns the recording length in seconds, computed once from the
// first populated lead in presentation order.
func (s *Signal) Duration() float64 {
	for _, l := range leadOrder(s.Leads) {
		if n := len(s.Leads[l]); n > 0 {
			return float64(n) / float64(s.SampleRate)
		}
	}
	return 0
}

// leadOrder returns the leads of m in deterministic presentation order:
// the standard 12 first, then the extras. Map iteration order must not
// leak into the duration invariant.
func leadOrder(m map[Lead][]float64) []Lead {
	order := make([]Lead, 0, len(m))
	for _, l := range StandardLeads {
		if _, ok := m[l]; ok {
			order = append(order, l)
		}
	}
	for _, l := range ExtraLeads {
		if _, ok := m[l]; ok {
			order = append(order, l)
		}
	}
	return order
}

// Patient holds the demographic fields the vendor formats carry. Absent
// fields are left empty rather than failing the parse.
type Patient struct {
	ID        string
	Name      string
	Sex       string
	BirthDate string
}

// Test holds the acquisition metadata of a recording.
type Test struct {
	Date      string
	Device    string
	Site      string
	Physician string
	Diagnosis string
}

// Result is what every format adapter produces: the canonical signal plus
// whatever metadata the document carried.
type Result struct {
	Patient Patient
	Test    Test
	Signal  *Signal
}
