/*
NAME
  quality.go

DESCRIPTION
  quality.go computes per-lead signal quality metrics used to flag
  recordings that need manual review before validation.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ecg

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// flatlineStdDev is the standard deviation in microvolts below which a lead
// is considered disconnected. Real ECG activity sits well above this.
const flatlineStdDev = 5.0

// mainsBand is the half-width in Hz of the band attributed to each mains
// frequency when estimating interference.
const mainsBand = 1.0

// LeadQuality summarises one lead's signal statistics.
type LeadQuality struct {
	Mean       float64 // Sample mean in microvolts.
	StdDev     float64 // Sample standard deviation in microvolts.
	Flatline   bool    // True if the lead shows no activity.
	MainsShare float64 // Fraction of non-DC spectral energy within 1 Hz of 50 or 60 Hz.
}

// Quality computes LeadQuality for every populated lead of sig.
func Quality(sig *Signal) map[Lead]LeadQuality {
	out := make(map[Lead]LeadQuality, len(sig.Leads))
	for l, samples := range sig.Leads {
		if len(samples) == 0 {
			continue
		}
		q := LeadQuality{
			Mean:   stat.Mean(samples, nil),
			StdDev: math.Sqrt(stat.Variance(samples, nil)),
		}
		q.Flatline = q.StdDev < flatlineStdDev
		q.MainsShare = mainsShare(samples, sig.SampleRate)
		out[l] = q
	}
	return out
}

// mainsShare returns the fraction of non-DC spectral energy lying within
// mainsBand Hz of the 50 and 60 Hz mains frequencies.
func mainsShare(samples []float64, rate int) float64 {
	if len(samples) < 2 || rate <= 0 {
		return 0
	}
	spec := fft.FFTReal(samples)
	binHz := float64(rate) / float64(len(samples))

	var total, mains float64
	for i := 1; i <= len(spec)/2; i++ {
		e := cmplx.Abs(spec[i])
		e *= e
		total += e
		f := float64(i) * binHz
		if math.Abs(f-50) <= mainsBand || math.Abs(f-60) <= mainsBand {
			mains += e
		}
	}
	if total == 0 {
		return 0
	}
	return mains / total
}
