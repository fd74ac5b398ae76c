/*
NAME
  derive.go

DESCRIPTION
  derive.go fills in missing standard limb leads from leads I and II using
  the Einthoven and Goldberger relations.

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

// DeriveLimbLeads computes any of III, aVR, aVL and aVF that are absent
// from leads, point-wise from leads I and II:
//
//	III = II − I
//	aVR = −(I + II) / 2
//	aVL = I − II/2
//	aVF = II − I/2
//
// Leads already supplied by the source format are never overwritten. If
// either I or II is missing or empty, leads is left untouched. Both inputs
// are truncated to the shorter length for the computation; the source
// arrays themselves keep their lengths.
func DeriveLimbLeads(leads map[Lead][]float64) {
	i, ii := leads[LeadI], leads[LeadII]
	if len(i) == 0 || len(ii) == 0 {
		return
	}
	n := len(i)
	if len(ii) < n {
		n = len(ii)
	}

	derive := func(l Lead, f func(a, b float64) float64) {
		if _, ok := leads[l]; ok {
			return
		}
		out := make([]float64, n)
		for k := 0; k < n; k++ {
			out[k] = f(i[k], ii[k])
		}
		leads[l] = out
	}

	derive(LeadIII, func(a, b float64) float64 { return b - a })
	derive(LeadAVR, func(a, b float64) float64 { return -(a + b) / 2 })
	derive(LeadAVL, func(a, b float64) float64 { return a - b/2 })
	derive(LeadAVF, func(a, b float64) float64 { return b - a/2 })
}
