package spectrum

import (
	"math"
	"sort"

	"github.com/524D/protosearch/internal/bio"
)

// MatchedFragmentIon pairs one theoretical product ion with the observed
// peak it was matched to.
type MatchedFragmentIon struct {
	Theoretical       bio.TheoreticalFragment
	ObservedMz        float64
	ObservedIntensity float64
	Charge            int
}

// MatchFragmentIons finds, for each theoretical product ion, the closest
// observed peak within tolerance, across charges 1..maxCharge. If
// matchAllCharges is false only the best (closest, tie-broken by intensity)
// charge per ion is kept; if true every charge state within tolerance is
// kept as a separate match (spec §4.1's match_all_charges flag, used when
// building a spectral library).
func MatchFragmentIons(scan *Scan, theoreticalProducts []bio.TheoreticalFragment, tol Tolerance, maxCharge int, matchAllCharges bool) []MatchedFragmentIon {
	if maxCharge < 1 {
		maxCharge = 1
	}
	peaks := make([]Peak, len(scan.Peaks))
	copy(peaks, scan.Peaks)
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Mz < peaks[j].Mz })
	mzs := make([]float64, len(peaks))
	for i, p := range peaks {
		mzs[i] = p.Mz
	}

	var out []MatchedFragmentIon
	for _, tp := range theoreticalProducts {
		var best MatchedFragmentIon
		bestDist := 0.0
		haveBest := false
		for charge := 1; charge <= maxCharge; charge++ {
			mz := bio.MzFromNeutralMass(tp.NeutralMass, charge)
			idx := closestPeakWithinTolerance(peaks, mzs, mz, tol)
			if idx < 0 {
				continue
			}
			m := MatchedFragmentIon{Theoretical: tp, ObservedMz: peaks[idx].Mz, ObservedIntensity: peaks[idx].Intensity, Charge: charge}
			if matchAllCharges {
				out = append(out, m)
				continue
			}
			dist := math.Abs(peaks[idx].Mz - mz)
			if !haveBest || dist < bestDist || (dist == bestDist && m.ObservedIntensity > best.ObservedIntensity) {
				best = m
				bestDist = dist
				haveBest = true
			}
		}
		if !matchAllCharges && haveBest {
			out = append(out, best)
		}
	}
	return out
}

// closestPeakWithinTolerance returns the index of the peak in a sorted mzs
// slice that lies closest to target within tol, or -1 if none do. Among
// equally close peaks the most intense one wins.
func closestPeakWithinTolerance(peaks []Peak, mzs []float64, target float64, tol Tolerance) int {
	delta := tol.Value
	if tol.PPM {
		delta = target * tol.Value * 1e-6
	}
	lo := lowerBound(mzs, target-delta)
	best := -1
	bestDist := 0.0
	for i := lo; i < len(mzs) && mzs[i] <= target+delta; i++ {
		if !tol.Within(mzs[i], target) {
			continue
		}
		dist := math.Abs(mzs[i] - target)
		if best < 0 || dist < bestDist || (dist == bestDist && peaks[i].Intensity > peaks[best].Intensity) {
			best = i
			bestDist = dist
		}
	}
	return best
}

// lowerBound returns the first index i such that mzs[i] >= target.
func lowerBound(mzs []float64, target float64) int {
	lo, hi := 0, len(mzs)
	for lo < hi {
		mid := (lo + hi) / 2
		if mzs[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// CalculatePeptideScore implements spec §4.1's score formula: number of
// matched ions plus the fraction of the scan's total intensity those
// matches account for. When fragmentsCanHaveDifferentCharges is false, only
// the highest-charge match per theoretical ion counts; matches at lower
// charges for the same ion are discarded first.
func CalculatePeptideScore(scan *Scan, matched []MatchedFragmentIon, fragmentsCanHaveDifferentCharges bool) float64 {
	if !fragmentsCanHaveDifferentCharges {
		matched = dedupByHighestCharge(matched)
	}
	var intensitySum float64
	for _, m := range matched {
		intensitySum += m.ObservedIntensity
	}
	total := scan.TotalIntensity()
	if total == 0 {
		return float64(len(matched))
	}
	return float64(len(matched)) + intensitySum/total
}

func dedupByHighestCharge(matched []MatchedFragmentIon) []MatchedFragmentIon {
	best := map[bio.TheoreticalFragment]MatchedFragmentIon{}
	for _, m := range matched {
		cur, ok := best[m.Theoretical]
		if !ok || m.Charge > cur.Charge {
			best[m.Theoretical] = m
		}
	}
	out := make([]MatchedFragmentIon, 0, len(best))
	for _, m := range best {
		out = append(out, m)
	}
	return out
}
