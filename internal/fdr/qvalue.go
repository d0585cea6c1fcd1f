package fdr

import (
	"fmt"
	"math"
	"sort"

	"github.com/524D/protosearch/internal/search"
)

// decoyFraction computes spec §4.4's fractional decoy credit for one PSM:
// among the distinct full sequences in its best-matching peptide set, the
// fraction whose owning protein is a decoy. An unambiguous target PSM
// yields 0; an unambiguous decoy PSM yields 1; a PSM tied between a target
// and a decoy sequence (spec §8 scenario 2) yields 0.5. The complementary
// (1-fraction) is credited to the target count, so an ambiguous PSM
// contributes partially to both sides rather than being forced into one
// bucket by the all-or-nothing IsDecoy derivation.
func decoyFraction(p *search.PeptideSpectralMatch) float64 {
	if len(p.BestPeptides) == 0 {
		return 0
	}
	seen := map[string]bool{}
	total, decoy := 0, 0
	for _, pep := range p.BestPeptides {
		seq := pep.FullSequence()
		if seen[seq] {
			continue
		}
		seen[seq] = true
		total++
		if pep.Protein.IsDecoy {
			decoy++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(decoy) / float64(total)
}

// assignQValues implements spec §4.4's q-value assignment: walk ordered
// (best-to-worst) PSMs accumulating fractional target/decoy counts overall
// and per notch, then sets QValue/QValueNotch to the running ratio.
// numNotches sizes the per-notch arrays; a PSM's Notch defaults to
// numNotches (an overflow bucket) when out of range, per spec's "notch
// defaults to num_notches if absent."
func assignQValues(ordered []*search.PeptideSpectralMatch, numNotches int) {
	cumTarget := 0.0
	cumDecoy := 0.0
	targetNotch := make([]float64, numNotches+1)
	decoyNotch := make([]float64, numNotches+1)

	for _, p := range ordered {
		frac := decoyFraction(p)
		cumTarget += 1 - frac
		cumDecoy += frac

		notch := p.Notch
		if notch < 0 || notch > numNotches {
			notch = numNotches
		}
		targetNotch[notch] += 1 - frac
		decoyNotch[notch] += frac

		info := p.FdrInfo
		if info == nil {
			info = &search.FdrInfo{}
			p.FdrInfo = info
		}
		info.CumulativeTarget = cumTarget
		info.CumulativeDecoy = cumDecoy
		info.QValue = math.Min(1, safeDiv(cumDecoy, cumTarget))

		info.CumulativeTargetNotch = append([]float64{}, targetNotch...)
		info.CumulativeDecoyNotch = append([]float64{}, decoyNotch...)
		info.QValueNotch = make([]float64, numNotches+1)
		for n := 0; n <= numNotches; n++ {
			if targetNotch[n] == 0 {
				if decoyNotch[n] > 0 {
					// spec §9 open question: clamp to 1.0 rather than
					// dividing by zero.
					info.QValueNotch[n] = 1.0
				} else {
					info.QValueNotch[n] = 0
				}
				continue
			}
			info.QValueNotch[n] = math.Min(1, decoyNotch[n]/targetNotch[n])
		}
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		if a > 0 {
			return 1
		}
		return 0
	}
	return a / b
}

// monotonize implements spec §4.4's monotonization: walking from worst
// (last) to best (first) in the chosen ordering, each PSM's q-value (and
// each per-notch q-value) is clamped to the running minimum seen so far,
// so a lower-scoring PSM can never report a better q-value than a
// higher-scoring one.
func monotonize(ordered []*search.PeptideSpectralMatch) {
	if len(ordered) == 0 {
		return
	}
	runningMin := ordered[len(ordered)-1].FdrInfo.QValue
	runningMinNotch := append([]float64(nil), ordered[len(ordered)-1].FdrInfo.QValueNotch...)
	for i := len(ordered) - 1; i >= 0; i-- {
		info := ordered[i].FdrInfo
		if info.QValue < runningMin {
			runningMin = info.QValue
		} else {
			info.QValue = runningMin
		}
		for n := range info.QValueNotch {
			if n >= len(runningMinNotch) {
				break
			}
			if info.QValueNotch[n] < runningMinNotch[n] {
				runningMinNotch[n] = info.QValueNotch[n]
			} else {
				info.QValueNotch[n] = runningMinNotch[n]
			}
		}
	}
}

// orderForScoring returns ordered as sorted descending by the chosen key
// (score or delta-score), secondary key |precursor_mass-peptide_mono_mass|
// ascending (spec §4.4).
func orderForScoring(psms []*search.PeptideSpectralMatch, byDeltaScore bool) []*search.PeptideSpectralMatch {
	ordered := append([]*search.PeptideSpectralMatch(nil), psms...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki, kj := scoringKey(ordered[i], byDeltaScore), scoringKey(ordered[j], byDeltaScore)
		if ki != kj {
			return ki > kj
		}
		return massError(ordered[i]) < massError(ordered[j])
	})
	return ordered
}

func scoringKey(p *search.PeptideSpectralMatch, byDeltaScore bool) float64 {
	if byDeltaScore {
		return p.DeltaScore
	}
	return p.BestScore
}

func massError(p *search.PeptideSpectralMatch) float64 {
	if len(p.BestPeptides) == 0 {
		return math.Inf(1)
	}
	mass, err := p.BestPeptides[0].MonoisotopicMass()
	if err != nil {
		return math.Inf(1)
	}
	d := p.PrecursorMass - mass
	if d < 0 {
		d = -d
	}
	return d
}

// dedupByFileScanMass groups by (file_path, scan_number, peptide_mono_mass)
// and keeps the first occurrence in ordered, per spec §4.4's delta-score
// ordering-selection dedup step.
func dedupByFileScanMass(ordered []*search.PeptideSpectralMatch) []*search.PeptideSpectralMatch {
	seen := map[string]bool{}
	out := make([]*search.PeptideSpectralMatch, 0, len(ordered))
	for _, p := range ordered {
		mass := 0.0
		if len(p.BestPeptides) > 0 {
			if m, err := p.BestPeptides[0].MonoisotopicMass(); err == nil {
				mass = m
			}
		}
		key := fmtKey(p.FullFilePath, p.ScanNumber, mass)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func fmtKey(file string, scanNumber int, mass float64) string {
	return fmt.Sprintf("%s|%d|%d", file, scanNumber, int64(math.Round(mass*1e6)))
}

// countAtOnePercent counts PSMs reaching q_value <= 0.01 (spec §4.4's
// ordering-selection comparison).
func countAtOnePercent(ordered []*search.PeptideSpectralMatch) int {
	n := 0
	for _, p := range ordered {
		if p.FdrInfo != nil && p.FdrInfo.QValue <= 0.01 {
			n++
		}
	}
	return n
}
