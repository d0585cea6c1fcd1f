package search

import (
	"math/rand"

	"github.com/524D/protosearch/internal/bio"
	"gonum.org/v1/gonum/stat"
)

// scrambleAttempts bounds the rescramble loop when a reverse decoy turns
// out too similar to its target (spec §4.2 step 1).
const scrambleAttempts = 20

// generateDecoy produces a decoy peptide for target: a reverse decoy, or,
// if that reverse decoy's sequence similarity to target exceeds
// bio.SimilarityThreshold, a scrambled decoy instead (spec §4.2's
// decoy-on-the-fly step).
func generateDecoy(target *bio.PeptideWithSetModifications, r *rand.Rand) *bio.PeptideWithSetModifications {
	reverse := bio.GetReverseDecoyFromPeptide(target)
	if bio.PeptideSequenceSimilarity(target, reverse) <= bio.SimilarityThreshold {
		return reverse
	}
	return bio.GetScrambledDecoyFromPeptide(target, r, scrambleAttempts)
}

// decoyScoreGapStats summarizes, for debug logging, the distribution of
// (decoy_score - target_score) seen during a search: mean and variance via
// gonum/stat, the same summary-statistics pair the teacher's recalibration
// diagnostics compute over residuals.
type decoyScoreGapStats struct {
	gaps []float64
}

func (d *decoyScoreGapStats) record(gap float64) {
	d.gaps = append(d.gaps, gap)
}

func (d *decoyScoreGapStats) meanVariance() (mean, variance float64) {
	if len(d.gaps) == 0 {
		return 0, 0
	}
	return stat.MeanVariance(d.gaps, nil)
}
