package fdr

import (
	"math"
	"testing"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/search"
)

func psmWithQValue(q float64) *search.PeptideSpectralMatch {
	return &search.PeptideSpectralMatch{FdrInfo: &search.FdrInfo{QValue: q, QValueNotch: []float64{q}}}
}

// Scenario 5 (spec §8): five PSMs in score order with raw q-values
// [0.00, 0.02, 0.01, 0.03, 0.05] monotonize to [0.00, 0.01, 0.01, 0.03, 0.05].
func TestMonotonize(t *testing.T) {
	raw := []float64{0.00, 0.02, 0.01, 0.03, 0.05}
	psms := make([]*search.PeptideSpectralMatch, len(raw))
	for i, q := range raw {
		psms[i] = psmWithQValue(q)
	}
	monotonize(psms)

	want := []float64{0.00, 0.01, 0.01, 0.03, 0.05}
	for i, p := range psms {
		if math.Abs(p.FdrInfo.QValue-want[i]) > 1e-9 {
			t.Errorf("psms[%d].QValue = %v, want %v", i, p.FdrInfo.QValue, want[i])
		}
	}
}

// Invariant 3: after monotonization, traversing worst-to-best yields
// non-increasing q_value (so q_value never decreases from best to worst).
func TestMonotonizeNonIncreasing(t *testing.T) {
	raw := []float64{0.0, 0.3, 0.1, 0.2, 0.05, 0.4}
	psms := make([]*search.PeptideSpectralMatch, len(raw))
	for i, q := range raw {
		psms[i] = psmWithQValue(q)
	}
	monotonize(psms)
	for i := 1; i < len(psms); i++ {
		if psms[i].FdrInfo.QValue < psms[i-1].FdrInfo.QValue {
			t.Errorf("q_value increased from %v to %v at index %d", psms[i-1].FdrInfo.QValue, psms[i].FdrInfo.QValue, i)
		}
	}
}

func decoyProtein() *bio.Protein  { return &bio.Protein{Accession: "DECOY_P1", IsDecoy: true} }
func targetProtein() *bio.Protein { return &bio.Protein{Accession: "P1", IsDecoy: false} }

func targetPSM(score float64) *search.PeptideSpectralMatch {
	pep := &bio.PeptideWithSetModifications{Protein: targetProtein(), BaseSequence: "PEPTIDEK"}
	return &search.PeptideSpectralMatch{BestScore: score, BestPeptides: []*bio.PeptideWithSetModifications{pep}}
}

func decoyPSM(score float64) *search.PeptideSpectralMatch {
	pep := &bio.PeptideWithSetModifications{Protein: decoyProtein(), BaseSequence: "KEDITPEP"}
	return &search.PeptideSpectralMatch{BestScore: score, BestPeptides: []*bio.PeptideWithSetModifications{pep}}
}

func TestAssignQValuesAllTargets(t *testing.T) {
	psms := []*search.PeptideSpectralMatch{targetPSM(10), targetPSM(9), targetPSM(8)}
	assignQValues(psms, 1)
	for _, p := range psms {
		if p.FdrInfo.QValue != 0 {
			t.Errorf("expected q_value 0 with no decoys, got %v", p.FdrInfo.QValue)
		}
	}
}

// Scenario 2 (spec §8): a PSM tied between one target and one decoy
// sequence counts as 0.5 decoy in FDR, even though IsDecoy() reports false
// (mixed ambiguity resolves to not-decoy for reporting purposes only).
func TestDecoyFractionMixedTie(t *testing.T) {
	tpep := &bio.PeptideWithSetModifications{Protein: targetProtein(), BaseSequence: "PEPTIDEK"}
	dpep := &bio.PeptideWithSetModifications{Protein: decoyProtein(), BaseSequence: "KEDITPEP"}
	psm := &search.PeptideSpectralMatch{BestPeptides: []*bio.PeptideWithSetModifications{tpep, dpep}}
	if frac := decoyFraction(psm); frac != 0.5 {
		t.Errorf("decoyFraction(mixed tie) = %v, want 0.5", frac)
	}
	if psm.IsDecoy() {
		t.Errorf("expected IsDecoy() == false for a mixed ambiguity set")
	}
}

// Open question resolution (spec §9): cumulative_target_notch[notch] == 0
// with decoy-positive clamps q_value_notch to 1.0 rather than dividing by
// zero.
func TestAssignQValuesNotchZeroDivisionClamp(t *testing.T) {
	psms := []*search.PeptideSpectralMatch{decoyPSM(10)}
	psms[0].Notch = 0
	assignQValues(psms, 1)
	if psms[0].FdrInfo.QValueNotch[0] != 1.0 {
		t.Errorf("expected q_value_notch clamped to 1.0, got %v", psms[0].FdrInfo.QValueNotch[0])
	}
}

// Round-trip: running FDR analysis twice on the same PSM list produces
// identical fdr_info.
func TestRunIdempotent(t *testing.T) {
	build := func() []*search.PeptideSpectralMatch {
		return []*search.PeptideSpectralMatch{targetPSM(10), targetPSM(9), decoyPSM(8)}
	}
	engine, err := New(Config{NumNotches: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := build()
	if _, err := engine.Run(first); err != nil {
		t.Fatalf("Run: %v", err)
	}
	second := build()
	if _, err := engine.Run(second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range first {
		if first[i].FdrInfo.QValue != second[i].FdrInfo.QValue {
			t.Errorf("psm %d: QValue differs across runs: %v vs %v", i, first[i].FdrInfo.QValue, second[i].FdrInfo.QValue)
		}
	}
}
