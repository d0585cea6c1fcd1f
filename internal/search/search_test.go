package search

import (
	"context"
	"errors"
	"testing"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/errs"
	"github.com/524D/protosearch/internal/massdiff"
	"github.com/524D/protosearch/internal/spectrum"
)

func newTestPSM(bestScore float64) *PeptideSpectralMatch {
	return &PeptideSpectralMatch{BestScore: bestScore}
}

// Invariant 2: for all PSMs, best_score >= runner_up_score >= 0.
func TestAddOrReplaceKeepsScoreInvariant(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	pepA := &bio.PeptideWithSetModifications{Protein: protein, BaseSequence: "PEPTIDEK"}
	pepB := &bio.PeptideWithSetModifications{Protein: protein, BaseSequence: "PEPTIDER"}

	psm := newTestPSM(5.0)
	psm.addOrReplace(pepA, 10.0, 0, true, nil)
	if psm.BestScore != 10.0 || psm.RunnerUpScore != 5.0 {
		t.Fatalf("unexpected scores after replace: best=%v runnerUp=%v", psm.BestScore, psm.RunnerUpScore)
	}
	psm.addOrReplace(pepB, 10.0005, 0, true, nil)
	if len(psm.BestPeptides) != 2 {
		t.Errorf("expected tie to add to ambiguity set, got %d peptides", len(psm.BestPeptides))
	}
	if psm.BestScore < psm.RunnerUpScore {
		t.Errorf("invariant violated: best_score %v < runner_up_score %v", psm.BestScore, psm.RunnerUpScore)
	}
}

func buildScanFromPeptide(pep *bio.PeptideWithSetModifications, d bio.DissociationType, scanIndex, scanNumber int) (*spectrum.Scan, error) {
	mass, err := pep.MonoisotopicMass()
	if err != nil {
		return nil, err
	}
	frags := pep.Fragment(d)
	peaks := make([]spectrum.Peak, len(frags))
	for i, f := range frags {
		peaks[i] = spectrum.Peak{Mz: bio.MzFromNeutralMass(f.NeutralMass, 1), Intensity: 1.0}
	}
	return &spectrum.Scan{
		ScanIndex:        scanIndex,
		ScanNumber:       scanNumber,
		PrecursorMass:    mass,
		DissociationType: d,
		Peaks:            peaks,
	}, nil
}

// Scenario 1 (spec §8): one protein "PEPTIDEK", trypsin digest, one scan
// whose precursor mass matches the peptide exactly and whose peaks match
// every b/y ion. Expect one PSM with best_score ~= num_ions+1.0 that is not
// a decoy. This test checks the search result only; it does not run FDR
// analysis.
func TestEngineSingleTargetPerfectMatch(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	peptide := &bio.PeptideWithSetModifications{Protein: protein, OneBasedStart: 1, BaseSequence: "PEPTIDEK", Modifications: map[int]bio.Modification{}}

	scan, err := buildScanFromPeptide(peptide, bio.HCD, 0, 1)
	if err != nil {
		t.Fatalf("building scan: %v", err)
	}
	coll := spectrum.NewCollection([]*spectrum.Scan{scan})

	cfg := Config{
		Proteins:         []*bio.Protein{protein},
		Scans:            coll,
		MassDiffAcceptor: massdiff.SingleNotchAcceptor{Tolerance: 0.01},
		Digestion: bio.DigestionParams{
			Protease: "trypsin", MinPeptideLength: 1, MaxPeptideLength: 50, MaxModificationIsoforms: 4,
		},
		Common: CommonParams{
			MaxThreadsPerFile:    1,
			ScoreCutoff:          0,
			DissociationType:     bio.HCD,
			ProductMassTolerance: spectrum.Tolerance{Value: 0.01, PPM: false},
			MaxFragmentCharge:    1,
			ReportAmbiguity:      true,
		},
		DecoyOnTheFly: false,
	}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results.PSMs[0] == nil {
		t.Fatal("expected a PSM at slot 0")
	}
	psm := results.PSMs[0]
	if psm.ScanIndex != 0 {
		t.Errorf("psm.ScanIndex = %d, want 0", psm.ScanIndex)
	}
	if psm.IsDecoy() {
		t.Errorf("expected a target match, got is_decoy=true")
	}
	numIons := 2 * (len(peptide.BaseSequence) - 1)
	wantScore := float64(numIons) + 1.0
	if diff := wantScore - psm.BestScore; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("BestScore = %v, want ~%v", psm.BestScore, wantScore)
	}
}

// Invariant 1: every non-empty PSM slot holds the ScanIndex of the scan at
// that slot's position, also when ScanIndex values are not dense from zero
// (here ScanIndex 3 sits at slot 0).
func TestEngineScanIndexInvariant(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEKMNOPQRSK"}
	peptide := &bio.PeptideWithSetModifications{Protein: protein, OneBasedStart: 1, BaseSequence: "PEPTIDEK", Modifications: map[int]bio.Modification{}}
	scan, err := buildScanFromPeptide(peptide, bio.HCD, 3, 7)
	if err != nil {
		t.Fatalf("building scan: %v", err)
	}
	scan.ScanIndex = 3
	coll := &spectrum.Collection{Scans: []*spectrum.Scan{scan}, PrecursorMass: []float64{scan.PrecursorMass}}

	cfg := Config{
		Proteins:         []*bio.Protein{protein},
		Scans:            coll,
		MassDiffAcceptor: massdiff.SingleNotchAcceptor{Tolerance: 0.01},
		Digestion:        bio.DigestionParams{Protease: "trypsin", MinPeptideLength: 1, MaxPeptideLength: 50, MaxModificationIsoforms: 4},
		Common: CommonParams{
			MaxThreadsPerFile: 1, DissociationType: bio.HCD,
			ProductMassTolerance: spectrum.Tolerance{Value: 0.01, PPM: false}, MaxFragmentCharge: 1,
		},
	}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The lock array and psms slice are indexed by position in Scans, not
	// by ScanIndex value; construct accordingly.
	if len(engine.psms) != 1 {
		t.Fatalf("expected 1 psm slot, got %d", len(engine.psms))
	}
	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, p := range results.PSMs {
		if p != nil && p.ScanIndex != coll.Scans[i].ScanIndex {
			t.Errorf("slot %d holds psm with scan_index %d, want %d", i, p.ScanIndex, coll.Scans[i].ScanIndex)
		}
	}
}

func TestEngineCancellation(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	scan := &spectrum.Scan{ScanIndex: 0, PrecursorMass: 927.45, DissociationType: bio.HCD}
	coll := spectrum.NewCollection([]*spectrum.Scan{scan})
	cfg := Config{
		Proteins:         []*bio.Protein{protein},
		Scans:            coll,
		MassDiffAcceptor: massdiff.SingleNotchAcceptor{Tolerance: 0.01},
		Digestion:        bio.DigestionParams{Protease: "trypsin", MinPeptideLength: 1, MaxPeptideLength: 50, MaxModificationIsoforms: 4},
		Common:           CommonParams{MaxThreadsPerFile: 1, DissociationType: bio.HCD, ProductMassTolerance: spectrum.Tolerance{Value: 0.01}, MaxFragmentCharge: 1},
	}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	engine.Stop()
	_, err = engine.Run(context.Background())
	if !errors.Is(err, errs.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}
