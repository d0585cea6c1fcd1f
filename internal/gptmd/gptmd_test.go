package gptmd

import (
	"testing"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/search"
	"github.com/524D/protosearch/internal/spectrum"
)

func confidentPSM(peptide *bio.PeptideWithSetModifications, precursorMass float64) *search.PeptideSpectralMatch {
	return &search.PeptideSpectralMatch{
		BestPeptides:  []*bio.PeptideWithSetModifications{peptide},
		PrecursorMass: precursorMass,
		Notch:         0,
		FdrInfo:       &search.FdrInfo{QValueNotch: []float64{0.0}},
	}
}

// Scenario 3 (spec §8): peptide PEPTIDEK (mono_mass ~927.45), one
// modification of mass +15.995 with motif T, Anywhere restriction; scan
// precursor mass 943.44. The exact sum is 943.4499, about 10.5 ppm away, so
// the test uses a 20 ppm tolerance. Expect a (accession, position_of_T,
// +15.995) output.
func TestGptmdSingleMassMatch(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	peptide := &bio.PeptideWithSetModifications{Protein: protein, OneBasedStart: 1, BaseSequence: "PEPTIDEK", Modifications: map[int]bio.Modification{}}

	oxidation := bio.Modification{ID: "Ox", Motif: "T", MonoisotopicMass: 15.995, LocationRestriction: bio.Anywhere, Valid: true}
	psm := confidentPSM(peptide, 943.44)

	cfg := Config{
		AllMods:          []bio.Modification{oxidation},
		DefaultTolerance: spectrum.Tolerance{Value: 20, PPM: true},
	}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := engine.Run([]*search.PeptideSpectralMatch{psm})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	mods, ok := results.Mods["P1"]
	if !ok || len(mods) == 0 {
		t.Fatalf("expected a discovered modification on P1, got %+v", results.Mods)
	}
	found := false
	tPos := 4 // 1-based position of T in PEPTIDEK
	for _, m := range mods {
		if m.Position == tPos && m.Modification.ID == "Ox" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected (P1, position %d, Ox) in %+v", tPos, mods)
	}
}

// Scenario 4 (spec §8): combo of +14.0157 and +42.0106 (sum 56.0263);
// precursor matches peptide_mono + 56.0263. Expect possibleMods to surface
// both individual modifications.
func TestPossibleModsCombo(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	peptide := &bio.PeptideWithSetModifications{Protein: protein, OneBasedStart: 1, BaseSequence: "PEPTIDEK", Modifications: map[int]bio.Modification{}}
	peptideMass, err := peptide.MonoisotopicMass()
	if err != nil {
		t.Fatalf("MonoisotopicMass: %v", err)
	}

	m1 := bio.Modification{ID: "Methyl", Motif: "X", MonoisotopicMass: 14.0157, LocationRestriction: bio.Anywhere, Valid: true}
	m2 := bio.Modification{ID: "Trimethyl", Motif: "X", MonoisotopicMass: 42.0106, LocationRestriction: bio.Anywhere, Valid: true}
	combos := []ModPair{{First: m1, Second: m2}}
	tol := spectrum.Tolerance{Value: 0.01, PPM: false}

	precursor := peptideMass + 56.0263
	candidates := possibleMods(precursor, peptideMass, nil, combos, tol, peptide)

	var haveM1, haveM2 bool
	for _, c := range candidates {
		if c.ID == "Methyl" {
			haveM1 = true
		}
		if c.ID == "Trimethyl" {
			haveM2 = true
		}
	}
	if !haveM1 || !haveM2 {
		t.Errorf("expected both combo components among candidates, got %+v", candidates)
	}
}

// Round-trip: GPTMD on an empty PSM list produces an empty map with
// mods_added = 0.
func TestRunEmptyPSMList(t *testing.T) {
	cfg := Config{AllMods: []bio.Modification{{ID: "Ox", Motif: "X", Valid: true}}}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := engine.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results.ModsAdded != 0 {
		t.Errorf("ModsAdded = %d, want 0", results.ModsAdded)
	}
	if len(results.Mods) != 0 {
		t.Errorf("expected empty mods map, got %+v", results.Mods)
	}
}

// Invariant 5: every (pos, mod) in a GPTMD output satisfies mod_fits
// against the owning protein.
func TestGptmdOutputsSatisfyModFits(t *testing.T) {
	protein := &bio.Protein{Accession: "P1", BaseSequence: "PEPTIDEK"}
	peptide := &bio.PeptideWithSetModifications{Protein: protein, OneBasedStart: 1, BaseSequence: "PEPTIDEK", Modifications: map[int]bio.Modification{}}
	oxidation := bio.Modification{ID: "Ox", Motif: "T", MonoisotopicMass: 15.995, LocationRestriction: bio.Anywhere, Valid: true}
	psm := confidentPSM(peptide, 943.44)

	cfg := Config{AllMods: []bio.Modification{oxidation}, DefaultTolerance: spectrum.Tolerance{Value: 20, PPM: true}}
	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := engine.Run([]*search.PeptideSpectralMatch{psm})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for accession, mods := range results.Mods {
		for _, m := range mods {
			if !bio.ModFits(m.Modification, protein, 1, protein.Length(), m.Position) {
				t.Errorf("discovered mod %+v on %s does not satisfy ModFits", m, accession)
			}
		}
	}
}
