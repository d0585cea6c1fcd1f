package gptmd

import (
	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/spectrum"
)

// possibleMods implements spec §4.3's possible_mods: enumerate single
// modifications that could explain the gap between precursorMass and
// peptideMonoMass, either directly, by swapping for an existing
// modification with the same motif, or as one half of a two-mass combo.
// The result is a flat, possibly-duplicated stream (spec §9's design note:
// duplicates across combo paths are acceptable, callers insert into a
// set).
func possibleMods(precursorMass, peptideMonoMass float64, allMods []bio.Modification, combos []ModPair, tol spectrum.Tolerance, peptide *bio.PeptideWithSetModifications) []bio.Modification {
	var out []bio.Modification

	for _, mod := range allMods {
		if !mod.Valid {
			continue
		}
		if tol.Within(precursorMass, peptideMonoMass+mod.MonoisotopicMass) {
			out = append(out, mod)
		}
	}

	for _, existing := range peptide.Modifications {
		for _, mod := range allMods {
			if !mod.Valid || mod.Motif != existing.Motif {
				continue
			}
			target := peptideMonoMass + mod.MonoisotopicMass - existing.MonoisotopicMass
			if tol.Within(precursorMass, target) {
				out = append(out, mod)
			}
		}
	}

	for _, combo := range combos {
		sum := combo.First.MonoisotopicMass + combo.Second.MonoisotopicMass
		if !tol.Within(precursorMass, peptideMonoMass+sum) {
			continue
		}
		out = append(out, possibleMods(precursorMass-combo.First.MonoisotopicMass, peptideMonoMass, allMods, nil, tol, peptide)...)
		out = append(out, possibleMods(precursorMass-combo.Second.MonoisotopicMass, peptideMonoMass, allMods, nil, tol, peptide)...)
		out = append(out, combo.First, combo.Second)
	}

	return out
}
