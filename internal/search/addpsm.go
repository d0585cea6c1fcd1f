package search

import (
	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/spectrum"
)

// scoredMatch bundles a score with the matched ions that produced it.
type scoredMatch struct {
	score float64
	ions  []spectrum.MatchedFragmentIon
}

func matchAndScore(scan *spectrum.Scan, products []bio.TheoreticalFragment, common CommonParams) scoredMatch {
	ions := spectrum.MatchFragmentIons(scan, products, common.ProductMassTolerance, common.MaxFragmentCharge, common.MatchAllCharges)
	score := spectrum.CalculatePeptideScore(scan, ions, common.FragmentsCanHaveDifferentCharges)
	return scoredMatch{score: score, ions: ions}
}

// addPSM implements spec §4.2's add_psm: reject sub-cutoff scores, then
// acquire the per-scan lock and either create a new slot or fold the
// candidate into the existing one via addOrReplace. slot is the scan's
// position within Config.Scans.Scans (what the lock array and psms slice
// are sized and indexed by); scanIndex is the scan's own ScanIndex field,
// recorded on the PSM as-is and not assumed to equal slot.
func (e *Engine) addPSM(slot, scanIndex, scanNumber, notch int, score float64, peptide *bio.PeptideWithSetModifications, ions []spectrum.MatchedFragmentIon, peptideMass, precursorMass float64) {
	if score < e.cfg.Common.ScoreCutoff {
		return
	}
	e.locks.Lock(slot)
	defer e.locks.Unlock(slot)

	existing := e.psms[slot]
	if existing == nil {
		e.psms[slot] = &PeptideSpectralMatch{
			ScanIndex:             scanIndex,
			ScanNumber:            scanNumber,
			Notch:                 notch,
			BestScore:             score,
			BestPeptides:          []*bio.PeptideWithSetModifications{peptide},
			MatchedIonsPerPeptide: map[*bio.PeptideWithSetModifications][]spectrum.MatchedFragmentIon{peptide: ions},
			PrecursorMass:         precursorMass,
			FullFilePath:          e.cfg.FullFilePath,
			Protease:              e.cfg.Digestion.Protease,
		}
		return
	}
	if score-existing.RunnerUpScore > -ScoreTolerance {
		existing.addOrReplace(peptide, score, notch, e.cfg.Common.ReportAmbiguity, ions)
	}
}
