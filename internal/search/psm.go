package search

import (
	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/spectrum"
)

// ScoreTolerance is the score-difference threshold below which two
// candidates are considered tied (spec §3/§9's score_tol, fixed at 1e-3).
const ScoreTolerance = 1e-3

// FdrInfo is the set of FDR-derived fields attached to a PSM once
// fdr.Engine.Run has processed it (spec §3).
type FdrInfo struct {
	CumulativeTarget      float64
	CumulativeDecoy       float64
	QValue                float64
	CumulativeTargetNotch []float64
	CumulativeDecoyNotch  []float64
	QValueNotch           []float64
	PEP                   float64
	PEPQValue             float64
}

// PeptideSpectralMatch is one mutable hypothesis pairing a scan with one or
// more tied best-scoring peptides (spec §3's PeptideSpectralMatch).
type PeptideSpectralMatch struct {
	ScanIndex             int
	ScanNumber            int
	Notch                 int
	BestScore             float64
	RunnerUpScore         float64
	BestPeptides          []*bio.PeptideWithSetModifications
	MatchedIonsPerPeptide map[*bio.PeptideWithSetModifications][]spectrum.MatchedFragmentIon
	FullFilePath          string
	DeltaScore            float64
	PrecursorMass         float64
	Protease              string

	FdrInfo *FdrInfo
}

// IsDecoy reports whether every peptide in BestPeptides is a decoy (spec
// §3: "derived: true iff every peptide in best_peptides is decoy").
func (p *PeptideSpectralMatch) IsDecoy() bool {
	if len(p.BestPeptides) == 0 {
		return false
	}
	for _, pep := range p.BestPeptides {
		if !pep.Protein.IsDecoy {
			return false
		}
	}
	return true
}

// FullSequence returns the PSM's unambiguous full sequence and true, or
// ("", false) if BestPeptides holds more than one distinct sequence.
func (p *PeptideSpectralMatch) FullSequence() (string, bool) {
	if len(p.BestPeptides) == 0 {
		return "", false
	}
	first := p.BestPeptides[0].FullSequence()
	for _, pep := range p.BestPeptides[1:] {
		if pep.FullSequence() != first {
			return "", false
		}
	}
	return first, true
}

// addOrReplace implements spec §4.2's add_or_replace: update this PSM's
// best/runner-up scores and ambiguity set in light of a newly scored
// candidate peptide.
func (p *PeptideSpectralMatch) addOrReplace(peptide *bio.PeptideWithSetModifications, score float64, notch int, reportAmbiguity bool, matchedIons []spectrum.MatchedFragmentIon) {
	switch {
	case score > p.BestScore+ScoreTolerance:
		p.RunnerUpScore = p.BestScore
		p.BestScore = score
		p.Notch = notch
		p.BestPeptides = []*bio.PeptideWithSetModifications{peptide}
		p.MatchedIonsPerPeptide = map[*bio.PeptideWithSetModifications][]spectrum.MatchedFragmentIon{peptide: matchedIons}
	case score >= p.BestScore-ScoreTolerance:
		if reportAmbiguity {
			p.BestPeptides = append(p.BestPeptides, peptide)
			if p.MatchedIonsPerPeptide == nil {
				p.MatchedIonsPerPeptide = map[*bio.PeptideWithSetModifications][]spectrum.MatchedFragmentIon{}
			}
			p.MatchedIonsPerPeptide[peptide] = matchedIons
		}
	default:
		if score > p.RunnerUpScore {
			p.RunnerUpScore = score
		}
	}
	if p.BestScore-p.RunnerUpScore > p.DeltaScore || p.DeltaScore == 0 {
		p.DeltaScore = p.BestScore - p.RunnerUpScore
	}
}

// ResolveAllAmbiguities returns the canonical representative of
// BestPeptides (the first recorded), or nil if there is none. It does not
// modify the PSM: BestPeptides keeps the full tied set, and the
// representative is not stored.
func (p *PeptideSpectralMatch) ResolveAllAmbiguities() *bio.PeptideWithSetModifications {
	if len(p.BestPeptides) == 0 {
		return nil
	}
	return p.BestPeptides[0]
}
