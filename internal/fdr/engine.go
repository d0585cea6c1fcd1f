package fdr

import (
	"github.com/524D/protosearch/internal/search"
)

// Engine runs FDR analysis over a fixed Config (spec §4.4).
type Engine struct {
	cfg Config
}

// New validates cfg and constructs an Engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// PeptideCount is one entry of Results' dataset-wide or per-file peptide
// counting (spec §4.4's "Peptide counting").
type PeptideCount struct {
	FullSequence string
	FilePath     string // empty for the dataset-wide count
	Count        int
}

// Results is Engine.Run's output (spec §6's FdrAnalysisResults).
type Results struct {
	PSMsWithin1PercentFDR int
	PeptideCounts         []PeptideCount
	PerFilePeptideCounts  []PeptideCount
	UsedDeltaScore        bool
}

// Run mutates every psm's FdrInfo in place and returns the dataset-level
// results (spec §4.4's contract). psms is mutated; the FDR pipeline never
// discards a PSM, only annotates it.
func (e *Engine) Run(psms []*search.PeptideSpectralMatch) (*Results, error) {
	groups := groupByProtease(psms)
	usedDeltaScore := false
	for _, group := range groups {
		delta := e.processGroup(group)
		if delta {
			usedDeltaScore = true
		}
	}
	runsPEP := e.cfg.AnalysisType == PSM || e.cfg.AnalysisType == Crosslink
	if runsPEP && len(psms) > pepMinPSMs {
		computePEP(psms, e.cfg.AnalysisType.pepTag())
		assignPEPQValues(psms)
	}

	results := &Results{UsedDeltaScore: usedDeltaScore}
	results.PSMsWithin1PercentFDR = countWithinOnePercent(psms)
	results.PeptideCounts, results.PerFilePeptideCounts = countPeptides(psms)
	return results, nil
}

// RunPeptideLevel implements the supplemented Peptide analysis_type (see
// SPEC_FULL.md §5): PSMs are first collapsed to their best-scoring
// representative per full sequence, then the same q-value/monotonization
// pipeline runs over that collapsed set, grouped by full_sequence instead
// of scan_index.
func (e *Engine) RunPeptideLevel(psms []*search.PeptideSpectralMatch) (*Results, error) {
	collapsed := collapseToPeptideBest(psms)
	return e.Run(collapsed)
}

func (e *Engine) processGroup(group []*search.PeptideSpectralMatch) (usedDeltaScore bool) {
	scoreOrder := orderForScoring(group, false)
	if !e.cfg.UseDeltaScore {
		assignQValues(scoreOrder, e.cfg.NumNotches)
		monotonize(scoreOrder)
		return false
	}

	deltaOrder := orderForScoring(group, true)
	scoreDedup := dedupByFileScanMass(scoreOrder)
	deltaDedup := dedupByFileScanMass(deltaOrder)

	assignQValues(scoreDedup, e.cfg.NumNotches)
	scoreCount := countAtOnePercent(scoreDedup)
	assignQValues(deltaDedup, e.cfg.NumNotches)
	deltaCount := countAtOnePercent(deltaDedup)

	// Tie goes to the score ordering (spec §8's documented tiebreak).
	if deltaCount > scoreCount {
		assignQValues(deltaOrder, e.cfg.NumNotches)
		monotonize(deltaOrder)
		return true
	}
	assignQValues(scoreOrder, e.cfg.NumNotches)
	monotonize(scoreOrder)
	return false
}

func groupByProtease(psms []*search.PeptideSpectralMatch) map[string][]*search.PeptideSpectralMatch {
	groups := map[string][]*search.PeptideSpectralMatch{}
	for _, p := range psms {
		groups[p.Protease] = append(groups[p.Protease], p)
	}
	return groups
}

func countWithinOnePercent(psms []*search.PeptideSpectralMatch) int {
	n := 0
	for _, p := range psms {
		if p.FdrInfo != nil && p.FdrInfo.QValue <= 0.01 {
			n++
		}
	}
	return n
}

// countPeptides implements spec §4.4's peptide counting: for unambiguous
// PSMs at q_value<=0.01 and q_value_notch<=0.01, tally dataset-wide and
// per-(file,sequence) counts.
func countPeptides(psms []*search.PeptideSpectralMatch) (dataset, perFile []PeptideCount) {
	datasetCounts := map[string]int{}
	fileCounts := map[[2]string]int{}
	for _, p := range psms {
		if p.FdrInfo == nil || p.FdrInfo.QValue > 0.01 {
			continue
		}
		notchQ := 1.0
		if n := p.Notch; n >= 0 && n < len(p.FdrInfo.QValueNotch) {
			notchQ = p.FdrInfo.QValueNotch[n]
		}
		if notchQ > 0.01 {
			continue
		}
		seq, ok := p.FullSequence()
		if !ok {
			continue
		}
		datasetCounts[seq]++
		fileCounts[[2]string{p.FullFilePath, seq}]++
	}
	for seq, c := range datasetCounts {
		dataset = append(dataset, PeptideCount{FullSequence: seq, Count: c})
	}
	for k, c := range fileCounts {
		perFile = append(perFile, PeptideCount{FilePath: k[0], FullSequence: k[1], Count: c})
	}
	return dataset, perFile
}

// collapseToPeptideBest keeps, for each distinct full sequence, the PSM
// with the highest best_score.
func collapseToPeptideBest(psms []*search.PeptideSpectralMatch) []*search.PeptideSpectralMatch {
	best := map[string]*search.PeptideSpectralMatch{}
	order := []string{}
	for _, p := range psms {
		seq, ok := p.FullSequence()
		if !ok {
			continue
		}
		cur, exists := best[seq]
		if !exists {
			order = append(order, seq)
			best[seq] = p
			continue
		}
		if p.BestScore > cur.BestScore {
			best[seq] = p
		}
	}
	out := make([]*search.PeptideSpectralMatch, 0, len(order))
	for _, seq := range order {
		out = append(out, best[seq])
	}
	return out
}
