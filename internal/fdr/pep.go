package fdr

import (
	"math"
	"sort"

	"github.com/524D/protosearch/internal/search"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// pepMinPSMs is the PSM count the PEP phase must exceed before it runs:
// Engine.Run trains only when there are more than pepMinPSMs PSMs, for the
// PSM and crosslink analysis types.
const pepMinPSMs = 100

// computePEP implements the consumed PEP-trainer contract of spec §6
// (`compute_pep_values_for_all_psms_generic`) as a concrete 2-feature
// logistic regressor over (score, delta_score), standardized and fit by
// minimizing negative log-likelihood with gonum/optimize — the same
// optimize.Minimize call shape the teacher's mzrecal.go uses to fit its
// recalibration model. tag names the PEP-trainer mode ("standard",
// "top-down", "crosslink"); this implementation neither uses nor logs it,
// and fits the same model for every tag.
func computePEP(psms []*search.PeptideSpectralMatch, tag string) {
	if len(psms) == 0 {
		return
	}
	scores := make([]float64, len(psms))
	deltas := make([]float64, len(psms))
	labels := make([]float64, len(psms)) // 1 = target, 0 = decoy
	for i, p := range psms {
		scores[i] = p.BestScore
		deltas[i] = p.DeltaScore
		if p.IsDecoy() {
			labels[i] = 0
		} else {
			labels[i] = 1
		}
	}
	scoreMean, scoreStd := stat.MeanStdDev(scores, nil)
	deltaMean, deltaStd := stat.MeanStdDev(deltas, nil)
	if scoreStd == 0 {
		scoreStd = 1
	}
	if deltaStd == 0 {
		deltaStd = 1
	}
	x := make([][2]float64, len(psms))
	for i := range psms {
		x[i] = [2]float64{(scores[i] - scoreMean) / scoreStd, (deltas[i] - deltaMean) / deltaStd}
	}

	negLogLik := func(beta []float64) float64 {
		b0, b1, b2 := beta[0], beta[1], beta[2]
		var nll float64
		for i := range x {
			z := b0 + b1*x[i][0] + b2*x[i][1]
			p := 1 / (1 + math.Exp(-z))
			p = math.Min(math.Max(p, 1e-9), 1-1e-9)
			if labels[i] == 1 {
				nll -= math.Log(p)
			} else {
				nll -= math.Log(1 - p)
			}
		}
		return nll
	}

	problem := optimize.Problem{Func: negLogLik}
	result, err := optimize.Minimize(problem, []float64{0, 1, 1}, nil, nil)
	var beta []float64
	if err != nil || result == nil {
		beta = []float64{0, 1, 1}
	} else {
		beta = result.X
	}

	for i, p := range psms {
		z := beta[0] + beta[1]*x[i][0] + beta[2]*x[i][1]
		probCorrect := 1 / (1 + math.Exp(-z))
		p.FdrInfo.PEP = math.Min(math.Max(1-probCorrect, 0), 1)
	}
}

// assignPEPQValues implements spec §4.4's pep_q_value: sort by pep
// ascending, running sum of pep divided by rank (the cumulative mean),
// rounded to 6 decimals.
func assignPEPQValues(psms []*search.PeptideSpectralMatch) {
	ordered := append([]*search.PeptideSpectralMatch(nil), psms...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].FdrInfo.PEP < ordered[j].FdrInfo.PEP })
	var running float64
	for i, p := range ordered {
		running += p.FdrInfo.PEP
		q := running / float64(i+1)
		p.FdrInfo.PEPQValue = math.Round(q*1e6) / 1e6
	}
}
