package bio

import "math/rand"

// SimilarityThreshold is the maximum fraction of positionally-matching
// residues a decoy sequence may share with its target before the decoy is
// rejected as insufficiently scrambled (spec §4.4).
const SimilarityThreshold = 0.3

// GetReverseDecoyFromTarget returns a decoy protein whose sequence is the
// reverse of target's, keeping the leading methionine in place if the
// original sequence starts with one (the conventional reversal used by the
// search tools this package's caller is modeled on).
func GetReverseDecoyFromTarget(target *Protein) *Protein {
	seq := []byte(target.BaseSequence)
	rev := make([]byte, len(seq))
	start := 0
	if len(seq) > 0 && seq[0] == 'M' {
		rev[0] = 'M'
		start = 1
	}
	for i := start; i < len(seq); i++ {
		rev[len(seq)-1-(i-start)] = seq[i]
	}
	return &Protein{
		Accession:    "DECOY_" + target.Accession,
		BaseSequence: string(rev),
		IsDecoy:      true,
		VariantOf:    target,
	}
}

// GetScrambledDecoyFromTarget returns a decoy protein whose sequence is a
// random permutation of target's, retried until SequenceSimilarity against
// target falls at or below SimilarityThreshold or attempts is exhausted. r
// is the source of randomness; callers needing reproducibility should pass
// a seeded *rand.Rand.
func GetScrambledDecoyFromTarget(target *Protein, r *rand.Rand, attempts int) *Protein {
	seq := []byte(target.BaseSequence)
	best := append([]byte(nil), seq...)
	bestSim := 1.0
	for a := 0; a < attempts; a++ {
		cand := append([]byte(nil), seq...)
		r.Shuffle(len(cand), func(i, j int) { cand[i], cand[j] = cand[j], cand[i] })
		sim := SequenceSimilarity(string(cand), target.BaseSequence)
		if sim < bestSim {
			bestSim = sim
			best = cand
		}
		if sim <= SimilarityThreshold {
			break
		}
	}
	return &Protein{
		Accession:    "DECOY_" + target.Accession,
		BaseSequence: string(best),
		IsDecoy:      true,
		VariantOf:    target,
	}
}

// GetReverseDecoyFromPeptide returns a decoy peptide whose sequence is the
// reverse of p's (keeping a leading methionine in place, as conventional),
// wrapped in a standalone decoy protein scoped to just this peptide.
// Modifications are carried to their mirrored augmented-frame position:
// terminal mods (position 1, length+2) stay put, and a mod at residue
// position r+1 moves to length-r+2. This is the peptide-level
// get_reverse_decoy_from_target named in spec §6's consumed-interface list.
func GetReverseDecoyFromPeptide(p *PeptideWithSetModifications) *PeptideWithSetModifications {
	n := p.Length()
	seq := []byte(p.BaseSequence)
	rev := make([]byte, n)
	start := 0
	if n > 0 && seq[0] == 'M' {
		rev[0] = 'M'
		start = 1
	}
	for i := start; i < n; i++ {
		rev[n-1-(i-start)] = seq[i]
	}
	decoyProtein := &Protein{
		Accession:    "DECOY_" + p.Protein.Accession,
		BaseSequence: string(rev),
		IsDecoy:      true,
		VariantOf:    p.Protein,
	}
	return &PeptideWithSetModifications{
		Protein:         decoyProtein,
		OneBasedStart:   1,
		BaseSequence:    string(rev),
		Modifications:   mirrorModifications(p.Modifications, n),
		silacResidueAdj: p.silacResidueAdj,
	}
}

// GetScrambledDecoyFromPeptide returns a decoy peptide whose sequence is a
// random permutation of p's, retried until PeptideSequenceSimilarity against
// p falls at or below SimilarityThreshold or attempts is exhausted.
func GetScrambledDecoyFromPeptide(p *PeptideWithSetModifications, r *rand.Rand, attempts int) *PeptideWithSetModifications {
	n := p.Length()
	seq := []byte(p.BaseSequence)
	best := append([]byte(nil), seq...)
	bestSim := 1.0
	for a := 0; a < attempts; a++ {
		cand := append([]byte(nil), seq...)
		r.Shuffle(len(cand), func(i, j int) { cand[i], cand[j] = cand[j], cand[i] })
		candPeptide := &PeptideWithSetModifications{BaseSequence: string(cand), Modifications: p.Modifications}
		sim := PeptideSequenceSimilarity(p, candPeptide)
		if sim < bestSim {
			bestSim = sim
			best = cand
		}
		if sim <= SimilarityThreshold {
			break
		}
	}
	decoyProtein := &Protein{
		Accession:    "DECOY_" + p.Protein.Accession,
		BaseSequence: string(best),
		IsDecoy:      true,
		VariantOf:    p.Protein,
	}
	return &PeptideWithSetModifications{
		Protein:         decoyProtein,
		OneBasedStart:   1,
		BaseSequence:    string(best),
		Modifications:   mirrorModifications(p.Modifications, n),
		silacResidueAdj: p.silacResidueAdj,
	}
}

func mirrorModifications(mods map[int]Modification, n int) map[int]Modification {
	out := make(map[int]Modification, len(mods))
	for pos, m := range mods {
		switch pos {
		case 1, n + 2:
			out[pos] = m
		default:
			r := pos - 1 // 1-based residue index
			out[n-r+2] = m
		}
	}
	return out
}

// PeptideSequenceSimilarity implements spec §4.2's decoy-acceptability
// metric: for aligned positions of equal length, position i counts as a
// match if the residues are equal AND (neither carries a modification at
// augmented position i+2, or both carry the same one).
func PeptideSequenceSimilarity(target, decoy *PeptideWithSetModifications) float64 {
	n := len(target.BaseSequence)
	if len(decoy.BaseSequence) < n {
		n = len(decoy.BaseSequence)
	}
	if n == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < n; i++ {
		if target.BaseSequence[i] != decoy.BaseSequence[i] {
			continue
		}
		tm, tok := target.Modifications[i+2]
		dm, dok := decoy.Modifications[i+2]
		if !tok && !dok {
			matches++
		} else if tok && dok && tm.ID == dm.ID {
			matches++
		}
	}
	return float64(matches) / float64(n)
}

// SequenceSimilarity returns the fraction of positions at which a and b
// carry the same residue, over the length of the shorter sequence. Used to
// reject decoys that are accidentally too close to their target (spec
// §4.4's acceptability check).
func SequenceSimilarity(a, b string) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(n)
}
