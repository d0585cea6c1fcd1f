package bio

// SilacLabel substitutes one residue letter for a heavy-labeled mass shift
// wherever it occurs in a digested peptide. This package has no separate
// turnover (terminal) label type; Protein.Digest takes SILAC labels only.
type SilacLabel struct {
	OriginalResidue byte
	NewResidue      byte
	MassShift       float64
}

// Apply returns the mass delta a SilacLabel contributes to a peptide
// containing count occurrences of OriginalResidue.
func (s SilacLabel) Apply(count int) float64 {
	return float64(count) * s.MassShift
}

func countResidue(seq string, r byte) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		if seq[i] == r {
			n++
		}
	}
	return n
}
