package bio

import (
	"strings"
)

// LocationRestriction constrains where a Modification may be placed.
type LocationRestriction int

const (
	// Anywhere allows the modification at any residue matching its motif.
	Anywhere LocationRestriction = iota
	// NTerminal restricts placement to the protein's N-terminus.
	NTerminal
	// CTerminal restricts placement to the protein's C-terminus.
	CTerminal
	// PeptideNTerminal restricts placement to the peptide's N-terminus.
	PeptideNTerminal
	// PeptideCTerminal restricts placement to the peptide's C-terminus.
	PeptideCTerminal
)

func (l LocationRestriction) String() string {
	switch l {
	case NTerminal:
		return "N-terminal"
	case CTerminal:
		return "C-terminal"
	case PeptideNTerminal:
		return "Peptide N-terminal"
	case PeptideCTerminal:
		return "Peptide C-terminal"
	default:
		return "Anywhere"
	}
}

// Modification is a post-translational modification: a motif anchored on
// an uppercase residue letter (lowercase = flanking context, 'X' = any
// residue), a mass delta, and a placement restriction.
type Modification struct {
	ID                  string
	Motif               string
	MonoisotopicMass    float64
	LocationRestriction LocationRestriction
	Valid               bool
}

// anchorIndex returns the index of the single uppercase, non-X letter in a
// motif — the residue the modification is actually attached to. Context
// letters are lowercase; 'X' (either case) matches any residue at that
// offset without anchoring.
func anchorIndex(motif string) int {
	for i := 0; i < len(motif); i++ {
		c := motif[i]
		if c >= 'A' && c <= 'Z' && c != 'X' {
			return i
		}
	}
	// A motif with no distinguished anchor (e.g. a bare "X") anchors on
	// its first character.
	return 0
}

// MatchesMotifAt reports whether a Modification's motif is satisfied by seq
// when the anchor residue sits at seq[pos] (0-based). Comparison is
// case-insensitive, matching spec's "compared case-insensitively".
func MatchesMotifAt(motif string, seq string, pos int) bool {
	a := anchorIndex(motif)
	offset := pos - a
	for j := 0; j < len(motif); j++ {
		p := j + offset
		if p < 0 || p >= len(seq) {
			return false
		}
		c := motif[j]
		if c != 'X' && c != 'x' && !strings.EqualFold(string(c), string(seq[p])) {
			return false
		}
	}
	return true
}

// ModFits reports whether mod can be placed on the residue at 1-based
// peptide position peptidePos (of a peptide of length peptideLength, cut
// from protein starting at 1-based protein position proteinPos), per spec
// §4.3's mod_fits: the motif must match the protein sequence anchored at
// proteinPos, and the location restriction must hold relative to either the
// protein's termini or the peptide's termini as appropriate.
func ModFits(mod Modification, protein *Protein, peptidePos, peptideLength, proteinPos int) bool {
	if !MatchesMotifAt(mod.Motif, protein.BaseSequence, proteinPos-1) {
		return false
	}
	switch mod.LocationRestriction {
	case NTerminal:
		return proteinPos <= 2
	case CTerminal:
		return proteinPos == protein.Length()
	case PeptideNTerminal:
		return peptidePos == 1
	case PeptideCTerminal:
		return peptidePos == peptideLength
	default:
		return true
	}
}
