package bio

import (
	"fmt"

	"github.com/524D/protosearch/internal/errs"
)

// Protein is a read-only sequence record. VariantOf is set for decoy or
// otherwise-derived proteins whose accession should still resolve back to
// the protein they were generated from.
type Protein struct {
	Accession    string
	BaseSequence string
	IsDecoy      bool
	VariantOf    *Protein
}

// Length returns the residue count of the protein's sequence.
func (p *Protein) Length() int { return len(p.BaseSequence) }

// Protease names a cleavage rule: CleavesAfter reports whether the enzyme
// cleaves the peptide bond immediately after seq[i], given the full
// sequence, for digestion purposes.
type Protease struct {
	Name         string
	CleavesAfter func(seq string, i int) bool
}

// Proteases is the set of cleavage rules known to this package. A
// DigestionParams naming any other protease is rejected by Validate as
// ErrUnknownProtease (spec §7's "undefined protease" fail-fast case).
var Proteases = map[string]Protease{
	"trypsin": {
		Name: "trypsin",
		CleavesAfter: func(seq string, i int) bool {
			c := seq[i]
			if c != 'K' && c != 'R' {
				return false
			}
			if i+1 < len(seq) && seq[i+1] == 'P' {
				return false
			}
			return true
		},
	},
	"chymotrypsin": {
		Name: "chymotrypsin",
		CleavesAfter: func(seq string, i int) bool {
			switch seq[i] {
			case 'F', 'Y', 'W', 'L':
				return true
			default:
				return false
			}
		},
	},
	"nonspecific": {
		Name:         "nonspecific",
		CleavesAfter: func(seq string, i int) bool { return true },
	},
}

// DigestionParams controls Protein.Digest.
type DigestionParams struct {
	Protease           string
	MaxMissedCleavages int
	MinPeptideLength   int
	MaxPeptideLength   int
	// MaxModificationIsoforms caps the combinatorial expansion of variable
	// modifications per peptide (spec's "combination" enumeration is
	// otherwise unbounded).
	MaxModificationIsoforms int
}

// Validate checks a DigestionParams for the fail-fast conditions named in
// spec §7 ("invalid configuration ... undefined protease").
func (d DigestionParams) Validate() error {
	if _, ok := Proteases[d.Protease]; !ok {
		return fmt.Errorf("%s: %w", d.Protease, errs.ErrUnknownProtease)
	}
	if d.MinPeptideLength <= 0 {
		return fmt.Errorf("bio: MinPeptideLength must be positive")
	}
	if d.MaxPeptideLength < d.MinPeptideLength {
		return fmt.Errorf("bio: MaxPeptideLength must be >= MinPeptideLength")
	}
	return nil
}

// cleavageSites returns the 0-based indices i such that the protease
// cleaves immediately after seq[i].
func cleavageSites(seq string, p Protease) []int {
	sites := make([]int, 0, len(seq)/8+1)
	for i := 0; i < len(seq); i++ {
		if p.CleavesAfter(seq, i) {
			sites = append(sites, i)
		}
	}
	return sites
}

// Digest yields every peptide substring obtainable from p's sequence under
// the given digestion rule, fixed modifications, variable modifications and
// SILAC labels, up to MaxMissedCleavages missed cleavage sites, within the
// configured length bounds. It returns PeptideWithSetModifications values
// covering every combination of variable modifications up to
// MaxModificationIsoforms.
func (p *Protein) Digest(params DigestionParams, fixed, variable []Modification, silac []SilacLabel) ([]PeptideWithSetModifications, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	protease := Proteases[params.Protease]
	sites := cleavageSites(p.BaseSequence, protease)

	// Candidate cut boundaries: start of protein, each cleavage site + 1,
	// end of protein.
	starts := append([]int{0}, incremented(sites)...)

	var out []PeptideWithSetModifications
	for si, start := range starts {
		for mc := 0; mc <= params.MaxMissedCleavages && si+mc < len(starts); mc++ {
			var end int
			if si+mc == len(starts)-1 {
				end = len(p.BaseSequence)
			} else {
				end = starts[si+mc+1]
			}
			if end <= start {
				continue
			}
			length := end - start
			if length < params.MinPeptideLength || length > params.MaxPeptideLength {
				continue
			}
			baseSeq := p.BaseSequence[start:end]
			isoforms, err := buildModifiedIsoforms(p, start, baseSeq, fixed, variable, silac, params.MaxModificationIsoforms)
			if err != nil {
				return nil, err
			}
			out = append(out, isoforms...)
		}
	}
	return out, nil
}

func incremented(sites []int) []int {
	out := make([]int, len(sites))
	for i, s := range sites {
		out[i] = s + 1
	}
	return out
}
