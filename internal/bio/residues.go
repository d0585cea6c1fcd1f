// Package bio provides the minimal protein/peptide/modification substrate
// the search, FDR and GPTMD engines are scored against: amino acid masses,
// digestion, modification placement and theoretical fragment generation.
//
// It stands in for the external proteomics toolkit spec.md treats as a
// consumed interface (Protein.digest, Peptide.fragment, ...) — there is no
// such toolkit in this module's dependency pack, so this package implements
// a small, in-memory version of it.
package bio

import "errors"

// MonoisotopicMass is the mass table for the 20 standard amino acids plus
// selenocysteine and pyrrolysine, keyed by one-letter code. Values mirror
// the teacher's aaMass table (mzrecal.go), which in turn is residue mass
// minus water.
var MonoisotopicMass = map[byte]float64{
	'A': 71.0371138,
	'C': 103.0091848,
	'D': 115.0269430,
	'E': 129.0425931,
	'F': 147.0684139,
	'G': 57.0214637,
	'H': 137.0589119,
	'I': 113.0840640,
	'K': 128.0949630,
	'L': 113.0840640,
	'M': 131.0404849,
	'N': 114.0429274,
	'P': 97.0527638,
	'O': 237.1477269, // Pyrrolysine
	'Q': 128.0585775,
	'R': 156.1011110,
	'S': 87.0320284,
	'T': 101.0476785,
	'U': 144.9595902, // Selenocysteine
	'V': 99.0684139,
	'W': 186.0793129,
	'Y': 163.0633285,
}

// Water is the mass added once per peptide (the two termini).
const Water = 18.0105647

// Proton is the mass of a proton, used to convert between neutral mass and
// m/z at a given charge.
const Proton = 1.007276466879

// ErrInvalidResidue is returned when a sequence contains a byte outside the
// known amino acid alphabet.
var ErrInvalidResidue = errors.New("bio: invalid amino acid residue")

// SequenceMass returns the monoisotopic neutral mass of an unmodified
// peptide sequence.
func SequenceMass(seq string) (float64, error) {
	m := Water
	for i := 0; i < len(seq); i++ {
		aam, ok := MonoisotopicMass[seq[i]]
		if !ok {
			return 0, ErrInvalidResidue
		}
		m += aam
	}
	return m, nil
}

// MzFromNeutralMass converts a neutral (uncharged) mass to m/z at the given
// charge, adding one proton per charge.
func MzFromNeutralMass(neutral float64, charge int) float64 {
	return (neutral + float64(charge)*Proton) / float64(charge)
}
