package bio

// PeptideWithSetModifications is one fully-specified digestion product: a
// substring of a protein with a concrete assignment of modifications to
// positions in its augmented frame (N-terminus = 1, residue r (1-based) =
// r+1, C-terminus = length+2), per spec §3.
type PeptideWithSetModifications struct {
	Protein         *Protein
	OneBasedStart   int // 1-based start position within Protein.BaseSequence
	BaseSequence    string
	Modifications   map[int]Modification
	silacResidueAdj float64
}

// Length is the residue count of the peptide.
func (p *PeptideWithSetModifications) Length() int { return len(p.BaseSequence) }

// OneBasedEnd is the 1-based position of the peptide's last residue within
// the protein.
func (p *PeptideWithSetModifications) OneBasedEnd() int {
	return p.OneBasedStart + p.Length() - 1
}

// MonoisotopicMass is the peptide's neutral monoisotopic mass: residue
// masses, plus water, plus every placed modification's mass, plus any
// SILAC residue substitutions folded in at construction time.
func (p *PeptideWithSetModifications) MonoisotopicMass() (float64, error) {
	m, err := SequenceMass(p.BaseSequence)
	if err != nil {
		return 0, err
	}
	m += p.silacResidueAdj
	for _, mod := range p.Modifications {
		m += mod.MonoisotopicMass
	}
	return m, nil
}

// FullSequence renders the peptide with bracketed modification masses
// inline, in augmented-frame order, for use as an unambiguous grouping key
// (e.g. FDR's "full_sequence" and GPTMD's per-peptide bookkeeping).
func (p *PeptideWithSetModifications) FullSequence() string {
	out := make([]byte, 0, len(p.BaseSequence)+8)
	if m, ok := p.Modifications[1]; ok {
		out = append(out, []byte(modTag(m))...)
	}
	for i := 0; i < len(p.BaseSequence); i++ {
		out = append(out, p.BaseSequence[i])
		if m, ok := p.Modifications[i+2]; ok {
			out = append(out, []byte(modTag(m))...)
		}
	}
	return string(out)
}

func modTag(m Modification) string {
	return "[" + m.ID + "]"
}

// buildModifiedIsoforms enumerates the modified forms of one digested
// substring: fixed modifications are placed at every eligible position
// unconditionally; variable modifications are placed combinatorially, up
// to maxIsoforms total isoforms. If the full combinatorial expansion would
// exceed maxIsoforms, only the unmodified isoform and each single-variable-
// mod isoform are produced (spec's §9 note that the generator need not be
// exhaustive under a budget — this mirrors that allowance for the
// digestion substrate specifically, not for GPTMD's possibleMods).
func buildModifiedIsoforms(protein *Protein, start int, baseSeq string, fixed, variable []Modification, silac []SilacLabel, maxIsoforms int) ([]PeptideWithSetModifications, error) {
	if maxIsoforms <= 0 {
		maxIsoforms = 1
	}
	oneBasedStart := start + 1
	length := len(baseSeq)

	fixedPlacements := map[int]Modification{}
	for _, mod := range fixed {
		for r := 1; r <= length; r++ {
			protPos := oneBasedStart + r - 1
			if ModFits(mod, protein, r, length, protPos) {
				fixedPlacements[r+1] = mod
			}
		}
	}

	type candidate struct {
		pos int
		mod Modification
	}
	var candidates []candidate
	for _, mod := range variable {
		for r := 1; r <= length; r++ {
			protPos := oneBasedStart + r - 1
			augPos := r + 1
			if _, taken := fixedPlacements[augPos]; taken {
				continue
			}
			if ModFits(mod, protein, r, length, protPos) {
				candidates = append(candidates, candidate{pos: augPos, mod: mod})
			}
		}
	}

	var silacAdj float64
	for _, lab := range silac {
		silacAdj += lab.Apply(countResidue(baseSeq, lab.OriginalResidue))
	}

	makePeptide := func(extra map[int]Modification) PeptideWithSetModifications {
		mods := make(map[int]Modification, len(fixedPlacements)+len(extra))
		for k, v := range fixedPlacements {
			mods[k] = v
		}
		for k, v := range extra {
			mods[k] = v
		}
		return PeptideWithSetModifications{
			Protein:         protein,
			OneBasedStart:   oneBasedStart,
			BaseSequence:    baseSeq,
			Modifications:   mods,
			silacResidueAdj: silacAdj,
		}
	}

	var isoforms []PeptideWithSetModifications
	full := 1
	overflow := false
	for range candidates {
		full *= 2
		if full > maxIsoforms {
			overflow = true
			break
		}
	}

	if !overflow {
		for mask := 0; mask < full; mask++ {
			extra := map[int]Modification{}
			ok := true
			for i, c := range candidates {
				if mask&(1<<i) == 0 {
					continue
				}
				if _, taken := extra[c.pos]; taken {
					ok = false
					break
				}
				extra[c.pos] = c.mod
			}
			if !ok {
				continue
			}
			isoforms = append(isoforms, makePeptide(extra))
		}
	} else {
		isoforms = append(isoforms, makePeptide(nil))
		for _, c := range candidates {
			isoforms = append(isoforms, makePeptide(map[int]Modification{c.pos: c.mod}))
		}
	}
	return isoforms, nil
}
