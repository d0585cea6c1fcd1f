package bio

// DissociationType names the fragmentation method used to record a scan,
// which in turn selects which theoretical ion series a peptide is scored
// against.
type DissociationType int

const (
	// Autodetect means the scan did not record its dissociation method.
	// Callers must not fragment against it directly; spec §7 resolves this
	// as a silent per-scan skip, logged at debug level by the search
	// engine, never a hard failure.
	Autodetect DissociationType = iota
	HCD
	CID
	ETD
)

func (d DissociationType) String() string {
	switch d {
	case HCD:
		return "HCD"
	case CID:
		return "CID"
	case ETD:
		return "ETD"
	default:
		return "Autodetect"
	}
}

// IonType names a single theoretical fragment ion series.
type IonType int

const (
	BIon IonType = iota
	YIon
	CIon
	ZIon
)

func (t IonType) String() string {
	switch t {
	case BIon:
		return "b"
	case YIon:
		return "y"
	case CIon:
		return "c"
	case ZIon:
		return "z"
	default:
		return "?"
	}
}

// TheoreticalFragment is one predicted product ion: its series, the number
// of residues it covers from its terminus, and its neutral (uncharged)
// fragment mass (callers convert to m/z for the charge states they search).
type TheoreticalFragment struct {
	Type          IonType
	FragmentIndex int // residues covered from the ion's terminus, 1-based
	NeutralMass   float64
}

// ion series mass offsets, relative to the sum of residue masses covered:
// b = sum(residues); y = sum(residues) + water; c = b + NH3; z = y - NH3 (z-dot radical omitted, spec treats c/z as the ETD pair).
const (
	ammonia = 17.0265491
)

// Fragment generates the theoretical b/y ion series for HCD and CID scans,
// and c/z for ETD, covering every modification placed on p. Dissociation
// types other than HCD, CID and ETD (including Autodetect) produce no
// fragments; callers are expected to have already skipped such scans.
func (p *PeptideWithSetModifications) Fragment(d DissociationType) []TheoreticalFragment {
	switch d {
	case HCD, CID:
		return p.fragmentSeries(BIon, YIon)
	case ETD:
		return p.fragmentSeries(CIon, ZIon)
	default:
		return nil
	}
}

func (p *PeptideWithSetModifications) fragmentSeries(nTermIon, cTermIon IonType) []TheoreticalFragment {
	n := p.Length()
	if n == 0 {
		return nil
	}
	residueMass := make([]float64, n)
	for i := 0; i < n; i++ {
		residueMass[i] = MonoisotopicMass[p.BaseSequence[i]]
	}
	// augmented-frame modification masses per residue index (0-based),
	// plus the N-terminal (aug pos 1) and C-terminal (aug pos n+2) mods.
	nTermMod := 0.0
	if m, ok := p.Modifications[1]; ok {
		nTermMod = m.MonoisotopicMass
	}
	cTermMod := 0.0
	if m, ok := p.Modifications[n+2]; ok {
		cTermMod = m.MonoisotopicMass
	}
	modAt := func(i int) float64 {
		if m, ok := p.Modifications[i+2]; ok {
			return m.MonoisotopicMass
		}
		return 0
	}

	out := make([]TheoreticalFragment, 0, 2*(n-1))
	// N-terminal series: ions 1..n-1, each covering residues [0,k).
	running := nTermMod
	for k := 1; k < n; k++ {
		running += residueMass[k-1] + modAt(k-1)
		mass := running
		if nTermIon == CIon {
			mass += ammonia
		}
		out = append(out, TheoreticalFragment{Type: nTermIon, FragmentIndex: k, NeutralMass: mass})
	}
	// C-terminal series: ions 1..n-1, each covering residues [n-k,n).
	running = Water + cTermMod
	for k := 1; k < n; k++ {
		running += residueMass[n-k] + modAt(n - k)
		mass := running
		if cTermIon == ZIon {
			mass -= ammonia
		}
		out = append(out, TheoreticalFragment{Type: cTermIon, FragmentIndex: k, NeutralMass: mass})
	}
	return out
}
