package gptmd

import (
	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/search"
	"golang.org/x/exp/maps"
)

// New validates cfg and constructs an Engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Engine runs the GPTMD discovery pass over FDR-filtered PSMs (spec §4.3).
type Engine struct {
	cfg Config
}

// positionedMod is one discovered (protein position, modification) pair.
type positionedMod struct {
	Position     int
	Modification bio.Modification
}

// Results is Engine.Run's output (spec §6's GptmdResults).
type Results struct {
	Mods      map[string][]positionedMod // accession -> discovered mods
	ModsAdded int
}

// Run implements spec §4.3's algorithm end to end: filter confident PSMs,
// enumerate mass-explaining modifications per best-matching peptide, and
// keep every candidate whose motif and location restriction fit the owning
// protein at the implied position.
func (e *Engine) Run(psms []*search.PeptideSpectralMatch) (*Results, error) {
	accessionSets := map[string]map[positionedMod]struct{}{}

	for _, p := range psms {
		if p.IsDecoy() {
			continue
		}
		if !qualifiesByNotch(p) {
			continue
		}
		tol := e.cfg.toleranceFor(p.FullFilePath)
		for _, peptide := range p.BestPeptides {
			peptideMass, err := peptide.MonoisotopicMass()
			if err != nil {
				continue
			}
			candidates := possibleMods(p.PrecursorMass, peptideMass, e.cfg.AllMods, e.cfg.Combos, tol, peptide)
			peptideLength := peptide.Length()
			for _, mod := range candidates {
				for i := 0; i < peptideLength; i++ {
					proteinPosition := peptide.OneBasedStart + i
					peptidePosition := i + 1
					if !bio.ModFits(mod, peptide.Protein, peptidePosition, peptideLength, proteinPosition) {
						continue
					}
					accession := peptide.Protein.Accession
					set, ok := accessionSets[accession]
					if !ok {
						set = map[positionedMod]struct{}{}
						accessionSets[accession] = set
					}
					set[positionedMod{Position: proteinPosition, Modification: mod}] = struct{}{}
				}
			}
		}
	}

	results := &Results{Mods: map[string][]positionedMod{}}
	// maps.Keys returns the accessions in map iteration order, which is not
	// deterministic; the per-accession slices are likewise in set iteration
	// order. Callers that need a stable report order sort the results.
	for _, accession := range maps.Keys(accessionSets) {
		set := accessionSets[accession]
		mods := make([]positionedMod, 0, len(set))
		for pm := range set {
			mods = append(mods, pm)
		}
		results.Mods[accession] = mods
		results.ModsAdded += len(mods)
	}
	return results, nil
}

// qualifiesByNotch implements spec §4.3 step 1's q_value_notch <= 0.05
// filter.
func qualifiesByNotch(p *search.PeptideSpectralMatch) bool {
	if p.FdrInfo == nil {
		return false
	}
	if p.Notch >= 0 && p.Notch < len(p.FdrInfo.QValueNotch) {
		return p.FdrInfo.QValueNotch[p.Notch] <= acceptedQValueNotch
	}
	return p.FdrInfo.QValue <= acceptedQValueNotch
}
