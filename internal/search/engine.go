// Package search implements the Classic Search Engine: protein-parallel
// digestion, fragmentation and spectrum scoring with on-the-fly decoy
// generation (spec §4.2).
package search

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/errs"
	"golang.org/x/sync/errgroup"
)

// Engine runs one Classic Search over a fixed Config, populating a PSM
// slot array sized to the scan collection.
type Engine struct {
	cfg Config

	psms  []*PeptideSpectralMatch
	locks lockArray

	proteinsSearched int64
	oldPercent       int64
	stopLoops        atomic.Bool

	dissociationTypes []bio.DissociationType

	gapStatsMu sync.Mutex
	gapStats   decoyScoreGapStats
}

// New validates cfg and constructs an Engine ready to Run.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:   cfg,
		psms:  make([]*PeptideSpectralMatch, len(cfg.Scans.Scans)),
		locks: newLockArray(len(cfg.Scans.Scans)),
	}
	e.dissociationTypes = resolveDissociationTypes(cfg)
	return e, nil
}

// resolveDissociationTypes is the scratch dictionary's key set: if the
// configured type is not Autodetect, that's the only type scored; if it
// is Autodetect, every distinct type actually present among the scans
// gets a scratch slot (spec §7's Autodetect resolution).
func resolveDissociationTypes(cfg Config) []bio.DissociationType {
	if cfg.Common.DissociationType != bio.Autodetect {
		return []bio.DissociationType{cfg.Common.DissociationType}
	}
	seen := map[bio.DissociationType]bool{}
	var out []bio.DissociationType
	for _, s := range cfg.Scans.Scans {
		if s.DissociationType == bio.Autodetect {
			continue
		}
		if !seen[s.DissociationType] {
			seen[s.DissociationType] = true
			out = append(out, s.DissociationType)
		}
	}
	return out
}

// Stop requests cooperative cancellation; in-flight workers return at the
// top of their next protein-loop iteration (spec §5).
func (e *Engine) Stop() { e.stopLoops.Store(true) }

// Results is Engine.Run's output (spec §6's ClassicSearchEngine.run()).
type Results struct {
	PSMs      []*PeptideSpectralMatch
	Cancelled bool
}

// Run executes the search, striping protein indices across
// Common.MaxThreadsPerFile workers (spec §4.2/§5). It returns once every
// worker has joined; PSMs is always populated up to whatever point workers
// reached, even on cancellation.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	threads := e.cfg.Common.MaxThreadsPerFile
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		worker := w
		g.Go(func() error {
			return e.runWorker(gctx, worker, threads)
		})
	}
	if err := g.Wait(); err != nil {
		return &Results{PSMs: e.psms, Cancelled: true}, err
	}
	e.resolveAmbiguities()
	e.logScoreGapSummary()
	return &Results{PSMs: e.psms, Cancelled: e.stopLoops.Load()}, nil
}

// recordScoreGap feeds one decoy-vs-target score difference into the
// engine's running summary statistics, for the debug-level logging done at
// the end of Run.
func (e *Engine) recordScoreGap(gap float64) {
	e.gapStatsMu.Lock()
	e.gapStats.record(gap)
	e.gapStatsMu.Unlock()
}

func (e *Engine) logScoreGapSummary() {
	e.gapStatsMu.Lock()
	mean, variance := e.gapStats.meanVariance()
	n := len(e.gapStats.gaps)
	e.gapStatsMu.Unlock()
	if n == 0 {
		return
	}
	e.cfg.Logger.Debug("decoy/target score gap summary", "n", n, "mean", mean, "variance", variance)
}

// runWorker handles proteins {w, w+T, w+2T, ...}, recovering any panic into
// a cancellation of the whole pool rather than letting it escape (spec
// §7's worker-panic propagation policy).
func (e *Engine) runWorker(ctx context.Context, w, stride int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.stopLoops.Store(true)
			e.cfg.Logger.Error("search worker panic", "worker", w, "panic", r)
			err = errs.ErrCancelled
		}
	}()
	rng := rand.New(rand.NewSource(int64(w) + 1))
	buf := newScratch(e.dissociationTypes)
	for i := w; i < len(e.cfg.Proteins); i += stride {
		if e.stopLoops.Load() {
			return errs.ErrCancelled
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.searchProtein(e.cfg.Proteins[i], buf, rng); err != nil {
			return err
		}
		e.reportProgress()
	}
	return nil
}

func (e *Engine) searchProtein(protein *bio.Protein, buf *scratch, rng *rand.Rand) error {
	peptides, err := protein.Digest(e.cfg.Digestion, e.cfg.FixedMods, e.cfg.VariableMods, e.cfg.SilacLabels)
	if err != nil {
		return err
	}
	for pi := range peptides {
		peptide := &peptides[pi]
		buf.clear()

		wantDecoy := e.cfg.DecoyOnTheFly || e.cfg.HasSpectralLibrary
		var decoy *bio.PeptideWithSetModifications
		if wantDecoy {
			if e.cfg.DecoyOnTheFly {
				decoy = generateDecoy(peptide, rng)
			} else {
				decoy = bio.GetReverseDecoyFromPeptide(peptide)
			}
		}

		mass, err := peptide.MonoisotopicMass()
		if err != nil {
			return err
		}
		for _, sn := range acceptableScans(mass, e.cfg.MassDiffAcceptor, e.cfg.Scans) {
			scan := e.cfg.Scans.Scans[sn.scanIdx]
			d := e.cfg.Common.DissociationType
			if d == bio.Autodetect {
				d = scan.DissociationType
			}
			targetProducts, ok := buf.targetFragments(peptide, d)
			if !ok {
				e.cfg.Logger.Debug("skipping scan: no scratch slot for dissociation type", "scan_index", scan.ScanIndex, "dissociation_type", d.String())
				continue
			}
			targetMatches := matchAndScore(scan, targetProducts, e.cfg.Common)
			targetScore := targetMatches.score

			switch {
			case e.cfg.DecoyOnTheFly && decoy != nil:
				decoyProducts, ok := buf.decoyFragments(decoy, d)
				if !ok {
					continue
				}
				decoyMatches := matchAndScore(scan, decoyProducts, e.cfg.Common)
				e.recordScoreGap(decoyMatches.score - targetScore)
				switch {
				case decoyMatches.score > targetScore+ScoreTolerance:
					e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, decoyMatches.score, decoy, decoyMatches.ions, mass, scan.PrecursorMass)
				case abs(decoyMatches.score-targetScore) <= ScoreTolerance:
					e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, targetScore, peptide, targetMatches.ions, mass, scan.PrecursorMass)
					e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, decoyMatches.score, decoy, decoyMatches.ions, mass, scan.PrecursorMass)
				default:
					e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, targetScore, peptide, targetMatches.ions, mass, scan.PrecursorMass)
				}
			case e.cfg.HasSpectralLibrary && decoy != nil:
				e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, targetScore, peptide, targetMatches.ions, mass, scan.PrecursorMass)
				decoyProducts, ok := buf.decoyFragments(decoy, d)
				if ok {
					decoyMatches := matchAndScore(scan, decoyProducts, e.cfg.Common)
					e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, decoyMatches.score, decoy, decoyMatches.ions, mass, scan.PrecursorMass)
				}
			default:
				e.addPSM(sn.scanIdx, scan.ScanIndex, scan.ScanNumber, sn.notch, targetScore, peptide, targetMatches.ions, mass, scan.PrecursorMass)
			}
		}
	}
	return nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (e *Engine) reportProgress() {
	n := atomic.AddInt64(&e.proteinsSearched, 1)
	if len(e.cfg.Proteins) == 0 {
		return
	}
	percent := int(n * 100 / int64(len(e.cfg.Proteins)))
	old := atomic.LoadInt64(&e.oldPercent)
	if int64(percent) > old && atomic.CompareAndSwapInt64(&e.oldPercent, old, int64(percent)) {
		if e.cfg.Progress != nil {
			e.cfg.Progress(percent, "searching proteins", nil)
		}
	}
}

// resolveAmbiguities calls ResolveAllAmbiguities on each populated PSM
// slot. The returned representative is discarded, so the slots are left
// unchanged: each keeps its full set of tied best peptides.
func (e *Engine) resolveAmbiguities() {
	for _, p := range e.psms {
		if p != nil {
			p.ResolveAllAmbiguities()
		}
	}
}
