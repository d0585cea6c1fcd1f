package search

import (
	"fmt"
	"runtime"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/errs"
	"github.com/524D/protosearch/internal/massdiff"
	"github.com/524D/protosearch/internal/spectrum"
	"github.com/inconshreveable/log15"
)

// CommonParams holds the per-search numeric knobs and flags. It carries no
// modification or enzyme names, so no per-file overlay checks run on it.
type CommonParams struct {
	MaxThreadsPerFile                int
	ScoreCutoff                      float64
	DissociationType                 bio.DissociationType // Autodetect defers to each scan's own type
	ProductMassTolerance             spectrum.Tolerance
	MaxFragmentCharge                int
	MatchAllCharges                  bool
	FragmentsCanHaveDifferentCharges bool
	ReportAmbiguity                  bool
}

// Config is the immutable input to Engine (spec §4.2's contract).
type Config struct {
	Proteins           []*bio.Protein
	Scans              *spectrum.Collection
	FixedMods          []bio.Modification
	VariableMods       []bio.Modification
	SilacLabels        []bio.SilacLabel
	MassDiffAcceptor   massdiff.Acceptor
	Digestion          bio.DigestionParams
	Common             CommonParams
	DecoyOnTheFly      bool
	HasSpectralLibrary bool
	FullFilePath       string

	Logger   log15.Logger
	Progress func(percent int, message string, nestedIDs []string)
}

// Validate checks Config for the fail-fast conditions of spec §7
// ("invalid configuration ... undefined protease"), run at construction
// time the way the teacher's sanatizeParams runs at flag-parse time.
func (c *Config) Validate() error {
	if c.Scans == nil {
		return fmt.Errorf("search: nil scan collection: %w", errs.ErrInvalidConfig)
	}
	if len(c.Proteins) == 0 {
		return fmt.Errorf("search: no proteins: %w", errs.ErrInvalidConfig)
	}
	if c.MassDiffAcceptor == nil {
		return fmt.Errorf("search: nil mass-diff acceptor: %w", errs.ErrInvalidConfig)
	}
	if err := c.Digestion.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Common.MaxThreadsPerFile <= 0 {
		c.Common.MaxThreadsPerFile = runtime.GOMAXPROCS(0)
	}
	if c.Common.MaxFragmentCharge <= 0 {
		c.Common.MaxFragmentCharge = 1
	}
	if c.Logger == nil {
		c.Logger = log15.New()
		c.Logger.SetHandler(log15.DiscardHandler())
	}
	return nil
}
