// Package fdr implements the FDR Analysis Engine: target/decoy counting,
// per-notch q-value assignment, monotonization and PEP-based q-values
// (spec §4.4).
package fdr

import (
	"fmt"

	"github.com/524D/protosearch/internal/errs"
	"github.com/inconshreveable/log15"
)

// AnalysisType selects the PSM grouping/collapsing strategy (spec §4.4's
// analysis_type ∈ {PSM, Peptide, crosslink}).
type AnalysisType int

const (
	PSM AnalysisType = iota
	Peptide
	Crosslink
)

func (a AnalysisType) pepTag() string {
	switch a {
	case Crosslink:
		return "crosslink"
	case Peptide:
		return "standard"
	default:
		return "standard"
	}
}

// Config controls one FDR analysis run.
type Config struct {
	NumNotches    int
	UseDeltaScore bool
	AnalysisType  AnalysisType
	Logger        log15.Logger
}

// Validate applies spec §7's fail-fast rule at construction time.
func (c *Config) Validate() error {
	if c.NumNotches <= 0 {
		return fmt.Errorf("fdr: NumNotches must be positive: %w", errs.ErrInvalidConfig)
	}
	if c.Logger == nil {
		c.Logger = log15.New()
		c.Logger.SetHandler(log15.DiscardHandler())
	}
	return nil
}
