// Package gptmd implements the GPTMD ("global PTM discovery") engine:
// given confident PSMs whose precursor mass diverges from the matched
// peptide's theoretical mass, annotate candidate localized modifications
// that explain the residual (spec §4.3).
package gptmd

import (
	"fmt"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/errs"
	"github.com/524D/protosearch/internal/spectrum"
	"github.com/inconshreveable/log15"
)

// ModPair is a combination of two modifications whose summed mass may
// explain a single precursor residual (spec §4.3's combos).
type ModPair struct {
	First  bio.Modification
	Second bio.Modification
}

// acceptedQValueNotch is spec §4.3 step 1's filter threshold.
const acceptedQValueNotch = 0.05

// Config controls one GPTMD run.
type Config struct {
	AllMods                  []bio.Modification
	Combos                   []ModPair
	FileToPrecursorTolerance map[string]spectrum.Tolerance
	DefaultTolerance         spectrum.Tolerance
	Logger                   log15.Logger
}

// Validate applies spec §7's fail-fast rule at construction time.
func (c *Config) Validate() error {
	if len(c.AllMods) == 0 {
		return fmt.Errorf("gptmd: no candidate modifications configured: %w", errs.ErrInvalidConfig)
	}
	if c.Logger == nil {
		c.Logger = log15.New()
		c.Logger.SetHandler(log15.DiscardHandler())
	}
	return nil
}

func (c *Config) toleranceFor(filePath string) spectrum.Tolerance {
	if t, ok := c.FileToPrecursorTolerance[filePath]; ok {
		return t
	}
	return c.DefaultTolerance
}
