// Package errs defines the domain error sentinels shared by the search,
// FDR and GPTMD engines.
package errs

import "errors"

var (
	// ErrInvalidConfig is returned when an engine is constructed with
	// missing or contradictory parameters (e.g. a nil scan collection, no
	// proteins, or a non-positive notch count).
	ErrInvalidConfig = errors.New("protosearch: invalid configuration")

	// ErrUnknownProtease is returned when DigestionParams name a protease
	// the bio package has no cleavage rule for.
	ErrUnknownProtease = errors.New("protosearch: unknown protease")

	// ErrUnknownModification names an unknown-modification failure. No
	// engine in this module currently returns it.
	ErrUnknownModification = errors.New("protosearch: unknown modification")

	// ErrCancelled is returned by a Run call that observed its cancellation
	// flag set before completing. Results collected so far are incomplete
	// and should be discarded by the caller.
	ErrCancelled = errors.New("protosearch: search cancelled")
)
