package search

import (
	"github.com/524D/protosearch/internal/massdiff"
	"github.com/524D/protosearch/internal/spectrum"
)

// scanNotch pairs a scan index (into a Collection's Scans slice) with the
// notch under which it was accepted.
type scanNotch struct {
	scanIdx int
	notch   int
}

// acceptableScans implements spec §4.2/§4.1's acceptable_scans: for each
// (interval, notch) the acceptor yields for peptideMass, binary-search the
// first scan with precursor_mass >= interval.Min, then walk forward while
// precursor_mass <= interval.Max.
func acceptableScans(peptideMass float64, acceptor massdiff.Acceptor, coll *spectrum.Collection) []scanNotch {
	var out []scanNotch
	for _, ni := range acceptor.Intervals(peptideMass) {
		start := spectrum.FirstScanWithMassOverOrEqual(coll.PrecursorMass, ni.Interval.Min)
		for i := start; i < len(coll.PrecursorMass) && coll.PrecursorMass[i] <= ni.Interval.Max; i++ {
			out = append(out, scanNotch{scanIdx: i, notch: ni.Notch})
		}
	}
	return out
}
