package spectrum

import "sort"

// Collection is an ordered sequence of Scans sorted ascending by
// PrecursorMass, with a parallel PrecursorMass slice extracted for binary
// search (spec §3's ScanCollection).
type Collection struct {
	Scans         []*Scan
	PrecursorMass []float64
}

// NewCollection sorts scans ascending by PrecursorMass and builds the
// parallel PrecursorMass array used by FirstScanWithMassOverOrEqual.
func NewCollection(scans []*Scan) *Collection {
	sorted := make([]*Scan, len(scans))
	copy(sorted, scans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PrecursorMass < sorted[j].PrecursorMass })
	masses := make([]float64, len(sorted))
	for i, s := range sorted {
		masses[i] = s.PrecursorMass
	}
	return &Collection{Scans: sorted, PrecursorMass: masses}
}

// FirstScanWithMassOverOrEqual returns the index of the first scan whose
// PrecursorMass is >= minimum, or len(masses) if none qualifies (spec
// §4.1's first_scan_with_mass_over_or_equal — a binary-search insertion
// point, not a linear scan).
func FirstScanWithMassOverOrEqual(masses []float64, minimum float64) int {
	lo, hi := 0, len(masses)
	for lo < hi {
		mid := (lo + hi) / 2
		if masses[mid] < minimum {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
