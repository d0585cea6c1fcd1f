// Package spectrum holds the read-only MS2 scan data model and the fragment-
// matching/scoring primitives the search engine scores peptides against.
package spectrum

import "github.com/524D/protosearch/internal/bio"

// Peak is one (m/z, intensity) observation in a scan's spectrum.
type Peak struct {
	Mz        float64
	Intensity float64
}

// Scan is one immutable MS2 spectrum record.
type Scan struct {
	ScanIndex        int // dense 0-based identifier within a file
	ScanNumber       int // sparse instrument identifier
	PrecursorMass    float64
	DissociationType bio.DissociationType
	Peaks            []Peak

	totalIntensity    float64
	totalIntensitySet bool
}

// TotalIntensity returns the sum of this scan's peak intensities, cached
// after the first call since it never changes for an immutable scan.
func (s *Scan) TotalIntensity() float64 {
	if s.totalIntensitySet {
		return s.totalIntensity
	}
	var total float64
	for _, p := range s.Peaks {
		total += p.Intensity
	}
	s.totalIntensity = total
	s.totalIntensitySet = true
	return total
}
