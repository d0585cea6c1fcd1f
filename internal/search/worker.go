package search

import "github.com/524D/protosearch/internal/bio"

// scratch holds one worker's reusable fragment-ion buffers, keyed by
// dissociation type so each type's theoretical-product list is cleared and
// refilled rather than reallocated between peptides (spec §4.2/§9's
// thread-local scratch vectors).
type scratch struct {
	targetProducts map[bio.DissociationType][]bio.TheoreticalFragment
	decoyProducts  map[bio.DissociationType][]bio.TheoreticalFragment
}

func newScratch(types []bio.DissociationType) *scratch {
	s := &scratch{
		targetProducts: make(map[bio.DissociationType][]bio.TheoreticalFragment, len(types)),
		decoyProducts:  make(map[bio.DissociationType][]bio.TheoreticalFragment, len(types)),
	}
	for _, t := range types {
		s.targetProducts[t] = nil
		s.decoyProducts[t] = nil
	}
	return s
}

// clear resets every slot's length to zero while retaining capacity, ready
// for a new peptide.
func (s *scratch) clear() {
	for t := range s.targetProducts {
		s.targetProducts[t] = s.targetProducts[t][:0]
	}
	for t := range s.decoyProducts {
		s.decoyProducts[t] = s.decoyProducts[t][:0]
	}
}

// targetFragments lazily fragments peptide into the scratch slot for d,
// returning (products, ok); ok is false if d has no scratch slot (an
// unconfigured dissociation type, spec §7's silent-skip case).
func (s *scratch) targetFragments(peptide *bio.PeptideWithSetModifications, d bio.DissociationType) ([]bio.TheoreticalFragment, bool) {
	products, ok := s.targetProducts[d]
	if !ok {
		return nil, false
	}
	if len(products) == 0 {
		products = append(products, peptide.Fragment(d)...)
		s.targetProducts[d] = products
	}
	return products, true
}

func (s *scratch) decoyFragments(peptide *bio.PeptideWithSetModifications, d bio.DissociationType) ([]bio.TheoreticalFragment, bool) {
	products, ok := s.decoyProducts[d]
	if !ok {
		return nil, false
	}
	if len(products) == 0 {
		products = append(products, peptide.Fragment(d)...)
		s.decoyProducts[d] = products
	}
	return products, true
}
