package service

import "storefront/internal/domain"

// AggregateFacets derives the distinct categories, manufacturers, types and
// price-range labels of a match set, in first-seen order. Empty values are
// never emitted and the returned slices are never nil.
func AggregateFacets(products []domain.Product) domain.Facets {
	var (
		categories    = newValueSet()
		manufacturers = newValueSet()
		types         = newValueSet()
		priceRanges   = newValueSet()
	)

	for _, p := range products {
		for _, c := range p.Categories {
			categories.add(c)
		}
		manufacturers.add(p.Manufacturer)
		types.add(p.Type)
		priceRanges.add(p.SalePriceRange)
	}

	return domain.Facets{
		Categories:    categories.values,
		Manufacturers: manufacturers.values,
		Types:         types.values,
		PriceRanges:   priceRanges.values,
	}
}

type valueSet struct {
	seen   map[string]struct{}
	values []string
}

func newValueSet() *valueSet {
	return &valueSet{
		seen:   make(map[string]struct{}),
		values: []string{},
	}
}

func (s *valueSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
