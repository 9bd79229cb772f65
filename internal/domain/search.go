package domain

import "strings"

type SortField int

const (
	// SortNatural leaves ordering to the backing store.
	SortNatural SortField = iota
	SortSalePrice
	SortBestSellingRank
	SortCustomerReviewCount
)

// ParseSortField maps a wire field name to a SortField. Unknown names
// yield SortNatural.
func ParseSortField(name string) SortField {
	switch name {
	case "salePrice":
		return SortSalePrice
	case "bestSellingRank":
		return SortBestSellingRank
	case "customerReviewCount":
		return SortCustomerReviewCount
	default:
		return SortNatural
	}
}

func (f SortField) String() string {
	switch f {
	case SortSalePrice:
		return "salePrice"
	case SortBestSellingRank:
		return "bestSellingRank"
	case SortCustomerReviewCount:
		return "customerReviewCount"
	default:
		return "natural"
	}
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return Ascending, true
	case "DESC":
		return Descending, true
	default:
		return Ascending, false
	}
}

func (o SortOrder) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

type Sort struct {
	Field SortField
	Order SortOrder
}

func (s Sort) IsNatural() bool {
	return s.Field == SortNatural
}

type Filters struct {
	Categories    []string
	Manufacturers []string
	Types         []string
	PriceRanges   []string
}

// Normalize drops blank and repeated values, keeping first-seen order.
func (f Filters) Normalize() Filters {
	return Filters{
		Categories:    normalizeValues(f.Categories),
		Manufacturers: normalizeValues(f.Manufacturers),
		Types:         normalizeValues(f.Types),
		PriceRanges:   normalizeValues(f.PriceRanges),
	}
}

func (f Filters) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Manufacturers) == 0 &&
		len(f.Types) == 0 && len(f.PriceRanges) == 0
}

func normalizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Predicate selects products by free-text term and facet filters. An empty
// term matches every product.
type Predicate struct {
	Term    string
	Filters Filters
}

func (p Predicate) MatchesAll() bool {
	return strings.TrimSpace(p.Term) == "" && p.Filters.IsEmpty()
}

type Page struct {
	Skip  int
	Limit int
}

// Query is a compiled catalog read. A nil Page reads the whole match set.
type Query struct {
	Predicate Predicate
	Sort      Sort
	Page      *Page
}

type SearchRequest struct {
	Term    string
	Page    Page
	Filters Filters
	Sort    Sort
}

func (r SearchRequest) Predicate() Predicate {
	return Predicate{Term: r.Term, Filters: r.Filters}
}

type SearchResult struct {
	Products    []Product
	Facets      Facets
	ResultCount int
}

type ListResult struct {
	Products    []Product
	ResultCount int
}
