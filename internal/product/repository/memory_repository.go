package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"storefront/internal/domain"
)

// MemoryRepository keeps the catalog in process. Term matching mirrors a
// document-store text search: any query token equal to a token of the
// product's name, description, manufacturer or categories is a match.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewMemoryRepository(products ...domain.Product) *MemoryRepository {
	r := &MemoryRepository{}
	r.products = append(r.products, products...)
	return r
}

func (r *MemoryRepository) InsertMany(_ context.Context, products []domain.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, products...)
	return len(products), nil
}

func (r *MemoryRepository) Find(ctx context.Context, q domain.Query) ([]domain.Product, error) {
	matched, err := r.match(ctx, q.Predicate)
	if err != nil {
		return nil, err
	}

	if less := memoryLess(q.Sort); less != nil {
		sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })
	}

	if q.Page != nil {
		matched = paginate(matched, *q.Page)
	}
	return matched, nil
}

func (r *MemoryRepository) FindFacetSource(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
	return r.match(ctx, p)
}

func (r *MemoryRepository) Count(ctx context.Context, p domain.Predicate) (int64, error) {
	matched, err := r.match(ctx, p)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) match(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := tokenize(p.Term)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, prod := range r.products {
		if len(terms) > 0 && !matchesTerms(prod, terms) {
			continue
		}
		if !matchesFilters(prod, p.Filters) {
			continue
		}
		out = append(out, prod)
	}
	return out, nil
}

func matchesTerms(p domain.Product, terms []string) bool {
	fields := []string{p.Name, p.ShortDescription, p.Manufacturer}
	fields = append(fields, p.Categories...)

	tokens := make(map[string]struct{})
	for _, f := range fields {
		for _, t := range tokenize(f) {
			tokens[t] = struct{}{}
		}
	}
	for _, t := range terms {
		if _, ok := tokens[t]; ok {
			return true
		}
	}
	return false
}

func matchesFilters(p domain.Product, f domain.Filters) bool {
	if len(f.Categories) > 0 && !containsAny(f.Categories, p.Categories) {
		return false
	}
	if len(f.Manufacturers) > 0 && !contains(f.Manufacturers, p.Manufacturer) {
		return false
	}
	if len(f.Types) > 0 && !contains(f.Types, p.Type) {
		return false
	}
	if len(f.PriceRanges) > 0 && !contains(f.PriceRanges, p.SalePriceRange) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsAny(set, values []string) bool {
	for _, v := range values {
		if contains(set, v) {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// memoryLess returns nil for natural order.
func memoryLess(s domain.Sort) func(a, b domain.Product) bool {
	var key func(p domain.Product) float64
	switch s.Field {
	case domain.SortSalePrice:
		key = func(p domain.Product) float64 { return p.SalePrice }
	case domain.SortBestSellingRank:
		key = func(p domain.Product) float64 { return float64(p.BestSellingRank) }
	case domain.SortCustomerReviewCount:
		key = func(p domain.Product) float64 { return float64(p.ReviewCount()) }
	default:
		return nil
	}

	if s.Order == domain.Descending {
		return func(a, b domain.Product) bool { return key(a) > key(b) }
	}
	return func(a, b domain.Product) bool { return key(a) < key(b) }
}

func paginate(products []domain.Product, page domain.Page) []domain.Product {
	if page.Skip >= len(products) {
		return []domain.Product{}
	}
	end := len(products)
	if page.Limit > 0 && page.Skip+page.Limit < end {
		end = page.Skip + page.Limit
	}
	return products[page.Skip:end]
}
