package domain

// Product is a catalog entry as served to the storefront. The query layer
// only ever reads products.
type Product struct {
	ID                  string
	ObjectID            string
	Name                string
	ShortDescription    string
	BestSellingRank     int
	ThumbnailImage      string
	SalePrice           float64
	Manufacturer        string
	URL                 string
	Type                string
	Image               string
	CustomerReviewCount *int
	Shipping            string
	SalePriceRange      string
	Categories          []string
}

func (p Product) ReviewCount() int {
	if p.CustomerReviewCount == nil {
		return 0
	}
	return *p.CustomerReviewCount
}

// Facets lists the distinct filter values present in a match set.
type Facets struct {
	Categories    []string
	Manufacturers []string
	Types         []string
	PriceRanges   []string
}
