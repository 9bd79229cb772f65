package dto

// Inputs mirror the GraphQL arguments: nil means the argument was omitted.

type ListProductsInput struct {
	Skip  *int32
	Limit *int32
}

type SearchProductsInput struct {
	Term    string
	Skip    *int32
	Limit   *int32
	Filters *FilterInput
	Sort    *SortInput
}

type FilterInput struct {
	Categories    *[]*string
	Manufacturers *[]*string
	Types         *[]*string
	PriceRanges   *[]*string
}

type SortInput struct {
	Field string
	Order string
}

type ProductDTO struct {
	ID                  string   `json:"_id"`
	ObjectID            string   `json:"objectID"`
	Name                string   `json:"name"`
	ShortDescription    string   `json:"shortDescription"`
	BestSellingRank     int      `json:"bestSellingRank"`
	ThumbnailImage      string   `json:"thumbnailImage"`
	SalePrice           float64  `json:"salePrice"`
	Manufacturer        string   `json:"manufacturer"`
	URL                 string   `json:"url"`
	Type                string   `json:"type"`
	Image               *string  `json:"image"`
	CustomerReviewCount *int     `json:"customerReviewCount"`
	Shipping            string   `json:"shipping"`
	SalePriceRange      string   `json:"salePrice_range"`
	Categories          []string `json:"categories"`
}

type ProductResult struct {
	Products    []ProductDTO `json:"products"`
	ResultCount int          `json:"resultCount"`
}

type SearchResult struct {
	Products            []ProductDTO `json:"products"`
	UniqueCategories    []string     `json:"uniqueCategories"`
	UniqueManufacturers []string     `json:"uniqueManufacturers"`
	PriceRanges         []string     `json:"priceRanges"`
	Type                []string     `json:"type"`
	ResultCount         int          `json:"resultCount"`
}
