package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortField(t *testing.T) {
	assert.Equal(t, SortSalePrice, ParseSortField("salePrice"))
	assert.Equal(t, SortBestSellingRank, ParseSortField("bestSellingRank"))
	assert.Equal(t, SortCustomerReviewCount, ParseSortField("customerReviewCount"))
	assert.Equal(t, SortNatural, ParseSortField("name"))
	assert.Equal(t, SortNatural, ParseSortField(""))
	assert.Equal(t, SortNatural, ParseSortField("SalePrice"))
}

func TestSortField_String_RoundTrip(t *testing.T) {
	for _, f := range []SortField{SortSalePrice, SortBestSellingRank, SortCustomerReviewCount} {
		assert.Equal(t, f, ParseSortField(f.String()))
	}
	assert.Equal(t, "natural", SortNatural.String())
}

func TestParseSortOrder(t *testing.T) {
	o, ok := ParseSortOrder("ASC")
	assert.True(t, ok)
	assert.Equal(t, Ascending, o)

	o, ok = ParseSortOrder(" desc ")
	assert.True(t, ok)
	assert.Equal(t, Descending, o)

	_, ok = ParseSortOrder("sideways")
	assert.False(t, ok)
}

func TestSort_ZeroValueIsNatural(t *testing.T) {
	var s Sort
	assert.True(t, s.IsNatural())
	assert.Equal(t, Ascending, s.Order)
}

func TestFilters_Normalize(t *testing.T) {
	f := Filters{
		Categories:    []string{"Footwear", " ", "Footwear", "Running"},
		Manufacturers: []string{""},
		Types:         nil,
		PriceRanges:   []string{" 10 - 20 "},
	}

	got := f.Normalize()

	assert.Equal(t, []string{"Footwear", "Running"}, got.Categories)
	assert.Nil(t, got.Manufacturers)
	assert.Nil(t, got.Types)
	assert.Equal(t, []string{"10 - 20"}, got.PriceRanges)
}

func TestFilters_IsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Categories: []string{}}.IsEmpty())
	assert.False(t, Filters{Types: []string{"HardGood"}}.IsEmpty())
}

func TestPredicate_MatchesAll(t *testing.T) {
	assert.True(t, Predicate{}.MatchesAll())
	assert.True(t, Predicate{Term: "  "}.MatchesAll())
	assert.False(t, Predicate{Term: "shoe"}.MatchesAll())
	assert.False(t, Predicate{Filters: Filters{Categories: []string{"Footwear"}}}.MatchesAll())
}

func TestProduct_ReviewCount(t *testing.T) {
	n := 12
	assert.Equal(t, 12, Product{CustomerReviewCount: &n}.ReviewCount())
	assert.Equal(t, 0, Product{}.ReviewCount())
}
