package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/testutil"
)

type mockService struct {
	ListProductsFunc   func(ctx context.Context, page domain.Page) (*domain.ListResult, error)
	SearchProductsFunc func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

func (m *mockService) ListProducts(ctx context.Context, page domain.Page) (*domain.ListResult, error) {
	return m.ListProductsFunc(ctx, page)
}

func (m *mockService) SearchProducts(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	return m.SearchProductsFunc(ctx, req)
}

var testLimits = Limits{DefaultSearch: 10, DefaultList: 20, Max: 100}

func int32Ptr(i int32) *int32 { return &i }

func strPtr(s string) *string { return &s }

func TestBuildSearchRequest_Defaults(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	req, err := uc.BuildSearchRequest(dto.SearchProductsInput{Term: "  shoe "})
	require.NoError(t, err)

	assert.Equal(t, "shoe", req.Term)
	assert.Equal(t, domain.Page{Skip: 0, Limit: 10}, req.Page)
	assert.True(t, req.Filters.IsEmpty())
	assert.True(t, req.Sort.IsNatural())
}

func TestBuildSearchRequest_FiltersAndSort(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)
	categories := []*string{strPtr("Footwear"), nil, strPtr(""), strPtr("Footwear")}
	empty := []*string{}

	req, err := uc.BuildSearchRequest(dto.SearchProductsInput{
		Term:  "shoe",
		Skip:  int32Ptr(4),
		Limit: int32Ptr(2),
		Filters: &dto.FilterInput{
			Categories:    &categories,
			Manufacturers: &empty,
		},
		Sort: &dto.SortInput{Field: "salePrice", Order: "DESC"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Page{Skip: 4, Limit: 2}, req.Page)
	assert.Equal(t, []string{"Footwear"}, req.Filters.Categories)
	assert.Nil(t, req.Filters.Manufacturers)
	assert.Equal(t, domain.Sort{Field: domain.SortSalePrice, Order: domain.Descending}, req.Sort)
}

func TestBuildSearchRequest_UnknownSortFieldIsNatural(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	req, err := uc.BuildSearchRequest(dto.SearchProductsInput{
		Term: "shoe",
		Sort: &dto.SortInput{Field: "popularity", Order: "ASC"},
	})
	require.NoError(t, err)
	assert.True(t, req.Sort.IsNatural())
}

func TestBuildSearchRequest_ValidationErrors(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	_, err := uc.BuildSearchRequest(dto.SearchProductsInput{
		Term:  " ",
		Skip:  int32Ptr(-1),
		Limit: int32Ptr(101),
		Sort:  &dto.SortInput{Field: "salePrice", Order: "UP"},
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "term must not be blank", ve.Message)

	fields := make([]string, 0, len(ve.Details))
	for _, d := range ve.Details {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"term", "skip", "limit", "sort.order"}, fields)
	assert.Equal(t, apperrors.KindMalformedQuery, apperrors.KindOf(err))
}

func TestBuildSearchRequest_ZeroLimitRejected(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	_, err := uc.BuildSearchRequest(dto.SearchProductsInput{Term: "shoe", Limit: int32Ptr(0)})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "limit", ve.Details[0].Field)
}

func TestSearchProducts_MapsResult(t *testing.T) {
	var got domain.SearchRequest
	svc := &mockService{
		SearchProductsFunc: func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
			got = req
			shoes := testutil.Shoes()
			shoes[0].Image = "full.jpg"
			return &domain.SearchResult{
				Products: shoes[:2],
				Facets: domain.Facets{
					Categories:    []string{"Footwear"},
					Manufacturers: []string{"Stride", "Basics"},
					Types:         []string{"HardGood"},
					PriceRanges:   []string{"1 - 25", "25 - 50"},
				},
				ResultCount: 5,
			}, nil
		},
	}
	uc := NewSearchUseCase(svc, testLimits)

	res, err := uc.SearchProducts(context.Background(), dto.SearchProductsInput{Term: "shoe"})
	require.NoError(t, err)

	assert.Equal(t, "shoe", got.Term)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "5f1a00000000000000000001", res.Products[0].ID)
	require.NotNil(t, res.Products[0].Image)
	assert.Equal(t, "full.jpg", *res.Products[0].Image)
	assert.Nil(t, res.Products[1].Image)
	assert.Equal(t, []string{"Footwear"}, res.UniqueCategories)
	assert.Equal(t, []string{"Stride", "Basics"}, res.UniqueManufacturers)
	assert.Equal(t, []string{"HardGood"}, res.Type)
	assert.Equal(t, []string{"1 - 25", "25 - 50"}, res.PriceRanges)
	assert.Equal(t, 5, res.ResultCount)
}

func TestSearchProducts_InvalidInputSkipsService(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	res, err := uc.SearchProducts(context.Background(), dto.SearchProductsInput{})

	assert.Nil(t, res)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestSearchProducts_ServiceError(t *testing.T) {
	storeErr := apperrors.NewStoreError(apperrors.KindTimeout, "search products", errors.New("deadline"))
	uc := NewSearchUseCase(&mockService{
		SearchProductsFunc: func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
			return nil, storeErr
		},
	}, testLimits)

	_, err := uc.SearchProducts(context.Background(), dto.SearchProductsInput{Term: "shoe"})
	assert.ErrorIs(t, err, storeErr)
}

func TestListProducts_Defaults(t *testing.T) {
	var got domain.Page
	uc := NewSearchUseCase(&mockService{
		ListProductsFunc: func(ctx context.Context, page domain.Page) (*domain.ListResult, error) {
			got = page
			return &domain.ListResult{Products: testutil.Catalog(), ResultCount: 7}, nil
		},
	}, testLimits)

	res, err := uc.ListProducts(context.Background(), dto.ListProductsInput{})
	require.NoError(t, err)

	assert.Equal(t, domain.Page{Skip: 0, Limit: 20}, got)
	assert.Len(t, res.Products, 7)
	assert.Equal(t, 7, res.ResultCount)
	assert.NotNil(t, res.Products[6].Categories)
}

func TestListProducts_InvalidLimit(t *testing.T) {
	uc := NewSearchUseCase(&mockService{}, testLimits)

	_, err := uc.ListProducts(context.Background(), dto.ListProductsInput{Limit: int32Ptr(-5)})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "limit", ve.Details[0].Field)
}
