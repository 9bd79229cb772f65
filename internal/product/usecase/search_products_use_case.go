package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type Service interface {
	ListProducts(ctx context.Context, page domain.Page) (*domain.ListResult, error)
	SearchProducts(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

// Limits holds the page sizes applied when a caller omits limit, and the
// largest limit a caller may request.
type Limits struct {
	DefaultSearch int
	DefaultList   int
	Max           int
}

type SearchUseCase struct {
	service Service
	limits  Limits
}

func NewSearchUseCase(service Service, limits Limits) *SearchUseCase {
	return &SearchUseCase{
		service: service,
		limits:  limits,
	}
}

func (uc *SearchUseCase) ListProducts(ctx context.Context, in dto.ListProductsInput) (*dto.ProductResult, error) {
	var details []apperrors.ValidationDetail
	page := uc.page(in.Skip, in.Limit, uc.limits.DefaultList, &details)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError(details[0].Message, details...)
	}

	res, err := uc.service.ListProducts(ctx, page)
	if err != nil {
		return nil, err
	}

	return &dto.ProductResult{
		Products:    toProductDTOs(res.Products),
		ResultCount: res.ResultCount,
	}, nil
}

func (uc *SearchUseCase) SearchProducts(ctx context.Context, in dto.SearchProductsInput) (*dto.SearchResult, error) {
	req, err := uc.BuildSearchRequest(in)
	if err != nil {
		return nil, err
	}

	res, err := uc.service.SearchProducts(ctx, req)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResult{
		Products:            toProductDTOs(res.Products),
		UniqueCategories:    res.Facets.Categories,
		UniqueManufacturers: res.Facets.Manufacturers,
		PriceRanges:         res.Facets.PriceRanges,
		Type:                res.Facets.Types,
		ResultCount:         res.ResultCount,
	}, nil
}

// BuildSearchRequest validates raw search arguments and applies defaults.
// All problems are reported together in one ValidationError.
func (uc *SearchUseCase) BuildSearchRequest(in dto.SearchProductsInput) (domain.SearchRequest, error) {
	var details []apperrors.ValidationDetail

	term := strings.TrimSpace(in.Term)
	if term == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "term",
			Message: "term must not be blank",
		})
	}

	page := uc.page(in.Skip, in.Limit, uc.limits.DefaultSearch, &details)

	var sort domain.Sort
	if in.Sort != nil {
		order, ok := domain.ParseSortOrder(in.Sort.Order)
		if !ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   "sort.order",
				Message: "sort.order must be ASC or DESC",
			})
		}
		sort = domain.Sort{
			Field: domain.ParseSortField(in.Sort.Field),
			Order: order,
		}
	}

	if len(details) > 0 {
		return domain.SearchRequest{}, apperrors.NewValidationError(details[0].Message, details...)
	}

	return domain.SearchRequest{
		Term:    term,
		Page:    page,
		Filters: toFilters(in.Filters),
		Sort:    sort,
	}, nil
}

func (uc *SearchUseCase) page(skip, limit *int32, defaultLimit int, details *[]apperrors.ValidationDetail) domain.Page {
	page := domain.Page{Skip: 0, Limit: defaultLimit}

	if skip != nil {
		if *skip < 0 {
			*details = append(*details, apperrors.ValidationDetail{
				Field:   "skip",
				Message: "skip must not be negative",
			})
		}
		page.Skip = int(*skip)
	}

	if limit != nil {
		if *limit < 1 || int(*limit) > uc.limits.Max {
			*details = append(*details, apperrors.ValidationDetail{
				Field:   "limit",
				Message: fmt.Sprintf("limit must be between 1 and %d", uc.limits.Max),
			})
		}
		page.Limit = int(*limit)
	}

	return page
}

func toFilters(in *dto.FilterInput) domain.Filters {
	if in == nil {
		return domain.Filters{}
	}
	return domain.Filters{
		Categories:    derefValues(in.Categories),
		Manufacturers: derefValues(in.Manufacturers),
		Types:         derefValues(in.Types),
		PriceRanges:   derefValues(in.PriceRanges),
	}.Normalize()
}

func derefValues(values *[]*string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(*values))
	for _, v := range *values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func toProductDTOs(products []domain.Product) []dto.ProductDTO {
	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		d := dto.ProductDTO{
			ID:                  p.ID,
			ObjectID:            p.ObjectID,
			Name:                p.Name,
			ShortDescription:    p.ShortDescription,
			BestSellingRank:     p.BestSellingRank,
			ThumbnailImage:      p.ThumbnailImage,
			SalePrice:           p.SalePrice,
			Manufacturer:        p.Manufacturer,
			URL:                 p.URL,
			Type:                p.Type,
			CustomerReviewCount: p.CustomerReviewCount,
			Shipping:            p.Shipping,
			SalePriceRange:      p.SalePriceRange,
			Categories:          p.Categories,
		}
		if p.Image != "" {
			image := p.Image
			d.Image = &image
		}
		if d.Categories == nil {
			d.Categories = []string{}
		}
		out = append(out, d)
	}
	return out
}
