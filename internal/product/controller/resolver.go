package controller

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/logger"
)

const (
	msgFetchFailed  = "Unable to fetch products"
	msgSearchFailed = "Unable to search products"
)

type SearchUseCase interface {
	ListProducts(ctx context.Context, in dto.ListProductsInput) (*dto.ProductResult, error)
	SearchProducts(ctx context.Context, in dto.SearchProductsInput) (*dto.SearchResult, error)
}

// Resolver is the GraphQL query root.
type Resolver struct {
	useCase SearchUseCase
	logger  *zap.Logger
}

func NewResolver(useCase SearchUseCase, logger *zap.Logger) *Resolver {
	return &Resolver{
		useCase: useCase,
		logger:  logger,
	}
}

func (r *Resolver) GetProducts(ctx context.Context, args dto.ListProductsInput) (*productResultResolver, error) {
	res, err := r.useCase.ListProducts(ctx, args)
	if err != nil {
		return nil, r.resolverError(ctx, msgFetchFailed, err)
	}
	return &productResultResolver{res: res}, nil
}

func (r *Resolver) SearchProducts(ctx context.Context, args dto.SearchProductsInput) (*searchResultResolver, error) {
	res, err := r.useCase.SearchProducts(ctx, args)
	if err != nil {
		return nil, r.resolverError(ctx, msgSearchFailed, err)
	}
	return &searchResultResolver{res: res}, nil
}

// resolverError hides store failure details behind a stable message while
// exposing the failure kind as extensions.code. Validation problems are
// reported as-is since they describe the caller's own input.
func (r *Resolver) resolverError(ctx context.Context, message string, err error) error {
	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.FromContext(ctx, r.logger).Warn("invalid query arguments",
			zap.String("message", ve.Message),
			zap.Int("problems", len(ve.Details)),
		)
		return &queryError{
			message: ve.Message,
			code:    apperrors.KindMalformedQuery.Code(),
			details: ve.Details,
		}
	}

	return &queryError{
		message: message,
		code:    apperrors.KindOf(err).Code(),
	}
}

type queryError struct {
	message string
	code    string
	details []apperrors.ValidationDetail
}

func (e *queryError) Error() string {
	return e.message
}

func (e *queryError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if len(e.details) > 0 {
		ext["details"] = e.details
	}
	return ext
}

type productResultResolver struct {
	res *dto.ProductResult
}

func (r *productResultResolver) Products() []*productResolver {
	return productResolvers(r.res.Products)
}

func (r *productResultResolver) ResultCount() *int32 {
	n := int32(r.res.ResultCount)
	return &n
}

type searchResultResolver struct {
	res *dto.SearchResult
}

func (r *searchResultResolver) Products() []*productResolver {
	return productResolvers(r.res.Products)
}

func (r *searchResultResolver) UniqueCategories() []*string {
	return nullableStrings(r.res.UniqueCategories)
}

func (r *searchResultResolver) UniqueManufacturers() []*string {
	return nullableStrings(r.res.UniqueManufacturers)
}

func (r *searchResultResolver) PriceRanges() []*string {
	return nullableStrings(r.res.PriceRanges)
}

func (r *searchResultResolver) Type() []*string {
	return nullableStrings(r.res.Type)
}

func (r *searchResultResolver) ResultCount() *int32 {
	n := int32(r.res.ResultCount)
	return &n
}

type productResolver struct {
	p dto.ProductDTO
}

func (r *productResolver) ID() graphql.ID { return graphql.ID(r.p.ID) }

func (r *productResolver) Name() string { return r.p.Name }

func (r *productResolver) ShortDescription() string { return r.p.ShortDescription }

func (r *productResolver) BestSellingRank() int32 { return int32(r.p.BestSellingRank) }

func (r *productResolver) ThumbnailImage() string { return r.p.ThumbnailImage }

func (r *productResolver) SalePrice() float64 { return r.p.SalePrice }

func (r *productResolver) Manufacturer() string { return r.p.Manufacturer }

func (r *productResolver) URL() string { return r.p.URL }

func (r *productResolver) Type() string { return r.p.Type }

func (r *productResolver) Image() *string { return r.p.Image }

func (r *productResolver) Shipping() string { return r.p.Shipping }

func (r *productResolver) SalePriceRange() string { return r.p.SalePriceRange }

func (r *productResolver) ObjectID() string { return r.p.ObjectID }

func (r *productResolver) Categories() []string { return r.p.Categories }

func (r *productResolver) CustomerReviewCount() *int32 {
	if r.p.CustomerReviewCount == nil {
		return nil
	}
	n := int32(*r.p.CustomerReviewCount)
	return &n
}

func productResolvers(products []dto.ProductDTO) []*productResolver {
	out := make([]*productResolver, len(products))
	for i := range products {
		out[i] = &productResolver{p: products[i]}
	}
	return out
}

func nullableStrings(values []string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
