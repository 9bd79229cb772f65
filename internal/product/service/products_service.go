package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/metrics"
)

type Repository interface {
	Find(ctx context.Context, q domain.Query) ([]domain.Product, error)
	FindFacetSource(ctx context.Context, p domain.Predicate) ([]domain.Product, error)
	Count(ctx context.Context, p domain.Predicate) (int64, error)
	Ping(ctx context.Context) error
}

type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
}

type ProductService struct {
	repo    Repository
	cache   Cache
	logger  *zap.Logger
	timeout time.Duration
}

// NewService builds the catalog service. cache may be nil to disable result
// caching; timeout bounds every store round trip of a single request.
func NewService(repo Repository, cache Cache, logger *zap.Logger, timeout time.Duration) *ProductService {
	return &ProductService{
		repo:    repo,
		cache:   cache,
		logger:  logger,
		timeout: timeout,
	}
}

// ListProducts returns one page of the whole catalog and the catalog size.
func (s *ProductService) ListProducts(ctx context.Context, page domain.Page) (*domain.ListResult, error) {
	key, cacheable := s.cacheKey("list", page)
	if cached, ok := s.lookup(key, cacheable); ok {
		return cached.(*domain.ListResult), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		products []domain.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = observe(gctx, "list_page", func(ctx context.Context) ([]domain.Product, error) {
			return s.repo.Find(ctx, domain.Query{Page: &page})
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = observe(gctx, "list_count", func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, domain.Predicate{})
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "fetch products", err)
	}

	result := &domain.ListResult{
		Products:    nonNil(products),
		ResultCount: int(total),
	}
	s.store(key, cacheable, result)
	return result, nil
}

// SearchProducts runs the paged query and the unpaged match-set query
// concurrently. Facets and ResultCount describe the whole match set.
func (s *ProductService) SearchProducts(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	key, cacheable := s.cacheKey("search", req)
	if cached, ok := s.lookup(key, cacheable); ok {
		return cached.(*domain.SearchResult), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pred := req.Predicate()
	page := req.Page

	var (
		products []domain.Product
		matchSet []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = observe(gctx, "search_page", func(ctx context.Context) ([]domain.Product, error) {
			return s.repo.Find(ctx, domain.Query{Predicate: pred, Sort: req.Sort, Page: &page})
		})
		return err
	})
	g.Go(func() error {
		var err error
		matchSet, err = observe(gctx, "search_facets", func(ctx context.Context) ([]domain.Product, error) {
			return s.repo.FindFacetSource(ctx, pred)
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "search products", err)
	}

	result := &domain.SearchResult{
		Products:    nonNil(products),
		Facets:      AggregateFacets(matchSet),
		ResultCount: len(matchSet),
	}

	logger.FromContext(ctx, s.logger).Debug("search completed",
		zap.String("term", req.Term),
		zap.String("sort", req.Sort.Field.String()),
		zap.Int("page_size", len(result.Products)),
		zap.Int("result_count", result.ResultCount),
	)

	s.store(key, cacheable, result)
	return result, nil
}

// Ping checks that the backing store answers within the request timeout.
func (s *ProductService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		return s.fail(ctx, "ping store", err)
	}
	return nil
}

// fail logs the cause and returns err as a typed store error.
func (s *ProductService) fail(ctx context.Context, op string, err error) error {
	if _, ok := apperrors.IsStoreError(err); !ok {
		kind := apperrors.KindOf(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = apperrors.KindTimeout
		}
		err = apperrors.NewStoreError(kind, op, err)
	}

	logger.FromContext(ctx, s.logger).Error(op+" failed",
		zap.String("kind", apperrors.KindOf(err).String()),
		zap.Error(err),
	)
	return err
}

func (s *ProductService) cacheKey(op string, v interface{}) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s", op, b), true
}

func (s *ProductService) lookup(key string, cacheable bool) (interface{}, bool) {
	if !cacheable {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	return v, ok
}

func (s *ProductService) store(key string, cacheable bool, v interface{}) {
	if cacheable {
		s.cache.Set(key, v)
	}
}

// observe runs one store operation and records its latency and outcome.
func observe[T any](ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	metrics.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = apperrors.KindOf(err).String()
	}
	metrics.StoreQueriesTotal.WithLabelValues(op, status).Inc()
	return v, err
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
