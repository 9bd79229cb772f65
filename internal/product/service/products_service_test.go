package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/cache"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/product/repository"
	"storefront/internal/testutil"
)

type mockRepository struct {
	FindFunc            func(ctx context.Context, q domain.Query) ([]domain.Product, error)
	FindFacetSourceFunc func(ctx context.Context, p domain.Predicate) ([]domain.Product, error)
	CountFunc           func(ctx context.Context, p domain.Predicate) (int64, error)
	PingFunc            func(ctx context.Context) error
}

func (m *mockRepository) Find(ctx context.Context, q domain.Query) ([]domain.Product, error) {
	return m.FindFunc(ctx, q)
}

func (m *mockRepository) FindFacetSource(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
	return m.FindFacetSourceFunc(ctx, p)
}

func (m *mockRepository) Count(ctx context.Context, p domain.Predicate) (int64, error) {
	return m.CountFunc(ctx, p)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

func newTestService(repo Repository) *ProductService {
	return NewService(repo, nil, zap.NewNop(), 5*time.Second)
}

func footwearRequest(skip, limit int) domain.SearchRequest {
	return domain.SearchRequest{
		Term:    "shoe",
		Page:    domain.Page{Skip: skip, Limit: limit},
		Filters: domain.Filters{Categories: []string{"Footwear"}},
		Sort:    domain.Sort{Field: domain.SortSalePrice, Order: domain.Ascending},
	}
}

func TestSearchProducts_SortedPageWithFullResultCount(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))

	res, err := svc.SearchProducts(context.Background(), footwearRequest(0, 2))
	require.NoError(t, err)

	require.Len(t, res.Products, 2)
	assert.Equal(t, 10.0, res.Products[0].SalePrice)
	assert.Equal(t, 20.0, res.Products[1].SalePrice)
	assert.Equal(t, 5, res.ResultCount)
}

func TestSearchProducts_FacetsIndependentOfPagination(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))
	ctx := context.Background()

	first, err := svc.SearchProducts(ctx, footwearRequest(0, 1))
	require.NoError(t, err)
	last, err := svc.SearchProducts(ctx, footwearRequest(4, 10))
	require.NoError(t, err)

	assert.Equal(t, first.Facets, last.Facets)
	assert.Equal(t, first.ResultCount, last.ResultCount)
	assert.Equal(t, []string{"Footwear", "Running", "Formal", "Sports"}, first.Facets.Categories)
	assert.Len(t, last.Products, 1)
}

func TestSearchProducts_DescendingPrice(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))
	req := footwearRequest(0, 10)
	req.Sort.Order = domain.Descending

	res, err := svc.SearchProducts(context.Background(), req)
	require.NoError(t, err)

	for i := 1; i < len(res.Products); i++ {
		assert.GreaterOrEqual(t, res.Products[i-1].SalePrice, res.Products[i].SalePrice)
	}
}

func TestSearchProducts_NoResultsIsNotAnError(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))

	res, err := svc.SearchProducts(context.Background(), domain.SearchRequest{
		Term: "telescope",
		Page: domain.Page{Limit: 10},
	})
	require.NoError(t, err)

	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.Equal(t, 0, res.ResultCount)
	assert.NotNil(t, res.Facets.Categories)
	assert.Empty(t, res.Facets.Manufacturers)
}

func TestSearchProducts_PassesCompiledQueries(t *testing.T) {
	var (
		mu        sync.Mutex
		gotQuery  domain.Query
		gotFacets domain.Predicate
	)
	repo := &mockRepository{
		FindFunc: func(ctx context.Context, q domain.Query) ([]domain.Product, error) {
			mu.Lock()
			defer mu.Unlock()
			gotQuery = q
			return nil, nil
		},
		FindFacetSourceFunc: func(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
			mu.Lock()
			defer mu.Unlock()
			gotFacets = p
			return testutil.Shoes(), nil
		},
	}
	svc := newTestService(repo)
	req := footwearRequest(3, 2)

	res, err := svc.SearchProducts(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Predicate(), gotQuery.Predicate)
	assert.Equal(t, req.Sort, gotQuery.Sort)
	require.NotNil(t, gotQuery.Page)
	assert.Equal(t, domain.Page{Skip: 3, Limit: 2}, *gotQuery.Page)
	assert.Equal(t, req.Predicate(), gotFacets)
	assert.Equal(t, 5, res.ResultCount)
	assert.NotNil(t, res.Products)
}

func TestSearchProducts_StoreErrorIsTypedAndLogged(t *testing.T) {
	storeErr := apperrors.NewStoreError(apperrors.KindStoreUnavailable, "find products", errors.New("no reachable servers"))
	repo := &mockRepository{
		FindFunc: func(ctx context.Context, q domain.Query) ([]domain.Product, error) {
			return nil, storeErr
		},
		FindFacetSourceFunc: func(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewService(repo, nil, zap.New(core), time.Second)

	ctx := logger.WithTraceID(context.Background(), "trace-1")
	res, err := svc.SearchProducts(ctx, footwearRequest(0, 2))

	assert.Nil(t, res)
	assert.Equal(t, apperrors.KindStoreUnavailable, apperrors.KindOf(err))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search products failed", entry.Message)
	assert.Equal(t, "store_unavailable", entry.ContextMap()["kind"])
	assert.Equal(t, "trace-1", entry.ContextMap()["traceId"])
}

func TestSearchProducts_Timeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	repo := &mockRepository{
		FindFunc: func(ctx context.Context, q domain.Query) ([]domain.Product, error) {
			return nil, slow(ctx)
		},
		FindFacetSourceFunc: func(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
			return nil, slow(ctx)
		},
	}
	svc := NewService(repo, nil, zap.NewNop(), 20*time.Millisecond)

	start := time.Now()
	_, err := svc.SearchProducts(context.Background(), footwearRequest(0, 2))

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, apperrors.KindTimeout, apperrors.KindOf(err))
}

func TestSearchProducts_UsesCache(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	repo := &mockRepository{
		FindFunc: func(ctx context.Context, q domain.Query) ([]domain.Product, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return testutil.Shoes()[:2], nil
		},
		FindFacetSourceFunc: func(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
			return testutil.Shoes(), nil
		},
	}
	svc := NewService(repo, cache.NewMemoryCache(time.Minute, time.Minute), zap.NewNop(), time.Second)
	ctx := context.Background()

	first, err := svc.SearchProducts(ctx, footwearRequest(0, 2))
	require.NoError(t, err)
	second, err := svc.SearchProducts(ctx, footwearRequest(0, 2))
	require.NoError(t, err)
	_, err = svc.SearchProducts(ctx, footwearRequest(2, 2))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestListProducts_ReturnsPageAndStoreSize(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))

	res, err := svc.ListProducts(context.Background(), domain.Page{Skip: 0, Limit: 21})
	require.NoError(t, err)

	assert.Len(t, res.Products, 7)
	assert.Equal(t, 7, res.ResultCount)
}

func TestListProducts_PageSmallerThanStore(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository(testutil.Catalog()...))

	res, err := svc.ListProducts(context.Background(), domain.Page{Skip: 5, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, res.Products, 2)
	assert.Equal(t, 7, res.ResultCount)
}

func TestListProducts_CountFailure(t *testing.T) {
	repo := &mockRepository{
		FindFunc: func(ctx context.Context, q domain.Query) ([]domain.Product, error) {
			return testutil.Shoes(), nil
		},
		CountFunc: func(ctx context.Context, p domain.Predicate) (int64, error) {
			return 0, errors.New("unexpected")
		},
	}
	svc := newTestService(repo)

	res, err := svc.ListProducts(context.Background(), domain.Page{Limit: 20})

	assert.Nil(t, res)
	se, ok := apperrors.IsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInternal, se.Kind)
	assert.Equal(t, "fetch products", se.Op)
}

func TestPing(t *testing.T) {
	svc := newTestService(&mockRepository{
		PingFunc: func(ctx context.Context) error { return nil },
	})
	assert.NoError(t, svc.Ping(context.Background()))

	down := apperrors.NewStoreError(apperrors.KindStoreUnavailable, "ping", errors.New("refused"))
	svc = newTestService(&mockRepository{
		PingFunc: func(ctx context.Context) error { return down },
	})
	assert.Equal(t, apperrors.KindStoreUnavailable, apperrors.KindOf(svc.Ping(context.Background())))
}
