package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

// Mongo server error codes treated as a bad query.
const (
	mongoCodeBadValue      = 2
	mongoCodeFailedToParse = 9
)

type productDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	ObjectID            string             `bson:"objectID"`
	Name                string             `bson:"name"`
	ShortDescription    string             `bson:"shortDescription"`
	BestSellingRank     int                `bson:"bestSellingRank"`
	ThumbnailImage      string             `bson:"thumbnailImage"`
	SalePrice           float64            `bson:"salePrice"`
	Manufacturer        string             `bson:"manufacturer"`
	URL                 string             `bson:"url"`
	Type                string             `bson:"type"`
	Image               string             `bson:"image,omitempty"`
	CustomerReviewCount *int               `bson:"customerReviewCount,omitempty"`
	Shipping            string             `bson:"shipping"`
	SalePriceRange      string             `bson:"salePrice_range"`
	Categories          []string           `bson:"categories"`
}

func (d productDocument) toDomain() domain.Product {
	p := domain.Product{
		ObjectID:            d.ObjectID,
		Name:                d.Name,
		ShortDescription:    d.ShortDescription,
		BestSellingRank:     d.BestSellingRank,
		ThumbnailImage:      d.ThumbnailImage,
		SalePrice:           d.SalePrice,
		Manufacturer:        d.Manufacturer,
		URL:                 d.URL,
		Type:                d.Type,
		Image:               d.Image,
		CustomerReviewCount: d.CustomerReviewCount,
		Shipping:            d.Shipping,
		SalePriceRange:      d.SalePriceRange,
		Categories:          d.Categories,
	}
	if !d.ID.IsZero() {
		p.ID = d.ID.Hex()
	}
	return p
}

func newProductDocument(p domain.Product) productDocument {
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		id = primitive.NewObjectID()
	}
	return productDocument{
		ID:                  id,
		ObjectID:            p.ObjectID,
		Name:                p.Name,
		ShortDescription:    p.ShortDescription,
		BestSellingRank:     p.BestSellingRank,
		ThumbnailImage:      p.ThumbnailImage,
		SalePrice:           p.SalePrice,
		Manufacturer:        p.Manufacturer,
		URL:                 p.URL,
		Type:                p.Type,
		Image:               p.Image,
		CustomerReviewCount: p.CustomerReviewCount,
		Shipping:            p.Shipping,
		SalePriceRange:      p.SalePriceRange,
		Categories:          p.Categories,
	}
}

var mongoSortFields = map[domain.SortField]string{
	domain.SortSalePrice:           "salePrice",
	domain.SortBestSellingRank:     "bestSellingRank",
	domain.SortCustomerReviewCount: "customerReviewCount",
}

var facetProjection = bson.D{
	{Key: "categories", Value: 1},
	{Key: "manufacturer", Value: 1},
	{Key: "type", Value: 1},
	{Key: "salePrice_range", Value: 1},
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Find(ctx context.Context, q domain.Query) ([]domain.Product, error) {
	opts := options.Find()
	if s := compileMongoSort(q.Sort); s != nil {
		opts.SetSort(s)
	}
	if q.Page != nil {
		opts.SetSkip(int64(q.Page.Skip))
		opts.SetLimit(int64(q.Page.Limit))
	}
	return r.find(ctx, "find products", compileMongoFilter(q.Predicate), opts)
}

func (r *MongoRepository) FindFacetSource(ctx context.Context, p domain.Predicate) ([]domain.Product, error) {
	opts := options.Find().SetProjection(facetProjection)
	return r.find(ctx, "find facet source", compileMongoFilter(p), opts)
}

func (r *MongoRepository) Count(ctx context.Context, p domain.Predicate) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, compileMongoFilter(p))
	if err != nil {
		return 0, classifyMongoError("count products", err)
	}
	return n, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return classifyMongoError("ping", err)
	}
	return nil
}

// InsertMany loads products into the collection and returns how many were
// written.
func (r *MongoRepository) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = newProductDocument(p)
	}

	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if res != nil && len(res.InsertedIDs) > 0 {
			return len(res.InsertedIDs), classifyMongoError("insert products", err)
		}
		return 0, classifyMongoError("insert products", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoRepository) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]domain.Product, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classifyMongoError(op, fmt.Errorf("decoding products: %w", err))
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}

// compileMongoFilter builds a $text search on the term combined with one
// $in constraint per non-empty facet.
func compileMongoFilter(p domain.Predicate) bson.D {
	filter := bson.D{}

	if term := strings.TrimSpace(p.Term); term != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}})
	}

	filter = appendIn(filter, "categories", p.Filters.Categories)
	filter = appendIn(filter, "manufacturer", p.Filters.Manufacturers)
	filter = appendIn(filter, "type", p.Filters.Types)
	filter = appendIn(filter, "salePrice_range", p.Filters.PriceRanges)

	return filter
}

func appendIn(filter bson.D, field string, values []string) bson.D {
	if len(values) == 0 {
		return filter
	}
	return append(filter, bson.E{Key: field, Value: bson.D{{Key: "$in", Value: values}}})
}

// compileMongoSort returns nil for natural order.
func compileMongoSort(s domain.Sort) bson.D {
	field, ok := mongoSortFields[s.Field]
	if !ok {
		return nil
	}
	dir := 1
	if s.Order == domain.Descending {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}}
}

func classifyMongoError(op string, err error) error {
	var (
		sse       topology.ServerSelectionError
		serverErr mongo.ServerError
	)

	switch {
	case errors.As(err, &sse),
		mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return apperrors.NewStoreError(apperrors.KindStoreUnavailable, op, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return apperrors.NewStoreError(apperrors.KindTimeout, op, err)
	case errors.As(err, &serverErr) &&
		(serverErr.HasErrorCode(mongoCodeBadValue) || serverErr.HasErrorCode(mongoCodeFailedToParse)):
		return apperrors.NewStoreError(apperrors.KindMalformedQuery, op, err)
	default:
		return apperrors.NewStoreError(apperrors.KindInternal, op, err)
	}
}
