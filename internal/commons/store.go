package commons

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/infrastructure/mongodb"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/product/repository"
)

// CatalogStore is the read side the catalog service queries plus the bulk
// loader used by seeding.
type CatalogStore interface {
	Find(ctx context.Context, q domain.Query) ([]domain.Product, error)
	FindFacetSource(ctx context.Context, p domain.Predicate) ([]domain.Product, error)
	Count(ctx context.Context, p domain.Predicate) (int64, error)
	Ping(ctx context.Context) error
	InsertMany(ctx context.Context, products []domain.Product) (int, error)
}

// OpenStore connects the store selected by cfg.Store.Driver and prepares its
// indexes or schema. The returned func releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (CatalogStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if err := mongodb.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		logger.Info("mongo connected",
			zap.String("database", cfg.Mongo.Database),
			zap.String("collection", cfg.Mongo.Collection),
		)
		return repository.NewMongoRepository(coll), func() error {
			return client.Disconnect(context.Background())
		}, nil

	case config.DriverMySQL:
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("database connected", zap.String("name", cfg.Database.Name))
		return repository.NewMySQLRepository(db), db.Close, nil

	case config.DriverMemory:
		repo := repository.NewMemoryRepository()
		if cfg.Store.SeedFile != "" {
			products, err := repository.ReadSeedFile(cfg.Store.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			if _, err := repo.InsertMany(ctx, products); err != nil {
				return nil, nil, err
			}
			logger.Info("memory store seeded",
				zap.String("file", cfg.Store.SeedFile),
				zap.Int("products", len(products)),
			)
		}
		return repo, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
