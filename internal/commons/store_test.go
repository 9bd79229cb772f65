package commons

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain"
)

const seedJSON = `[
  {"_id": {"$oid": "5f1a00000000000000000001"}, "name": "Trail Running Shoe", "shortDescription": "Lightweight shoe",
   "bestSellingRank": 5, "thumbnailImage": "t.jpg", "salePrice": 30, "manufacturer": "Stride", "url": "u",
   "type": "HardGood", "image": null, "customerReviewCount": 12, "shipping": "Free",
   "salePrice_range": "25 - 50", "objectID": "1001", "categories": ["Footwear"]}
]`

func TestOpenStore_MemorySeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory, SeedFile: path}}
	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	n, err := store.Count(context.Background(), domain.Predicate{Term: "shoe"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenStore_MemoryMissingSeed(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory, SeedFile: filepath.Join(t.TempDir(), "missing.json")}}

	_, _, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "postgres"}}

	_, _, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.EqualError(t, err, `unknown store driver "postgres"`)
}
