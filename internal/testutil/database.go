package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB opens the MySQL test database. It expects a database called
// storefront_test on localhost:3306 unless TEST_MYSQL_DSN is set, and skips
// the test when the server is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/storefront_test?parseTime=true&multiStatements=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the catalog tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	CleanupTestDBTables(t, db)
	db.Close()
}

// CleanupTestDBTables empties the catalog tables.
func CleanupTestDBTables(t *testing.T, db *sql.DB) {
	for _, table := range []string{"product_categories", "products"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SetupTestMongo returns a fresh collection in the storefront_test database.
// It uses TEST_MONGO_URI (default mongodb://localhost:27017) and skips the
// test when the server is not reachable.
func SetupTestMongo(t *testing.T) *mongo.Collection {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("test mongo not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("test mongo not available: %v", err)
	}

	coll := client.Database("storefront_test").Collection(fmt.Sprintf("products_%d", time.Now().UnixNano()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			t.Logf("failed to clean collection: %v", err)
		}
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return coll
}
