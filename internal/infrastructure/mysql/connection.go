package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"storefront/internal/config"
)

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id VARCHAR(64) NOT NULL PRIMARY KEY,
	object_id VARCHAR(64) NOT NULL DEFAULT '',
	name VARCHAR(512) NOT NULL,
	short_description TEXT NOT NULL,
	best_selling_rank INT NOT NULL DEFAULT 0,
	thumbnail_image VARCHAR(1024) NOT NULL DEFAULT '',
	sale_price DECIMAL(12,2) NOT NULL DEFAULT 0,
	manufacturer VARCHAR(255) NOT NULL DEFAULT '',
	url VARCHAR(1024) NOT NULL DEFAULT '',
	type VARCHAR(100) NOT NULL DEFAULT '',
	image VARCHAR(1024) NULL,
	customer_review_count INT NULL,
	shipping VARCHAR(255) NOT NULL DEFAULT '',
	sale_price_range VARCHAR(100) NOT NULL DEFAULT '',
	seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
	FULLTEXT INDEX ft_products (name, short_description, manufacturer),
	INDEX idx_manufacturer (manufacturer),
	INDEX idx_type (type),
	INDEX idx_price_range (sale_price_range),
	INDEX idx_sale_price (sale_price),
	INDEX idx_rank (best_selling_rank),
	INDEX idx_reviews (customer_review_count)
);
CREATE TABLE IF NOT EXISTS product_categories (
	product_id VARCHAR(64) NOT NULL,
	category VARCHAR(255) NOT NULL,
	position INT NOT NULL DEFAULT 0,
	PRIMARY KEY (product_id, category),
	INDEX idx_category (category),
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);`

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating catalog schema: %w", err)
	}
	return nil
}
