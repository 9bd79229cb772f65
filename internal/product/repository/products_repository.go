package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

// MySQL server error numbers treated as a bad query.
const (
	mysqlErrParse          = 1064
	mysqlErrWrongArguments = 1210
)

const productColumns = `p.id, p.object_id, p.name, p.short_description, p.best_selling_rank,
		       p.thumbnail_image, p.sale_price, p.manufacturer, p.url, p.type, p.image,
		       p.customer_review_count, p.shipping, p.sale_price_range`

var mysqlSortColumns = map[domain.SortField]string{
	domain.SortSalePrice:           "p.sale_price",
	domain.SortBestSellingRank:     "p.best_selling_rank",
	domain.SortCustomerReviewCount: "p.customer_review_count",
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Find(ctx context.Context, q domain.Query) ([]domain.Product, error) {
	where, args := buildMySQLWhere(q.Predicate)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		%s
		%s`,
		productColumns, where, buildMySQLOrderBy(q.Sort),
	)
	if q.Page != nil {
		query += "\n\t\tLIMIT ? OFFSET ?"
		args = append(args, q.Page.Limit, q.Page.Skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyMySQLError("find products", fmt.Errorf("querying products: %w", err))
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p       domain.Product
			image   sql.NullString
			reviews sql.NullInt64
		)
		err := rows.Scan(
			&p.ID, &p.ObjectID, &p.Name, &p.ShortDescription, &p.BestSellingRank,
			&p.ThumbnailImage, &p.SalePrice, &p.Manufacturer, &p.URL, &p.Type, &image,
			&reviews, &p.Shipping, &p.SalePriceRange,
		)
		if err != nil {
			return nil, classifyMySQLError("find products", fmt.Errorf("scanning product row: %w", err))
		}
		p.Image = image.String
		if reviews.Valid {
			n := int(reviews.Int64)
			p.CustomerReviewCount = &n
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyMySQLError("find products", fmt.Errorf("iterating product rows: %w", err))
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, classifyMySQLError("find products", err)
	}

	return products, nil
}

func (r *MySQLRepository) FindFacetSource(ctx context.Context, pred domain.Predicate) ([]domain.Product, error) {
	where, args := buildMySQLWhere(pred)

	query := fmt.Sprintf(`
		SELECT p.id, p.manufacturer, p.type, p.sale_price_range
		FROM products p
		%s
		ORDER BY p.seq`,
		where,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyMySQLError("find facet source", fmt.Errorf("querying facet source: %w", err))
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Manufacturer, &p.Type, &p.SalePriceRange); err != nil {
			return nil, classifyMySQLError("find facet source", fmt.Errorf("scanning facet row: %w", err))
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyMySQLError("find facet source", fmt.Errorf("iterating facet rows: %w", err))
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, classifyMySQLError("find facet source", err)
	}

	return products, nil
}

func (r *MySQLRepository) Count(ctx context.Context, pred domain.Predicate) (int64, error) {
	where, args := buildMySQLWhere(pred)

	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p "+where, args...).Scan(&n)
	if err != nil {
		return 0, classifyMySQLError("count products", fmt.Errorf("counting products: %w", err))
	}
	return n, nil
}

func (r *MySQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return classifyMySQLError("ping", err)
	}
	return nil
}

// InsertMany writes products and their categories in one transaction.
// Products without an id get a generated one.
func (r *MySQLRepository) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyMySQLError("insert products", fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	productStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, object_id, name, short_description, best_selling_rank,
		                      thumbnail_image, sale_price, manufacturer, url, type, image,
		                      customer_review_count, shipping, sale_price_range)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, classifyMySQLError("insert products", fmt.Errorf("preparing product insert: %w", err))
	}
	defer productStmt.Close()

	categoryStmt, err := tx.PrepareContext(ctx, `
		INSERT IGNORE INTO product_categories (product_id, category, position)
		VALUES (?, ?, ?)`)
	if err != nil {
		return 0, classifyMySQLError("insert products", fmt.Errorf("preparing category insert: %w", err))
	}
	defer categoryStmt.Close()

	for _, p := range products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		var image interface{}
		if p.Image != "" {
			image = p.Image
		}
		var reviews interface{}
		if p.CustomerReviewCount != nil {
			reviews = *p.CustomerReviewCount
		}

		_, err := productStmt.ExecContext(ctx,
			id, p.ObjectID, p.Name, p.ShortDescription, p.BestSellingRank,
			p.ThumbnailImage, p.SalePrice, p.Manufacturer, p.URL, p.Type, image,
			reviews, p.Shipping, p.SalePriceRange,
		)
		if err != nil {
			return 0, classifyMySQLError("insert products", fmt.Errorf("inserting product %s: %w", id, err))
		}

		for pos, c := range p.Categories {
			if _, err := categoryStmt.ExecContext(ctx, id, c, pos); err != nil {
				return 0, classifyMySQLError("insert products", fmt.Errorf("inserting category for %s: %w", id, err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classifyMySQLError("insert products", fmt.Errorf("committing products: %w", err))
	}

	return len(products), nil
}

func (r *MySQLRepository) attachCategories(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	placeholders := make([]string, len(products))
	args := make([]interface{}, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		placeholders[i] = "?"
		args[i] = p.ID
		index[p.ID] = i
		products[i].Categories = []string{}
	}

	query := fmt.Sprintf(`
		SELECT product_id, category
		FROM product_categories
		WHERE product_id IN (%s)
		ORDER BY product_id, position`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return fmt.Errorf("scanning category row: %w", err)
		}
		if i, ok := index[id]; ok {
			products[i].Categories = append(products[i].Categories, category)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating category rows: %w", err)
	}
	return nil
}

// buildMySQLWhere compiles the predicate into a WHERE clause: a full-text
// match on the term AND one IN list per non-empty facet.
func buildMySQLWhere(pred domain.Predicate) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)

	if term := strings.TrimSpace(pred.Term); term != "" {
		clauses = append(clauses, "MATCH(p.name, p.short_description, p.manufacturer) AGAINST (? IN NATURAL LANGUAGE MODE)")
		args = append(args, term)
	}

	if values := pred.Filters.Categories; len(values) > 0 {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category IN (%s))",
			placeholders(len(values)),
		))
		args = appendStrings(args, values)
	}

	for _, f := range []struct {
		column string
		values []string
	}{
		{"p.manufacturer", pred.Filters.Manufacturers},
		{"p.type", pred.Filters.Types},
		{"p.sale_price_range", pred.Filters.PriceRanges},
	} {
		if len(f.values) == 0 {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", f.column, placeholders(len(f.values))))
		args = appendStrings(args, f.values)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, "\n\t\t  AND "), args
}

// buildMySQLOrderBy falls back to insertion order for natural sorting.
func buildMySQLOrderBy(s domain.Sort) string {
	column, ok := mysqlSortColumns[s.Field]
	if !ok {
		return "ORDER BY p.seq"
	}
	dir := "ASC"
	if s.Order == domain.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, p.seq", column, dir)
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}

func appendStrings(args []interface{}, values []string) []interface{} {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

func classifyMySQLError(op string, err error) error {
	var (
		myErr  *mysql.MySQLError
		netErr net.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewStoreError(apperrors.KindTimeout, op, err)
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &netErr):
		return apperrors.NewStoreError(apperrors.KindStoreUnavailable, op, err)
	case errors.As(err, &myErr) && isMySQLQueryError(myErr.Number):
		return apperrors.NewStoreError(apperrors.KindMalformedQuery, op, err)
	default:
		return apperrors.NewStoreError(apperrors.KindInternal, op, err)
	}
}

func isMySQLQueryError(number uint16) bool {
	switch number {
	case mysqlErrParse, mysqlErrWrongArguments:
		return true
	default:
		return false
	}
}
