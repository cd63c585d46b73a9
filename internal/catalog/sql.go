// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopsphere/backend/internal/logging"
	"github.com/shopsphere/backend/internal/models"
)

// queryTimeout bounds individual catalog queries.
const queryTimeout = 30 * time.Second

// SQLStore is a DuckDB-backed Store implementation.
type SQLStore struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Interface compliance check.
var _ Store = (*SQLStore)(nil)

// OpenSQLStore opens (and if necessary creates) the DuckDB catalog at path.
// Use ":memory:" for an ephemeral database.
func OpenSQLStore(path string) (*SQLStore, error) {
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d", path, runtime.NumCPU())
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	s := &SQLStore{
		conn:   conn,
		logger: logging.With().Str("component", "catalog").Logger(),
	}
	if err := s.initSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("Catalog database opened")
	return s, nil
}

// initSchema creates the catalog tables when absent.
func (s *SQLStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			name VARCHAR NOT NULL,
			description VARCHAR NOT NULL DEFAULT '',
			category VARCHAR NOT NULL DEFAULT '',
			price DECIMAL(12,2) NOT NULL DEFAULT 0,
			rating DOUBLE,
			review_count INTEGER NOT NULL DEFAULT 0,
			stock INTEGER,
			image_url VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT now(),
			updated_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR PRIMARY KEY,
			status VARCHAR NOT NULL,
			total DECIMAL(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT now(),
			updated_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id VARCHAR NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INTEGER NOT NULL,
			price DECIMAL(12,2) NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

const productColumns = `id, name, description, category, price, rating, review_count, stock, image_url, created_at, updated_at`

// scanProduct reads one product row.
func scanProduct(rows interface{ Scan(...any) error }) (models.Product, error) {
	var (
		p      models.Product
		price  string
		rating sql.NullFloat64
		stock  sql.NullInt64
	)
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &price,
		&rating, &p.ReviewCount, &stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return p, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.Stock = &v
	}
	return p, nil
}

// GetProduct returns the product with the given id.
func (s *SQLStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product %d: %w", id, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// ListProducts returns all products ordered by id.
func (s *SQLStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeRows(rows, s.logger)

	return collectProducts(rows)
}

// ListProductsByCategory returns all products in the given category.
func (s *SQLStore) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	want := strings.ToLower(strings.TrimSpace(category))
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE lower(trim(category)) = ? ORDER BY id`, want)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	defer closeRows(rows, s.logger)

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	out := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// ListNonCancelledOrdersWithItems returns every non-CANCELLED order with its
// line items populated. Items are loaded in a single join and grouped in
// memory to avoid a query per order.
func (s *SQLStore) ListNonCancelledOrdersWithItems(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT o.id, o.status, o.total, o.created_at, o.updated_at,
		        i.product_id, i.quantity, i.price
		 FROM orders o
		 LEFT JOIN order_items i ON i.order_id = o.id
		 WHERE o.status != ?
		 ORDER BY o.created_at, o.id`, string(models.OrderCancelled))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer closeRows(rows, s.logger)

	orders := make([]models.Order, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			o         models.Order
			total     string
			productID sql.NullInt64
			quantity  sql.NullInt64
			price     sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt,
			&productID, &quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		idx, ok := index[o.ID]
		if !ok {
			d, err := decimal.NewFromString(total)
			if err != nil {
				return nil, fmt.Errorf("parse order total %q: %w", total, err)
			}
			o.Total = d
			o.Items = make([]models.OrderItem, 0, 4)
			orders = append(orders, o)
			idx = len(orders) - 1
			index[o.ID] = idx
		}

		if productID.Valid {
			itemPrice, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, fmt.Errorf("parse item price %q: %w", price.String, err)
			}
			orders[idx].Items = append(orders[idx].Items, models.OrderItem{
				ProductID: productID.Int64,
				Quantity:  int(quantity.Int64),
				Price:     itemPrice,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// SaveOrder persists a new order and its items in one transaction.
func (s *SQLStore) SaveOrder(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, status, total, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		order.ID, string(order.Status), order.Total.StringFixed(2),
		order.CreatedAt, order.UpdatedAt); err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Quantity, item.Price.StringFixed(2)); err != nil {
			return fmt.Errorf("insert order item %s/%d: %w", order.ID, item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order %s: %w", order.ID, err)
	}
	return nil
}

// UpdateOrderStatus sets the status of an existing order.
func (s *SQLStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = now() WHERE id = ?`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("update order %s: %w", id, ErrOrderNotFound)
	}
	return nil
}

// ListOrdersByStatus returns all orders in the given status, without items.
func (s *SQLStore) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, status, total, created_at, updated_at FROM orders
		 WHERE status = ? ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query orders by status: %w", err)
	}
	defer closeRows(rows, s.logger)

	out := make([]models.Order, 0)
	for rows.Next() {
		var (
			o     models.Order
			total string
		)
		if err := rows.Scan(&o.ID, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		d, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse order total %q: %w", total, err)
		}
		o.Total = d
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

// closeRows closes a result set, logging close failures rather than
// masking the primary query error.
func closeRows(rows *sql.Rows, logger zerolog.Logger) {
	if err := rows.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close result set")
	}
}
