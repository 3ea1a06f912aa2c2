package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// ProductRow mirrors a row of the products table.
type ProductRow struct {
	ID    int64
	Title string
	Price float64
	Image sql.NullString
	Stock int
}

// PostgresStore is a Store backed by Postgres.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// CreateProduct inserts a product and returns its id
func (s *PostgresStore) CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO products (title, image, price, stock) VALUES ($1, $2, $3, $4) RETURNING id`,
		title, image, price, stock,
	).Scan(&id)
	return id, err
}

// GetProduct returns sql.ErrNoRows when id does not exist.
func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	var p ProductRow
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, title, price, image, stock FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Stock)
	return p, err
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, price, image, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Stock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
