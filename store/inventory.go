package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNegativeStock is returned when an admin tries to set stock below zero.
var ErrNegativeStock = errors.New("stock cannot be negative")

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if newStock < 0 {
		return ErrNegativeStock
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE products SET stock=$1 WHERE id=$2`, newStock, productID)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetStock returns current stock for a product.
func (s *PostgresStore) GetStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	if err := s.DB.QueryRowContext(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&stock); err != nil {
		return 0, err
	}
	return stock, nil
}
