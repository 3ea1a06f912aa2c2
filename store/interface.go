package store

import "context"

// GET /products          - list products
// GET /products/{id}     - one product
// POST /products         - create a product with its initial stock
// GET /stock/{id}        - available amount for a product
// PUT /stock/{id}        - set the available amount (admin)

type Store interface {
	CreateProduct(ctx context.Context, title, image string, price float64, stock int) (int64, error)
	GetProduct(ctx context.Context, id int64) (ProductRow, error)
	ListProducts(ctx context.Context) ([]ProductRow, error)

	GetStock(ctx context.Context, productID int64) (int, error)
	UpdateStock(ctx context.Context, productID int64, newStock int) error

	Close() error
}
