package service

import (
	"context"

	"rocketshoes-cart/model"
)

type ServiceInterface interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (int64, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetStock(ctx context.Context, productID int64) (model.Stock, error)
	UpdateStock(ctx context.Context, productID int64, newStock int) error
}
