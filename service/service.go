package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rocketshoes-cart/model"
	"rocketshoes-cart/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type CreateProductRequest struct {
	Title string  `json:"title"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (int64, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Price < 0 || req.Stock < 0 {
		return 0, ErrInvalidInput
	}
	return s.store.CreateProduct(ctx, req.Title, req.Image, req.Price, req.Stock)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, ErrInvalidInput
	}
	row, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, mapErr(err)
	}
	return toProduct(row), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, toProduct(r))
	}
	return out, nil
}

func (s *Service) GetStock(ctx context.Context, productID int64) (model.Stock, error) {
	if productID <= 0 {
		return model.Stock{}, ErrInvalidInput
	}
	amount, err := s.store.GetStock(ctx, productID)
	if err != nil {
		return model.Stock{}, mapErr(err)
	}
	return model.Stock{ID: productID, Amount: amount}, nil
}

func (s *Service) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if productID <= 0 || newStock < 0 {
		return ErrInvalidInput
	}
	return mapErr(s.store.UpdateStock(ctx, productID, newStock))
}

func toProduct(r store.ProductRow) model.Product {
	p := model.Product{ID: r.ID, Title: r.Title, Price: r.Price}
	if r.Image.Valid {
		p.Image = r.Image.String
	}
	return p
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
