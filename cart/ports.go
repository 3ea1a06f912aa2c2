package cart

import (
	"context"

	"rocketshoes-cart/model"
)

// StockOracle reports how many units of a product can be bought.
type StockOracle interface {
	Stock(ctx context.Context, productID int64) (model.Stock, error)
}

// ProductCatalog returns the display data of a product.
type ProductCatalog interface {
	Product(ctx context.Context, productID int64) (model.Product, error)
}

// Repository persists the whole cart.
type Repository interface {
	Load(ctx context.Context) (model.Cart, error)
	Save(ctx context.Context, c model.Cart) error
	Clear(ctx context.Context) error
}

type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

// Notification is a user-facing message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier delivers notifications to the user. Delivery is not acknowledged.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Messages shown to the user.
const (
	MsgOutOfStock   = "requested quantity out of stock"
	MsgAddFailed    = "error adding product"
	MsgRemoveFailed = "error removing product"
	MsgUpdateFailed = "error changing product quantity"
	MsgCleared      = "cart emptied"
)
