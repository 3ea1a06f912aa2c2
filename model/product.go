package model

// Product is the catalog view of an item. It never changes while it sits in a cart.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// CartItem is a product plus the quantity held in the cart.
type CartItem struct {
	Product
	Amount int `json:"amount"`
}

// Subtotal is price times amount.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Amount)
}

// Stock is the maximum purchasable quantity of a product.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Cart is ordered and holds at most one item per product id.
type Cart []CartItem

// Find returns the position of productID in the cart.
func (c Cart) Find(productID int64) (int, bool) {
	for i, it := range c {
		if it.ID == productID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a copy that shares nothing with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Size is the number of distinct products.
func (c Cart) Size() int { return len(c) }

// Total sums every item's subtotal.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c {
		total += it.Subtotal()
	}
	return total
}
