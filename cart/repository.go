package cart

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"rocketshoes-cart/model"
	"rocketshoes-cart/storage"
)

// StorageKey is the namespace the whole cart payload lives under.
const StorageKey = "@RocketShoes:cart"

// KVRepository stores the cart as a JSON array of items under a single key.
type KVRepository struct {
	kv  storage.KV
	key string
}

func NewRepository(kv storage.KV, key string) *KVRepository {
	if key == "" {
		key = StorageKey
	}
	return &KVRepository{kv: kv, key: key}
}

// Load returns an empty cart when nothing was stored yet.
func (r *KVRepository) Load(ctx context.Context) (model.Cart, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if !ok {
		return model.Cart{}, nil
	}

	var c model.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	if c == nil {
		c = model.Cart{}
	}

	seen := make(map[int64]struct{}, len(c))
	for _, it := range c {
		if it.Amount <= 0 {
			return nil, errors.Errorf("decode cart: product %d has amount %d", it.ID, it.Amount)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, errors.Errorf("decode cart: product %d stored twice", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return c, nil
}

func (r *KVRepository) Save(ctx context.Context, c model.Cart) error {
	if c == nil {
		c = model.Cart{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return errors.Wrap(r.kv.Set(ctx, r.key, string(b)), "save cart")
}

// Clear removes the stored payload; the next Load returns an empty cart.
func (r *KVRepository) Clear(ctx context.Context) error {
	return errors.Wrap(r.kv.Delete(ctx, r.key), "clear cart")
}
