package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocketshoes-cart/model"
	"rocketshoes-cart/storage"
)

func TestRepository_WritesUnderKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	repo := NewRepository(kv, "session-a")

	require.NoError(t, repo.Save(ctx, model.Cart{{Product: model.Product{ID: 1, Title: "t", Price: 1.5, Image: "i"}, Amount: 2}}))

	raw, ok, err := kv.Get(ctx, "session-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"title":"t","price":1.5,"image":"i","amount":2}]`, raw)

	_, ok, err = kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_RejectsBrokenPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"zero amount":    `[{"id":1,"amount":0}]`,
		"negative":       `[{"id":1,"amount":-2}]`,
		"duplicate item": `[{"id":1,"amount":1},{"id":1,"amount":3}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(context.Background(), StorageKey, payload))

			_, err := NewRepository(kv, "").Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestRepository_NullPayloadIsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), StorageKey, "null"))

	c, err := NewRepository(kv, "").Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}
