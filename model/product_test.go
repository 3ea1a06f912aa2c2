package model

import (
	"encoding/json"
	"testing"
)

func TestCartFindAndTotals(t *testing.T) {
	c := Cart{
		{Product: Product{ID: 1, Title: "a", Price: 10}, Amount: 2},
		{Product: Product{ID: 3, Title: "b", Price: 2.5}, Amount: 4},
	}

	if i, ok := c.Find(3); !ok || i != 1 {
		t.Fatalf("expected product 3 at 1, got %d %v", i, ok)
	}
	if _, ok := c.Find(9); ok {
		t.Fatalf("expected product 9 to be absent")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	if c.Total() != 30 {
		t.Fatalf("expected total 30, got %v", c.Total())
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	c := Cart{{Product: Product{ID: 1}, Amount: 1}}
	cp := c.Clone()
	cp[0].Amount = 5
	if c[0].Amount != 1 {
		t.Fatalf("clone shares backing array with original")
	}
}

func TestCartItemJSONIsFlat(t *testing.T) {
	it := CartItem{Product: Product{ID: 2, Title: "Tênis", Price: 139.9, Image: "x.jpg"}, Amount: 3}
	b, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":2,"title":"Tênis","price":139.9,"image":"x.jpg","amount":3}`
	if string(b) != want {
		t.Fatalf("unexpected json\n got %s\nwant %s", b, want)
	}
}
