package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocketshoes-cart/model"
)

var catalog = map[int64]struct {
	product model.Product
	stock   int
}{
	1: {model.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: "1.jpg"}, 3},
	2: {model.Product{ID: 2, Title: "Tênis VR Caminhada Confortável", Price: 139.9, Image: "2.jpg"}, 1},
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	lookup := func(w http.ResponseWriter, r *http.Request) (int64, bool) {
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if _, ok := catalog[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return 0, false
		}
		return id, true
	}
	r.HandleFunc("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := lookup(w, r); ok {
			json.NewEncoder(w).Encode(model.Stock{ID: id, Amount: catalog[id].stock})
		}
	})
	r.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := lookup(w, r); ok {
			json.NewEncoder(w).Encode(catalog[id].product)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// setup writes a config pointing at a fresh API and sqlite file.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("CART_STORAGE", "sqlite")
	srv := fakeAPI(t)
	dir := t.TempDir()
	cfg := fmt.Sprintf("api_url: %s\nsqlite_path: %s\nlog:\n  level: error\n", srv.URL, filepath.Join(dir, "cart.db"))
	path := filepath.Join(dir, "cart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type response struct {
	Status string   `json:"status"`
	Data   CartView `json:"data"`
	Error  *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details CartView `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, out string) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "cart", cmd.Use)
	for _, name := range []string{"list", "add", "remove", "update", "clear"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	f := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
}

func TestAddPersistsAcrossInvocations(t *testing.T) {
	cfg := setup(t)

	_, _, err := run(t, cfg, "add", "1")
	require.NoError(t, err)
	_, _, err = run(t, cfg, "add", "2")
	require.NoError(t, err)
	out, _, err := run(t, cfg, "--format", "json", "add", "1")
	require.NoError(t, err)

	r := decode(t, out)
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "committed", r.Data.Outcome)

	out, _, err = run(t, cfg, "--format", "json", "list")
	require.NoError(t, err)
	r = decode(t, out)
	require.Len(t, r.Data.Items, 2)
	assert.Equal(t, int64(1), r.Data.Items[0].ID)
	assert.Equal(t, 2, r.Data.Items[0].Amount)
	assert.Equal(t, int64(2), r.Data.Items[1].ID)
	assert.Equal(t, 1, r.Data.Items[1].Amount)
	assert.Equal(t, 2, r.Data.Size)
	assert.InDelta(t, 2*179.9+139.9, r.Data.Total, 1e-9)
}

func TestAddOutOfStockExitsWithFailure(t *testing.T) {
	cfg := setup(t)

	_, _, err := run(t, cfg, "add", "2")
	require.NoError(t, err)
	_, stderr, err := run(t, cfg, "add", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "error: requested quantity out of stock")

	out, _, err := run(t, cfg, "--format", "json", "list")
	require.NoError(t, err)
	assert.Equal(t, 1, decode(t, out).Data.Items[0].Amount)
}

func TestRemoveAbsentReportsJSONError(t *testing.T) {
	cfg := setup(t)

	out, _, err := run(t, cfg, "--format", "json", "remove", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	r := decode(t, out)
	assert.Equal(t, "error", r.Status)
	require.NotNil(t, r.Error)
	assert.Equal(t, "not_found", r.Error.Code)
	assert.Equal(t, "error removing product", r.Error.Message)
	assert.Equal(t, []string{"error removing product"}, r.Error.Details.Notifications)
}

func TestUpdateAndRemove(t *testing.T) {
	cfg := setup(t)

	_, _, err := run(t, cfg, "add", "1")
	require.NoError(t, err)

	out, _, err := run(t, cfg, "--format", "json", "update", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, "noop", decode(t, out).Data.Outcome)

	out, _, err = run(t, cfg, "--format", "json", "update", "1", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, decode(t, out).Data.Items[0].Amount)

	_, _, err = run(t, cfg, "update", "1", "4")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, _, err = run(t, cfg, "remove", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")
}

func TestClear(t *testing.T) {
	cfg := setup(t)
	_, _, err := run(t, cfg, "add", "1")
	require.NoError(t, err)
	_, _, err = run(t, cfg, "add", "2")
	require.NoError(t, err)

	_, stderr, err := run(t, cfg, "clear")
	require.NoError(t, err)
	assert.Contains(t, stderr, "info: cart emptied")

	out, _, err := run(t, cfg, "--format", "json", "clear")
	require.NoError(t, err)
	assert.Equal(t, "noop", decode(t, out).Data.Outcome)

	out, _, err = run(t, cfg, "--format", "json", "list")
	require.NoError(t, err)
	assert.Empty(t, decode(t, out).Data.Items)
}

func TestTextList(t *testing.T) {
	cfg := setup(t)
	_, _, err := run(t, cfg, "add", "1")
	require.NoError(t, err)

	out, _, err := run(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tênis de Caminhada Leve Confortável")
	assert.Contains(t, out, "1 product(s), total R$ 179,90")
}

func TestCommandErrors(t *testing.T) {
	cfg := setup(t)

	cases := [][]string{
		{"add", "abc"},
		{"add", "0"},
		{"update", "1", "many"},
		{"--format", "xml", "list"},
	}
	for _, args := range cases {
		_, _, err := run(t, cfg, args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, ExitCommandError, GetExitCode(err), "%v", args)
	}

	t.Setenv("CART_STORAGE", "etcd")
	_, _, err := run(t, cfg, "list")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "R$ 0,00", formatPrice(0))
	assert.Equal(t, "R$ 179,90", formatPrice(179.9))
	assert.Equal(t, "R$ 1.234,50", formatPrice(1234.5))
	assert.Equal(t, "R$ 1.000.000,00", formatPrice(1e6))
}
