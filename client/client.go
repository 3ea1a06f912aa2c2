// Package client talks to the catalog API: GET /stock/{id} and GET /products/{id}.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"rocketshoes-cart/model"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is any other non-2xx answer.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.Code)
}

const maxBody = 1 << 20

type Options struct {
	// Timeout bounds a single request. Defaults to 5s.
	Timeout time.Duration
	// BreakerTimeout is how long the breaker stays open before probing again. Defaults to 30s.
	BreakerTimeout time.Duration
	HTTPClient     *http.Client
	Logger         logrus.FieldLogger
}

// Client implements cart.StockOracle and cart.ProductCatalog. It never retries.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	sf      singleflight.Group
	log     logrus.FieldLogger
}

func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Logger = l
	}

	log := opts.Logger
	st := gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing product is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("circuit breaker %s changed from %s to %s", name, from, to)
		},
	}

	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    opts.HTTPClient,
		timeout: opts.Timeout,
		cb:      gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

func (c *Client) Stock(ctx context.Context, productID int64) (model.Stock, error) {
	var st model.Stock
	if err := c.get(ctx, fmt.Sprintf("/stock/%d", productID), &st); err != nil {
		return model.Stock{}, errors.Wrapf(err, "stock of product %d", productID)
	}
	return st, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", productID), &p); err != nil {
		return model.Product{}, errors.Wrapf(err, "product %d", productID)
	}
	return p, nil
}

// get collapses identical concurrent requests and decodes the JSON body into out.
// The shared request ignores the first caller's cancellation and is bounded by the
// client timeout; each caller still stops waiting when its own ctx is done.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	shared := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(path, func() (interface{}, error) {
		return c.cb.Execute(func() (interface{}, error) {
			return c.fetch(shared, path)
		})
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "GET %s", path)
	}
	if res.Err != nil {
		return res.Err
	}
	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Debug("catalog api response")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return body, nil
}
