// Package cart holds the shopping cart of a single client session and the rules for
// reconciling a requested quantity against remote stock.
package cart

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"rocketshoes-cart/model"
)

// Outcome classifies how an operation ended. Operations never return errors; failures have
// already been reported to the user through the Notifier.
type Outcome int

const (
	Committed Outcome = iota
	NoOp
	OutOfStock
	NotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case NoOp:
		return "noop"
	case OutOfStock:
		return "out_of_stock"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// UpdateProductAmount is the request to set a product's quantity.
type UpdateProductAmount struct {
	ProductID int64
	Amount    int
}

type Options struct {
	Stock      StockOracle
	Catalog    ProductCatalog
	Repository Repository
	Notifier   Notifier
	Logger     logrus.FieldLogger
}

// Store owns the cart. Readers get copies; the only writers are the three operations.
type Store struct {
	stock    StockOracle
	catalog  ProductCatalog
	repo     Repository
	notifier Notifier
	log      logrus.FieldLogger

	mu   sync.RWMutex
	cart model.Cart

	subMu   sync.Mutex
	subs    map[int]func(model.Cart)
	nextSub int

	// held from install to the end of delivery so subscribers see commits in order
	pubMu sync.Mutex

	// per-product mutexes, productID -> *sync.Mutex
	locks sync.Map
}

// New loads the persisted cart and returns a store ready for use.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Stock == nil || opts.Catalog == nil || opts.Repository == nil {
		return nil, errors.New("cart: stock oracle, catalog and repository are required")
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notification) {})
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Logger = l
	}

	c, err := opts.Repository.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &Store{
		stock:    opts.Stock,
		catalog:  opts.Catalog,
		repo:     opts.Repository,
		notifier: opts.Notifier,
		log:      opts.Logger,
		cart:     c,
		subs:     make(map[int]func(model.Cart)),
	}, nil
}

// Cart returns a snapshot of the current cart.
func (s *Store) Cart() model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// Subscribe calls fn with every committed cart, in commit order, until the returned func
// is called. fn must not call the store's mutating operations.
func (s *Store) Subscribe(fn func(model.Cart)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// AddProduct puts one more unit of productID in the cart if stock allows it.
func (s *Store) AddProduct(ctx context.Context, productID int64) Outcome {
	unlock := s.lockProduct(productID)
	defer unlock()

	log := s.log.WithField("product_id", productID)

	current := 0
	existing, inCart := s.item(productID)
	if inCart {
		current = existing.Amount
	}
	desired := current + 1

	st, err := s.lookupStock(ctx, productID)
	if err != nil {
		log.WithError(err).Warn("stock lookup failed")
		s.notifyError(MsgAddFailed)
		return Failed
	}
	if desired > st.Amount {
		log.WithField("stock", st.Amount).Info("add rejected, out of stock")
		s.notifyError(MsgOutOfStock)
		return OutOfStock
	}

	product := existing.Product
	if !inCart {
		product, err = s.catalog.Product(ctx, productID)
		if err == nil && product.ID != productID {
			err = errors.Errorf("catalog returned product %d", product.ID)
		}
		if err != nil {
			log.WithError(err).Warn("catalog lookup failed")
			s.notifyError(MsgAddFailed)
			return Failed
		}
	}

	s.commit(ctx, func(c model.Cart) model.Cart {
		if i, ok := c.Find(productID); ok {
			c[i].Amount = desired
			return c
		}
		return append(c, model.CartItem{Product: product, Amount: desired})
	})
	return Committed
}

// RemoveProduct drops productID from the cart. Removing an absent product is reported
// to the user as an error.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) Outcome {
	unlock := s.lockProduct(productID)
	defer unlock()

	if _, ok := s.item(productID); !ok {
		s.log.WithField("product_id", productID).Info("remove of product not in cart")
		s.notifyError(MsgRemoveFailed)
		return NotFound
	}

	s.commit(ctx, func(c model.Cart) model.Cart {
		out := c[:0]
		for _, it := range c {
			if it.ID != productID {
				out = append(out, it)
			}
		}
		return out
	})
	return Committed
}

// UpdateProductAmount sets the quantity of a product already in the cart.
// Non-positive amounts are ignored.
func (s *Store) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) Outcome {
	if req.Amount <= 0 {
		return NoOp
	}

	unlock := s.lockProduct(req.ProductID)
	defer unlock()

	log := s.log.WithFields(logrus.Fields{"product_id": req.ProductID, "amount": req.Amount})

	if _, ok := s.item(req.ProductID); !ok {
		log.Warn("update of product not in cart")
		s.notifyError(MsgUpdateFailed)
		return Failed
	}

	st, err := s.lookupStock(ctx, req.ProductID)
	if err != nil {
		log.WithError(err).Warn("stock lookup failed")
		s.notifyError(MsgUpdateFailed)
		return Failed
	}
	if req.Amount > st.Amount {
		log.WithField("stock", st.Amount).Info("update rejected, out of stock")
		s.notifyError(MsgOutOfStock)
		return OutOfStock
	}

	s.commit(ctx, func(c model.Cart) model.Cart {
		if i, ok := c.Find(req.ProductID); ok {
			c[i].Amount = req.Amount
		}
		return c
	})
	return Committed
}

// Clear empties the cart and drops the stored payload.
func (s *Store) Clear(ctx context.Context) Outcome {
	s.mu.Lock()
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return NoOp
	}
	s.cart = model.Cart{}
	if err := s.repo.Clear(ctx); err != nil {
		s.log.WithError(err).Error("clear stored cart")
	}
	s.release(model.Cart{})

	s.notifier.Notify(Notification{Level: LevelInfo, Message: MsgCleared})
	return Committed
}

func (s *Store) lookupStock(ctx context.Context, productID int64) (model.Stock, error) {
	st, err := s.stock.Stock(ctx, productID)
	if err != nil {
		return model.Stock{}, err
	}
	if st.ID != productID {
		return model.Stock{}, errors.Errorf("stock api returned product %d", st.ID)
	}
	return st, nil
}

func (s *Store) item(productID int64) (model.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.cart.Find(productID); ok {
		return s.cart[i], true
	}
	return model.CartItem{}, false
}

// commit applies mutate to a copy of the current cart, installs the result, persists it
// and publishes it. A failed save is logged; the in-memory cart stays committed.
func (s *Store) commit(ctx context.Context, mutate func(model.Cart) model.Cart) {
	s.mu.Lock()
	next := mutate(s.cart.Clone())
	s.cart = next
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.WithError(err).Error("persist cart")
	}
	s.release(next.Clone())
}

// release must be called with s.mu held. It unlocks s.mu and delivers snapshot; pubMu is
// taken before unlocking so the next commit cannot overtake this delivery.
func (s *Store) release(snapshot model.Cart) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(snapshot)
}

func (s *Store) publish(c model.Cart) {
	s.subMu.Lock()
	fns := make([]func(model.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c.Clone())
	}
}

func (s *Store) notifyError(msg string) {
	s.notifier.Notify(Notification{Level: LevelError, Message: msg})
}

// lockProduct serializes operations on the same product. Returns the unlock func.
func (s *Store) lockProduct(productID int64) func() {
	v, _ := s.locks.LoadOrStore(productID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
