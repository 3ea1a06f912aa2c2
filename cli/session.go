package cli

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rocketshoes-cart/cart"
	"rocketshoes-cart/client"
	"rocketshoes-cart/config"
	"rocketshoes-cart/logger"
	"rocketshoes-cart/notify"
	"rocketshoes-cart/storage"
)

const redisPrefix = "rocketshoes:"

// session is one invocation's cart: config, storage and the store on top.
type session struct {
	store *cart.Store
	kv    storage.KV
	out   *OutputFormatter
	log   *logrus.Logger

	mu    sync.Mutex
	notes []string
}

func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Service: "cart",
		Level:   level,
		Format:  cfg.Log.Format,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open storage", err)
	}

	s := &session{
		kv:  kv,
		log: log,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}

	notifiers := notify.Multi{cart.NotifierFunc(s.collect)}
	if opts.Format == "text" {
		notifiers = append(notifiers, notify.NewWriter(s.out.ErrWriter))
	}
	if opts.Verbose {
		notifiers = append(notifiers, notify.Log{L: log})
	}

	api := client.New(cfg.APIURL, client.Options{Timeout: cfg.Timeout, Logger: log})
	s.store, err = cart.New(ctx, cart.Options{
		Stock:      api,
		Catalog:    api,
		Repository: cart.NewRepository(kv, cfg.StorageKey),
		Notifier:   notifiers,
		Logger:     log,
	})
	if err != nil {
		kv.Close()
		return nil, WrapExitError(ExitCommandError, "load cart", err)
	}
	log.WithFields(logrus.Fields{"storage": cfg.Storage, "api": cfg.APIURL}).Debug("session ready")
	return s, nil
}

func openKV(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		r, err := storage.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB, redisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.StorageMemory:
		return storage.NewMemory(), nil
	default:
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

func (s *session) collect(n cart.Notification) {
	s.mu.Lock()
	s.notes = append(s.notes, n.Message)
	s.mu.Unlock()
}

func (s *session) close() {
	if err := s.kv.Close(); err != nil {
		s.log.WithError(err).Warn("close storage")
	}
}

// report prints the cart after op and turns rejections into exit code 1.
func (s *session) report(outcome cart.Outcome) error {
	view := newCartView(s.store.Cart())
	view.Outcome = outcome.String()
	s.mu.Lock()
	view.Notifications = append([]string(nil), s.notes...)
	s.mu.Unlock()

	switch outcome {
	case cart.Committed, cart.NoOp:
		return s.out.Success(view)
	}

	msg := outcome.String()
	if len(view.Notifications) > 0 {
		msg = view.Notifications[0]
	}
	if s.out.Format == "json" {
		if err := s.out.Error(outcome.String(), msg, view); err != nil {
			return err
		}
	}
	return NewExitError(ExitFailure, msg)
}
