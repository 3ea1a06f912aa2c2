package main

// Catalog and stock API queried by the cart.
//
// GET  /products       - list products
// POST /products       - create a product with its initial stock
// GET  /products/{id}  - one product
// GET  /stock/{id}     - available units of a product
// PUT  /stock/{id}     - set available units

import (
	"context"
	_ "embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"rocketshoes-cart/config"
	"rocketshoes-cart/handler"
	"rocketshoes-cart/logger"
	"rocketshoes-cart/service"
	"rocketshoes-cart/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg, err := config.Load(os.Getenv("CART_CONFIG"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log, err := logger.New(logger.Options{Service: "catalog-api", Level: cfg.Log.Level, Format: cfg.Log.Format, Out: os.Stdout})
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// --- Store ---
	st, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer st.Close()

	// --- Migrations ---
	if _, err := st.DB.Exec(migrationSQL); err != nil {
		log.Fatalf("failed running migrations: %v", err)
	}
	log.Info("database migrations executed")

	// --- Service / Handlers ---
	var svc service.ServiceInterface = service.NewService(st)
	h := handler.NewHandler(svc, log)

	r := mux.NewRouter()
	r.Use(handler.Logging(log))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("received shutdown signal, draining connections")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.Infof("server running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
