package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	cartapp "github.com/shoplite/retail-checkout/internal/cart/app"
	cartmem "github.com/shoplite/retail-checkout/internal/cart/infra/memory"
	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	catalogmem "github.com/shoplite/retail-checkout/internal/catalog/infra/memory"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
	"github.com/shoplite/retail-checkout/internal/checkout/infra/adapter"
	"github.com/shoplite/retail-checkout/internal/rest"
	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
	walletmem "github.com/shoplite/retail-checkout/internal/wallet/infra/memory"
	"github.com/shoplite/retail-checkout/pkg/config"
	"github.com/shoplite/retail-checkout/pkg/logger"
	"github.com/shoplite/retail-checkout/pkg/metrics"
	"github.com/shoplite/retail-checkout/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "checkout-api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Catalog
	catalogRepo := catalogmem.NewProductRepo()
	catalogSvc := catalogapp.NewService(catalogRepo)

	// Cart (validates adds against the live catalog)
	cartRepo := cartmem.NewCartRepo()
	cartSvc := cartapp.NewService(cartRepo, catalogSvc)

	// Wallet
	walletRepo := walletmem.NewCustomerRepo()
	walletSvc := walletapp.NewService(walletRepo)

	// Checkout (adapters)
	checkoutMetrics := metrics.NewCheckoutMetrics(nil)
	checkoutSvc := checkoutapp.NewService(
		adapter.NewCartServiceReader(cartSvc),
		adapter.NewCatalogServiceStore(catalogSvc),
		adapter.NewWalletServiceAdapter(walletSvc),
		cfg.CheckoutMaxConcurrent,
		log,
		checkoutMetrics,
	)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Handle("/metrics", metrics.Handler())
	rest.NewServer(catalogSvc, cartSvc, walletSvc, checkoutSvc, log).Routes(router)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownGraceSeconds)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
