package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bookshop/internal/config"
	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/bookshop/internal/middleware/logging"
	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/repo/gormrepo"
	"github.com/Skotchmaster/bookshop/internal/repo/memory"
	"github.com/Skotchmaster/bookshop/internal/search"
	"github.com/Skotchmaster/bookshop/internal/seed"
	"github.com/Skotchmaster/bookshop/internal/service"
	"github.com/Skotchmaster/bookshop/internal/tokens"
	httpserver "github.com/Skotchmaster/bookshop/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "bookshop")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, ready, err := openStore(ctx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("store: %v", err)
	}

	if cfg.Seed {
		if err := seed.Run(ctx, store); err != nil {
			cancel()
			log.Fatalf("seed: %v", err)
		}
		logger.Info("seed data loaded")
	}

	searcher, err := newSearcher(ctx, cfg, store, logger)
	cancel()
	if err != nil {
		log.Fatalf("search: %v", err)
	}

	tm, err := tokens.NewManager(tokens.Config{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publisher = prod
		logger.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users: store.Users, Tokens: tm, Events: publisher,
		}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Books: store.Books, Users: store.Users, Searcher: searcher,
		}},
		Review: &httpserver.ReviewHTTP{Svc: &service.ReviewService{
			Books: store.Books, Reviews: store.Reviews, Events: publisher,
		}},
		Cart: &httpserver.CartHTTP{Svc: &service.CartService{
			Users: store.Users, Books: store.Books, Carts: store.Carts, Events: publisher,
		}},
		Guard: auth.NewGuard(tm),
		Ready: ready,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("bookshop listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("close publisher", "error", err)
	}
	if err := closeStore(); err != nil {
		logger.Error("close store", "error", err)
	}

	logger.Info("bookshop stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (repo.Store, func() error, func(context.Context) error, error) {
	if cfg.StoreDriver != config.StoreSQLite {
		return memory.NewStore(), func() error { return nil }, nil, nil
	}

	db, err := gormrepo.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		return repo.Store{}, nil, nil, err
	}
	ready := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return gormrepo.NewStore(db), func() error { return gormrepo.Close(db) }, ready, nil
}

// newSearcher uses Elasticsearch when ES_URL is set and indexes the current
// catalog into it; otherwise books are searched in the store.
func newSearcher(ctx context.Context, cfg *config.Config, store repo.Store, logger *slog.Logger) (search.Searcher, error) {
	if cfg.ESURL == "" {
		return &search.Catalog{Books: store.Books}, nil
	}

	client, err := search.NewElasticClient(search.ElasticConfig{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
	}, logger)
	if err != nil {
		return nil, err
	}

	es := &search.Elastic{Client: client, Index: cfg.ESIndex}
	books, err := store.Books.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := es.IndexBooks(ctx, books); err != nil {
		return nil, err
	}
	logger.Info("books indexed", "index", cfg.ESIndex, "count", len(books))
	return es, nil
}
