package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/example/tarana-storefront/internal/adapter/httpapi"
	"github.com/example/tarana-storefront/internal/adapter/natsstan"
	"github.com/example/tarana-storefront/internal/adapter/storage"
	"github.com/example/tarana-storefront/internal/catalog"
	"github.com/example/tarana-storefront/internal/config"
	"github.com/example/tarana-storefront/internal/domain"
	"github.com/example/tarana-storefront/internal/logger"
	"github.com/example/tarana-storefront/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	if err := run(cfg, log); err != nil {
		log.Error("storefront stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cartStorage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer closeStorage()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return err
		}
	}

	store := usecase.NewCartStore(cartStorage, usecase.CartStoreConfig{
		Key:          cfg.CartKey,
		MaxItems:     cfg.CartMaxItems,
		WriteTimeout: cfg.CartWriteTimeout,
	}, log)
	store.Subscribe(func(s domain.Snapshot) {
		log.Debug("cart changed", slog.Int("count", s.CartCount), slog.Float64("total", s.CartTotal), slog.Bool("open", s.IsCartOpen))
	})
	// hydrate before any consumer can reach the store
	store.Hydrate(ctx)

	co := usecase.Checkout{Brand: cfg.BrandName, Phone: cfg.WhatsAppNumber}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(store, cat, co, cfg.WebDir, log).Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.STANEnabled {
		sub := &natsstan.Subscriber{
			ClusterID: cfg.STANClusterID,
			ClientID:  cfg.STANClientID,
			URL:       cfg.NATSURL,
			Subject:   cfg.STANSubject,
			Durable:   cfg.STANDurable,
			Log:       log,
		}
		handler := commandHandler(usecase.ApplyCommand{Store: store, Catalog: cat}, log)
		if err := sub.Subscribe(gctx, handler); err != nil {
			// commands over NATS are optional; HTTP keeps serving
			log.Error("stan subscribe", slog.Any("err", err))
		} else {
			log.Info("subscribed to cart commands", slog.String("subject", cfg.STANSubject))
		}
	}
	return g.Wait()
}

// commandHandler acks commands that can never succeed so they are not
// redelivered forever.
func commandHandler(uc usecase.ApplyCommand, log *slog.Logger) func(ctx context.Context, raw []byte) error {
	return func(ctx context.Context, raw []byte) error {
		err := uc.Execute(ctx, raw)
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			log.Warn("dropping cart command", slog.Any("err", err))
			return nil
		}
		return err
	}
}

func openStorage(ctx context.Context, cfg config.Config) (domain.CartStorage, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryStorage(), noop, nil
	case "file":
		fs, err := storage.NewFileStorage(cfg.StorageDir)
		return fs, noop, err
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := storage.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return storage.NewPostgresStorage(pool), pool.Close, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, noop, err
		}
		return storage.NewRedisStorage(rdb), func() { _ = rdb.Close() }, nil
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := storage.EnsureMySQLSchema(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return storage.NewMySQLStorage(db), func() { _ = db.Close() }, nil
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, noop, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, err
		}
		return storage.NewMongoStorage(client, cfg.MongoDatabase), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
