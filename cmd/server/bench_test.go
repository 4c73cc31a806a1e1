package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/tarana-storefront/internal/adapter/httpapi"
	"github.com/example/tarana-storefront/internal/adapter/storage"
	"github.com/example/tarana-storefront/internal/catalog"
	"github.com/example/tarana-storefront/internal/usecase"
)

func BenchmarkGetCart(b *testing.B) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.Default()
	store := usecase.NewCartStore(storage.NewMemoryStorage(), usecase.CartStoreConfig{}, log)
	store.Hydrate(context.Background())
	for _, p := range cat.List() {
		store.AddToCart(context.Background(), p)
	}
	router := httpapi.NewServer(store, cat, usecase.Checkout{}, "", log).Router

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
		}
	})
}

func BenchmarkAddRemove(b *testing.B) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := usecase.NewCartStore(storage.NewMemoryStorage(), usecase.CartStoreConfig{}, log)
	store.Hydrate(context.Background())
	p, _ := catalog.Default().Get(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		item, _ := store.AddToCart(context.Background(), p)
		store.RemoveFromCart(context.Background(), item.CartID)
	}
}
