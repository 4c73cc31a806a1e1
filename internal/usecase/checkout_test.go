package usecase

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/tarana-storefront/internal/adapter/storage"
	"github.com/example/tarana-storefront/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1250, "₹1,250"},
		{850, "₹850"},
		{0, "₹0"},
		{-50, "₹0"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckoutMessage(t *testing.T) {
	store := hydrated(t, storage.NewMemoryStorage())
	store.AddToCart(context.Background(), elephant)
	store.AddToCart(context.Background(), peacock)

	c := Checkout{Brand: "Tarana Handicrafts", Phone: "919509669135"}
	msg, err := c.Message(store.Snapshot())
	require.NoError(t, err)
	require.Equal(t, `*Tarana Handicrafts - Order Inquiry*

I am interested in the following pieces:
1. Elephant (Teak) - ₹1,250
2. Peacock Panel (Rosewood) - ₹850

*Total Estimate: ₹2,100*

Please confirm availability and shipping timelines.`, msg)

	again, err := c.Message(store.Snapshot())
	require.NoError(t, err)
	require.Equal(t, msg, again)
	require.Equal(t, 2, store.Count(), "checkout must not touch the cart")
}

func TestCheckoutLink(t *testing.T) {
	store := hydrated(t, storage.NewMemoryStorage())
	p := elephant
	p.Name = "Ganesha & Sons #1"
	store.AddToCart(context.Background(), p)

	c := Checkout{Brand: "Tarana Handicrafts", Phone: "919509669135"}
	link, err := c.Link(store.Snapshot())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/919509669135?text="))
	require.NotContains(t, link, "+")
	require.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	msg, _ := c.Message(store.Snapshot())
	require.Equal(t, msg, u.Query().Get("text"))
}

func TestCheckoutHandoff(t *testing.T) {
	store := hydrated(t, storage.NewMemoryStorage())
	store.AddToCart(context.Background(), elephant)
	store.AddToCart(context.Background(), peacock)

	c := Checkout{Brand: "Tarana Handicrafts", Phone: "919509669135"}
	msg, link, err := c.Handoff(store.Snapshot())
	require.NoError(t, err)

	wantMsg, err := c.Message(store.Snapshot())
	require.NoError(t, err)
	wantLink, err := c.Link(store.Snapshot())
	require.NoError(t, err)
	require.Equal(t, wantMsg, msg)
	require.Equal(t, wantLink, link)

	_, _, err = c.Handoff(domain.Snapshot{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := Checkout{Brand: "Tarana Handicrafts", Phone: "919509669135"}
	_, err := c.Message(domain.Snapshot{})
	require.ErrorIs(t, err, ErrEmptyCart)
	_, err = c.Link(domain.Snapshot{Cart: []domain.CartItem{}})
	require.ErrorIs(t, err, ErrEmptyCart)
}
