package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/tarana-storefront/internal/domain"
)

// Command — one cart command from a remote consumer.
type Command struct {
	Op        string   `json:"op"`
	ProductID int64    `json:"productId,omitempty"`
	CartID    *float64 `json:"cartId,omitempty"`
}

const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpClear  = "clear"
	OpOpen   = "open"
	OpClose  = "close"
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Get(id int64) (domain.Product, bool)
}

// ApplyCommand decodes a raw command and runs it against the store.
// Malformed commands yield domain.ErrValidation, unknown products
// domain.ErrNotFound; neither touches the cart.
type ApplyCommand struct {
	Store   *CartStore
	Catalog ProductLookup
}

func (uc ApplyCommand) Execute(ctx context.Context, raw []byte) error {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", domain.ErrValidation)
	}
	switch cmd.Op {
	case OpAdd:
		p, ok := uc.Catalog.Get(cmd.ProductID)
		if !ok {
			return fmt.Errorf("product %d: %w", cmd.ProductID, domain.ErrNotFound)
		}
		uc.Store.AddToCart(ctx, p)
	case OpRemove:
		if cmd.CartID == nil {
			return fmt.Errorf("remove without cartId: %w", domain.ErrValidation)
		}
		uc.Store.RemoveFromCart(ctx, *cmd.CartID)
	case OpClear:
		uc.Store.ClearCart(ctx)
	case OpOpen:
		uc.Store.OpenCart()
	case OpClose:
		uc.Store.CloseCart()
	default:
		return fmt.Errorf("unknown op %q: %w", cmd.Op, domain.ErrValidation)
	}
	return nil
}
