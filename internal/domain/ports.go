package domain

import "context"

// CartStorage — durable key-value storage the cart is mirrored to.
// Values are opaque text; Get reports ok=false for a missing key.
type CartStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CommandSubscriber — source of cart commands from remote consumers.
type CommandSubscriber interface {
	// Subscribe registers the handler; ack and redelivery are up to the adapter.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }
