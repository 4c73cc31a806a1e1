package usecase

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/example/tarana-storefront/internal/codec"
	"github.com/example/tarana-storefront/internal/domain"
)

const (
	DefaultCartKey      = "tarana_cart"
	DefaultMaxCartItems = 50
	defaultWriteTimeout = 3 * time.Second
)

// CartStoreConfig — zero values fall back to the defaults above.
type CartStoreConfig struct {
	Key          string
	MaxItems     int
	WriteTimeout time.Duration
	Clock        func() time.Time
}

// CartStore owns the cart. It is the only writer of the item list and of the
// durable copy under Key; consumers read snapshots and issue commands.
//
// Hydrate must run once before the store mirrors anything to storage.
// Subscribers are called in mutation order with their own snapshot. A
// subscriber may call back into the store; the resulting change is delivered
// after the current one.
type CartStore struct {
	storage      domain.CartStorage
	log          *slog.Logger
	key          string
	max          int
	writeTimeout time.Duration
	now          func() time.Time

	mu       sync.Mutex
	items    []domain.CartItem
	open     bool
	hydrated bool
	lastID   float64

	// snapshots waiting for delivery, drained by one goroutine at a time
	pending    []domain.Snapshot
	delivering bool

	subsMu   sync.Mutex
	subs     []subscriber
	nextSub  int
}

type subscriber struct {
	id int
	fn func(domain.Snapshot)
}

func NewCartStore(storage domain.CartStorage, cfg CartStoreConfig, log *slog.Logger) *CartStore {
	if cfg.Key == "" {
		cfg.Key = DefaultCartKey
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxCartItems
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &CartStore{
		storage:      storage,
		log:          log.With(slog.String("component", "cart_store")),
		key:          cfg.Key,
		max:          cfg.MaxItems,
		writeTimeout: cfg.WriteTimeout,
		now:          cfg.Clock,
		items:        []domain.CartItem{},
	}
}

// Hydrate replaces the in-memory cart with the validated durable copy.
// Only the first call has an effect.
func (s *CartStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.items = s.load(ctx)
	for _, it := range s.items {
		if it.CartID > s.lastID {
			s.lastID = it.CartID
		}
	}
	s.hydrated = true
	s.log.Info("cart hydrated", slog.Int("items", len(s.items)))
	s.unlockAndNotify()
}

func (s *CartStore) load(ctx context.Context) []domain.CartItem {
	empty := []domain.CartItem{}
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.Error("cart read failed", slog.String("key", s.key), slog.Any("err", err))
		return empty
	}
	if !ok {
		return empty
	}
	dec, err := codec.Decode(raw, s.max)
	if err != nil {
		s.log.Warn("discarding unreadable cart", slog.String("key", s.key), slog.Any("err", err))
		if err := s.storage.Delete(ctx, s.key); err != nil {
			s.log.Error("cart erase failed", slog.String("key", s.key), slog.Any("err", err))
		}
		return empty
	}
	if dec.Rejected > 0 || dec.Truncated > 0 {
		s.log.Warn("dropped stored cart items",
			slog.Int("rejected", dec.Rejected),
			slog.Int("truncated", dec.Truncated),
		)
	}
	return dec.Items
}

// AddToCart appends p as a new line and opens the cart. A full cart ignores
// the call and reports ok=false.
func (s *CartStore) AddToCart(ctx context.Context, p domain.Product) (item domain.CartItem, ok bool) {
	s.mu.Lock()
	if len(s.items) >= s.max {
		s.mu.Unlock()
		s.log.Warn("cart is full, add ignored", slog.Int64("product_id", p.ID), slog.Int("max", s.max))
		return domain.CartItem{}, false
	}
	item = codec.Sanitize(domain.NewCartItem(p, s.nextCartIDLocked()))
	s.items = append(s.items, item)
	s.open = true
	s.persistLocked(ctx)
	s.unlockAndNotify()
	return item, true
}

// RemoveFromCart drops the line with the given cart id. Unknown or
// non-finite ids are ignored.
func (s *CartStore) RemoveFromCart(ctx context.Context, cartID float64) {
	if math.IsNaN(cartID) || math.IsInf(cartID, 0) {
		return
	}
	s.mu.Lock()
	i := slices.IndexFunc(s.items, func(it domain.CartItem) bool { return it.CartID == cartID })
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persistLocked(ctx)
	s.unlockAndNotify()
}

func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = []domain.CartItem{}
	s.persistLocked(ctx)
	s.unlockAndNotify()
}

func (s *CartStore) OpenCart()  { s.setOpen(true) }
func (s *CartStore) CloseCart() { s.setOpen(false) }

func (s *CartStore) setOpen(open bool) {
	s.mu.Lock()
	if s.open == open {
		s.mu.Unlock()
		return
	}
	s.open = open
	s.unlockAndNotify()
}

// Cart returns a copy of the lines in insertion order.
func (s *CartStore) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *CartStore) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Total sums line prices; a stored price that is not a finite non-negative
// number counts as zero.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// InCart reports whether any line holds the product.
func (s *CartStore) InCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.items, func(it domain.CartItem) bool { return it.ID == productID })
}

// Ready reports whether Hydrate has completed.
func (s *CartStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *CartStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every state change and returns a func that
// removes it.
func (s *CartStore) Subscribe(fn func(domain.Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
		})
	}
}

func (s *CartStore) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Cart:       slices.Clone(s.items),
		IsCartOpen: s.open,
		CartTotal:  total(s.items),
		CartCount:  len(s.items),
	}
}

// unlockAndNotify queues the resulting state and releases mu. The first
// goroutine to find the queue idle delivers every queued snapshot in order,
// with mu released, so a subscriber that issues a command just queues
// another delivery.
func (s *CartStore) unlockAndNotify() {
	s.pending = append(s.pending, s.snapshotLocked())
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending[0] = domain.Snapshot{}
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.deliver(snap)
		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}

func (s *CartStore) deliver(snap domain.Snapshot) {
	s.subsMu.Lock()
	subs := slices.Clone(s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		own := snap
		own.Cart = slices.Clone(snap.Cart)
		sub.fn(own)
	}
}

// persistLocked mirrors the list to storage. Failures are logged; memory
// stays authoritative.
func (s *CartStore) persistLocked(ctx context.Context) {
	if !s.hydrated {
		return
	}
	raw, err := codec.Encode(s.items, s.max)
	if err != nil {
		s.log.Error("cart encode failed", slog.Any("err", err))
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()
	if err := s.storage.Set(wctx, s.key, raw); err != nil {
		s.log.Error("cart persist failed", slog.String("key", s.key), slog.Any("err", err))
	}
}

// nextCartIDLocked returns a millisecond timestamp, bumped past the last id
// handed out or loaded so ids stay unique within one millisecond. When the
// bump would leave the range codec reads back, it takes the first id from
// now on that no line holds.
func (s *CartStore) nextCartIDLocked() float64 {
	now := float64(s.now().UnixMilli())
	id := max(now, s.lastID+1)
	if id > codec.MaxCartID {
		id = now
		for slices.ContainsFunc(s.items, func(it domain.CartItem) bool { return it.CartID == id }) {
			id++
		}
		return id
	}
	s.lastID = id
	return id
}

func total(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += codec.SafePrice(it.Price)
	}
	return sum
}
