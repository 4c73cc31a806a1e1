// Package codec guards the boundary between the in-memory cart and durable
// storage. Everything read back from storage is untrusted: it is validated
// field by field, sanitized and capped before it becomes a domain.CartItem.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/example/tarana-storefront/internal/domain"
)

// Field limits. Validation rejects an item over the Max*Len limits for name,
// category and material; Sanitize truncates every text field to its limit.
const (
	MaxNameLen     = 200
	MaxCategoryLen = 100
	MaxMaterialLen = 100
	MaxImageLen    = 500
	MaxTagLen      = 50

	// MaxCartID is the largest cart id magnitude that survives a JSON round
	// trip exactly. Stored ids beyond it are rejected.
	MaxCartID = maxSafeInteger

	maxSafeInteger = 1<<53 - 1
)

var (
	// ErrCorrupt means the stored payload is not parseable JSON.
	ErrCorrupt = errors.New("corrupt cart payload")
	// ErrNotList means the payload is JSON but not an array.
	ErrNotList = errors.New("cart payload is not a list")
)

// RejectionError explains why a stored entry was not accepted as a cart item.
type RejectionError struct {
	Field  string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected cart item: %s %s", e.Field, e.Reason)
}

// Unwrap lets callers match any rejection with errors.Is(err, domain.ErrValidation).
func (e *RejectionError) Unwrap() error { return domain.ErrValidation }

func reject(field, reason string) error {
	return &RejectionError{Field: field, Reason: reason}
}

// Validate checks the structural contract of a decoded cart entry.
// A negative price passes; Sanitize coerces it to zero.
func Validate(fields map[string]any) error {
	for _, f := range []string{"id", "cartId", "price"} {
		v, ok := fields[f].(float64)
		if !ok {
			return reject(f, "is not a number")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return reject(f, "is not finite")
		}
	}
	if id := fields["id"].(float64); id != math.Trunc(id) || math.Abs(id) > maxSafeInteger {
		return reject("id", "is not an integer")
	}
	if math.Abs(fields["cartId"].(float64)) > MaxCartID {
		return reject("cartId", "is out of range")
	}
	limits := []struct {
		field string
		max   int
	}{
		{"name", MaxNameLen},
		{"category", MaxCategoryLen},
		{"material", MaxMaterialLen},
		{"image", 0},
	}
	for _, l := range limits {
		s, ok := fields[l.field].(string)
		if !ok {
			return reject(l.field, "is not a string")
		}
		if l.max > 0 && utf8.RuneCountInString(s) > l.max {
			return reject(l.field, fmt.Sprintf("is longer than %d characters", l.max))
		}
	}
	return nil
}

// Sanitize clamps text fields and coerces the price to a finite,
// non-negative number. Invalid UTF-8 becomes U+FFFD, the same text Encode
// would write. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(item domain.CartItem) domain.CartItem {
	item.Name = truncate(item.Name, MaxNameLen)
	item.Category = truncate(item.Category, MaxCategoryLen)
	item.Material = truncate(item.Material, MaxMaterialLen)
	item.Image = truncate(item.Image, MaxImageLen)
	item.Tag = truncate(item.Tag, MaxTagLen)
	item.Price = SafePrice(item.Price)
	return item
}

// SafePrice maps NaN, infinities and negative values to zero.
func SafePrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// ParseItem validates one raw stored entry and returns the sanitized item.
func ParseItem(raw json.RawMessage) (domain.CartItem, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.CartItem{}, reject("item", "is not an object")
	}
	if fields == nil {
		return domain.CartItem{}, reject("item", "is null")
	}
	if err := Validate(fields); err != nil {
		return domain.CartItem{}, err
	}
	item := domain.CartItem{
		ID:       int64(fields["id"].(float64)),
		CartID:   fields["cartId"].(float64),
		Name:     fields["name"].(string),
		Price:    fields["price"].(float64),
		Category: fields["category"].(string),
		Material: fields["material"].(string),
		Image:    fields["image"].(string),
	}
	if tag, ok := fields["tag"].(string); ok {
		item.Tag = tag
	}
	return Sanitize(item), nil
}

// Decoded is the outcome of reading a stored cart.
type Decoded struct {
	Items     []domain.CartItem
	Rejected  int
	Truncated int
}

// Decode parses a stored payload. It returns ErrCorrupt when raw is not JSON
// and ErrNotList when it is JSON of another shape. Invalid entries and
// repeated cart ids are dropped and counted; survivors are capped at max.
func Decode(raw string, max int) (Decoded, error) {
	max = clampMax(max)
	if !json.Valid([]byte(raw)) {
		return Decoded{}, ErrCorrupt
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		return Decoded{}, ErrNotList
	}
	out := Decoded{Items: make([]domain.CartItem, 0, min(len(entries), max))}
	seen := make(map[float64]struct{}, len(entries))
	for _, e := range entries {
		item, err := ParseItem(e)
		if err != nil {
			out.Rejected++
			continue
		}
		if _, dup := seen[item.CartID]; dup {
			out.Rejected++
			continue
		}
		seen[item.CartID] = struct{}{}
		if len(out.Items) >= max {
			out.Truncated++
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// Encode sanitizes and caps items and returns the JSON array to store.
func Encode(items []domain.CartItem, max int) (string, error) {
	max = clampMax(max)
	if len(items) > max {
		items = items[:max]
	}
	clean := make([]domain.CartItem, len(items))
	for i, it := range items {
		clean[i] = Sanitize(it)
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}

func clampMax(max int) int {
	if max < 0 {
		return 0
	}
	return max
}
