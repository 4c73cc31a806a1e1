package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/tarana-storefront/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.List(), 5)

	p, ok := c.Get(12)
	require.True(t, ok)
	require.Equal(t, "Dashavatara Wall Frieze", p.Name)

	_, ok = c.Get(3)
	require.False(t, ok)

	require.Equal(t, []string{"All", "Sculpture", "Wall Art", "Furniture"}, c.Categories())
}

func TestFilter(t *testing.T) {
	c := Default()

	ids := func(ps []domain.Product) []int64 {
		out := make([]int64, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	require.Equal(t, []int64{1, 2, 4, 5, 12}, ids(c.Filter("", "")))
	require.Equal(t, []int64{1, 2, 4, 5, 12}, ids(c.Filter(AllCategories, "")))
	require.Equal(t, []int64{2, 12}, ids(c.Filter("Wall Art", "")))
	require.Equal(t, []int64{4}, ids(c.Filter("", "  MIRROR ")))
	require.Empty(t, c.Filter("Furniture", "elephant"))
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]domain.Product{{ID: 1}, {ID: 1}})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = New([]domain.Product{{ID: 1, Price: -1}})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":7,"name":"Jharokha","price":999,"category":"Wall Art","material":"Mango Wood","image":"/j.jpg","originalPrice":1200}]`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	p, ok := c.Get(7)
	require.True(t, ok)
	require.Equal(t, 17, Discount(p))

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestDiscount(t *testing.T) {
	require.Zero(t, Discount(domain.Product{Price: 100}))
	require.Zero(t, Discount(domain.Product{Price: 100, OriginalPrice: 80}))
	require.Equal(t, 50, Discount(domain.Product{Price: 50, OriginalPrice: 100}))
}
