package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/tarana-storefront/internal/adapter/storage"
	"github.com/example/tarana-storefront/internal/domain"
)

type fakeCatalog map[int64]domain.Product

func (f fakeCatalog) Get(id int64) (domain.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func TestApplyCommand(t *testing.T) {
	store := hydrated(t, storage.NewMemoryStorage())
	uc := ApplyCommand{Store: store, Catalog: fakeCatalog{1: elephant, 2: peacock}}
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, []byte(`{"op":"add","productId":1}`)))
	require.NoError(t, uc.Execute(ctx, []byte(`{"op":"add","productId":2}`)))
	require.Equal(t, 2, store.Count())
	require.True(t, store.IsOpen())

	require.NoError(t, uc.Execute(ctx, []byte(`{"op":"close"}`)))
	require.False(t, store.IsOpen())
	require.NoError(t, uc.Execute(ctx, []byte(`{"op":"open"}`)))
	require.True(t, store.IsOpen())

	first := store.Cart()[0].CartID
	require.NoError(t, uc.Execute(ctx, []byte(fmt.Sprintf(`{"op":"remove","cartId":%v}`, first))))
	require.Equal(t, peacock.ID, store.Cart()[0].ID)

	require.NoError(t, uc.Execute(ctx, []byte(`{"op":"clear"}`)))
	require.Zero(t, store.Count())
}

func TestApplyCommand_Rejects(t *testing.T) {
	store := hydrated(t, storage.NewMemoryStorage())
	uc := ApplyCommand{Store: store, Catalog: fakeCatalog{1: elephant}}
	ctx := context.Background()

	require.ErrorIs(t, uc.Execute(ctx, []byte(`garbage`)), domain.ErrValidation)
	require.ErrorIs(t, uc.Execute(ctx, []byte(`{"op":"explode"}`)), domain.ErrValidation)
	require.ErrorIs(t, uc.Execute(ctx, []byte(`{"op":"remove"}`)), domain.ErrValidation)
	require.ErrorIs(t, uc.Execute(ctx, []byte(`{"op":"remove","cartId":"x"}`)), domain.ErrValidation)
	require.ErrorIs(t, uc.Execute(ctx, []byte(`{"op":"add","productId":99}`)), domain.ErrNotFound)
	require.Zero(t, store.Count())
}
