package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiling/veiling-be/internal/models"
)

func newTestProducts(t *testing.T) (*Products, *Identity, *memProducts) {
	t.Helper()
	identity, _, _ := newTestIdentity(t)
	store := &memProducts{}
	svc := NewProducts(store, identity, nil)
	return svc, identity, store
}

func TestProducts_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("links the product to the seller", func(t *testing.T) {
		svc, identity, _ := newTestProducts(t)
		seller, err := identity.Register(ctx, sellerRegistration("s@biz.nl"))
		require.NoError(t, err)
		desc := "Red tulips, 50 stems"

		p, err := svc.Create(ctx, NewProduct{
			Name:        "Tulips",
			Description: &desc,
			Price:       12.5,
			Stock:       40,
			SellerEmail: "s@biz.nl",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, seller.ID, p.SellerID)
		assert.Equal(t, &desc, p.Description)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("buyer cannot own products", func(t *testing.T) {
		svc, identity, store := newTestProducts(t)
		reg := sellerRegistration("b@shop.nl")
		reg.Role = "Buyer"
		_, err := identity.Register(ctx, reg)
		require.NoError(t, err)

		_, err = svc.Create(ctx, NewProduct{Name: "Tulips", Price: 1, Stock: 1, SellerEmail: "b@shop.nl"})

		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorContains(t, err, "seller not found")
		assert.Empty(t, store.rows)
	})

	t.Run("unknown seller", func(t *testing.T) {
		svc, _, store := newTestProducts(t)

		_, err := svc.Create(ctx, NewProduct{Name: "Tulips", Price: 1, Stock: 1, SellerEmail: "ghost@biz.nl"})

		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Empty(t, store.rows)
	})

	invalid := map[string]NewProduct{
		"blank name":      {Name: " ", Price: 1, Stock: 1, SellerEmail: "s@biz.nl"},
		"negative price":  {Name: "Tulips", Price: -0.01, Stock: 1, SellerEmail: "s@biz.nl"},
		"negative stock":  {Name: "Tulips", Price: 1, Stock: -1, SellerEmail: "s@biz.nl"},
		"price too large": {Name: "Tulips", Price: 1e17, Stock: 1, SellerEmail: "s@biz.nl"},
		"stock too large": {Name: "Tulips", Price: 1, Stock: models.MaxProductStock + 1, SellerEmail: "s@biz.nl"},
		"no seller":       {Name: "Tulips", Price: 1, Stock: 1},
	}
	for name, input := range invalid {
		t.Run(name, func(t *testing.T) {
			svc, identity, store := newTestProducts(t)
			_, err := identity.Register(ctx, sellerRegistration("s@biz.nl"))
			require.NoError(t, err)

			_, err = svc.Create(ctx, input)

			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Empty(t, store.rows)
		})
	}
}

func TestProducts_List(t *testing.T) {
	ctx := context.Background()
	svc, identity, _ := newTestProducts(t)
	seller, err := identity.Register(ctx, sellerRegistration("s@biz.nl"))
	require.NoError(t, err)
	other, err := identity.Register(ctx, sellerRegistration("o@biz.nl"))
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Tulips", "Roses", "Lilies"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := svc.Create(ctx, NewProduct{Name: name, Price: 1, Stock: 1, SellerEmail: "s@biz.nl"})
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, NewProduct{Name: "Daisies", Price: 1, Stock: 1, SellerEmail: "o@biz.nl"})
	require.NoError(t, err)

	byID, err := svc.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, byID, 3)
	assert.Equal(t, "Lilies", byID[0].Name)
	assert.Equal(t, "Tulips", byID[2].Name)

	byEmail, err := svc.ListBySellerEmail(ctx, "s@biz.nl")
	require.NoError(t, err)
	assert.Equal(t, byID, byEmail)

	otherProducts, err := svc.ListBySeller(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherProducts, 1)

	_, err = svc.ListBySeller(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.ListBySellerEmail(ctx, "ghost@biz.nl")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
