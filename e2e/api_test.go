//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storewalk/api"
)

// Feature: Storefront API smoke checks
//
// These run against the same deployment as the browser specs and catch
// backend breakage without paying for a browser session.
func TestAPIHealth(t *testing.T) {
	client := api.New(harness.Cfg.API())
	require.NoError(t, client.Health(t.Context()))
}

func TestAPIProductDetailMatchesList(t *testing.T) {
	client := api.New(harness.Cfg.API())
	ctx := t.Context()

	products, err := client.Products(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	first, err := client.Product(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, products[0].Name, first.Name)
	assert.Equal(t, products[0].Price, first.Price)
}

func TestAPICartRoundTrip(t *testing.T) {
	client := api.New(harness.Cfg.API())
	ctx := t.Context()

	products, err := client.Products(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	cart, err := client.CreateCart(ctx)
	require.NoError(t, err)

	cart, err = client.AddToCart(ctx, cart.ID, api.CartItem{
		ProductID: products[0].ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	got, err := client.Cart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)
}
