//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

// Feature: Shopping cart
//
//	As a customer
//	I want items I add to appear in my cart
//	So that I can review them before checkout
func TestAddToCartUpdatesBadge(t *testing.T) {
	s := harness.Session(t)

	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))

	badge, err := product.CartBadge()
	require.NoError(t, err)
	require.Zero(t, badge, "cart should start empty")

	// When I add the product, the toast appears, then clears, and only
	// then is the badge asserted: no fixed sleeps anywhere.
	require.NoError(t, product.AddToCart())

	badge, err = product.CartBadge()
	require.NoError(t, err)
	assert.Equal(t, 1, badge)
}

func TestCartShowsLineItems(t *testing.T) {
	s := harness.Session(t)

	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))
	require.NoError(t, product.AddToCart())

	cart := s.Cart()
	require.NoError(t, cart.Open())

	items, err := cart.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Premium Widget", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "$1.00", items[0].Price)

	total, err := cart.Total()
	require.NoError(t, err)
	assert.Equal(t, "$1.00", total)
}

func TestCartQuantityUpdateRecalculatesTotal(t *testing.T) {
	s := harness.Session(t)

	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))
	require.NoError(t, product.AddToCart())

	cart := s.Cart()
	require.NoError(t, cart.Open())
	require.NoError(t, cart.SetQuantity("Premium Widget", 3))

	total, err := cart.Total()
	require.NoError(t, err)
	assert.Equal(t, "$3.00", total)
}

func TestRemoveFromCart(t *testing.T) {
	s := harness.Session(t)

	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))
	require.NoError(t, product.AddToCart())

	cart := s.Cart()
	require.NoError(t, cart.Open())
	require.NoError(t, cart.Remove("Premium Widget"))

	items, err := cart.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestToastAppearsAndDismissesItself(t *testing.T) {
	s := harness.Session(t)

	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))

	// Drive the toast by hand instead of through AddToCart so the message
	// can be read while it is up.
	toast := s.Toast()
	elem, err := product.Driver().FindElement(selenium.ByID, "add-to-cart")
	require.NoError(t, err)
	require.NoError(t, elem.Click())

	require.NoError(t, toast.WaitShown())
	msg, err := toast.Message()
	require.NoError(t, err)
	assert.Contains(t, msg, "added to cart")

	// The toast dismisses itself; polling bounds the wait.
	require.NoError(t, toast.WaitDismissed())
}
