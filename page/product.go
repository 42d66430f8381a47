package page

import (
	"fmt"
	"strconv"
)

// Product is a single product's detail page.
type Product struct {
	Page
}

// NewProduct binds the product page object to a session.
func NewProduct(p Page) *Product {
	return &Product{Page: p}
}

// Open navigates straight to a product by its URL slug.
func (pr *Product) Open(slug string) error {
	if err := pr.Visit("/products/" + slug); err != nil {
		return err
	}
	return pr.WaitLoaded()
}

// WaitLoaded polls until the product detail layout is on screen.
func (pr *Product) WaitLoaded() error {
	return pr.css(".product-detail .product-name", "product title").WaitVisible()
}

// Name returns the displayed product name.
func (pr *Product) Name() (string, error) {
	return pr.css(".product-detail .product-name", "product title").Text()
}

// Price returns the displayed price string, e.g. "$19.99".
func (pr *Product) Price() (string, error) {
	return pr.css(".product-detail .product-price", "product price").Text()
}

// SetQuantity fills the quantity field.
func (pr *Product) SetQuantity(n int) error {
	return pr.id("quantity", "quantity field").SendKeys(strconv.Itoa(n))
}

// AddToCart clicks the add-to-cart button and waits for the confirmation
// toast to appear and then clear, so subsequent steps never race the
// notification overlay.
func (pr *Product) AddToCart() error {
	if err := pr.id("add-to-cart", "add-to-cart button").Click(); err != nil {
		return fmt.Errorf("adding to cart: %w", err)
	}
	toast := NewToast(pr.Page)
	if err := toast.WaitShown(); err != nil {
		return err
	}
	return toast.WaitDismissed()
}

// CartBadge returns the navigation cart count.
func (pr *Product) CartBadge() (int, error) {
	return cartBadge(pr.Page)
}

// cartBadge is shared by every page showing the navigation bar. A missing
// or hidden badge reads as zero.
func cartBadge(p Page) (int, error) {
	badge := p.css(".cart-count", "cart badge")
	visible, err := badge.Visible()
	if err != nil || !visible {
		return 0, err
	}
	text, err := badge.Text()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("cart badge reads %q, not a count: %w", text, err)
	}
	return n, nil
}
