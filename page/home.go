package page

import (
	"fmt"

	"github.com/tebeka/selenium"
)

// Home is the storefront landing page with the product catalog.
type Home struct {
	Page
}

// NewHome binds the home page object to a session.
func NewHome(p Page) *Home {
	return &Home{Page: p}
}

// Open navigates to the homepage.
func (h *Home) Open() error {
	return h.Visit("/")
}

// ProductNames lists the catalog's product names in display order.
func (h *Home) ProductNames() ([]string, error) {
	elems, err := h.css(".product-card .product-name", "catalog product names").ResolveAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(elems))
	for _, e := range elems {
		text, err := e.Text()
		if err != nil {
			return nil, err
		}
		names = append(names, text)
	}
	return names, nil
}

// ProductCount returns the number of catalog cards shown.
func (h *Home) ProductCount() (int, error) {
	return h.css(".product-card", "catalog product cards").Count()
}

// OpenProduct clicks the named product's card and lands on its detail page.
func (h *Home) OpenProduct(name string) (*Product, error) {
	cards, err := h.css(".product-card", "catalog product cards").ResolveAll()
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		title, err := card.FindElement(selenium.ByCSSSelector, ".product-name")
		if err != nil {
			continue
		}
		text, err := title.Text()
		if err != nil {
			return nil, err
		}
		if text == name {
			if err := card.Click(); err != nil {
				return nil, fmt.Errorf("opening product %q: %w", name, err)
			}
			prod := NewProduct(h.Page)
			return prod, prod.WaitLoaded()
		}
	}
	return nil, fmt.Errorf("product %q not in catalog", name)
}

// Search types into the catalog search box and waits for the grid to
// settle on the expected number of results.
func (h *Home) Search(query string, wantResults int) error {
	if err := h.id("search", "catalog search box").SendKeys(query); err != nil {
		return err
	}
	grid := h.css(".product-card", "catalog product cards")
	cond := func() (bool, error) {
		n, err := grid.Count()
		if err != nil {
			return false, err
		}
		return n == wantResults, nil
	}
	if err := h.waits.Default.Until(cond); err != nil {
		return fmt.Errorf("search %q never settled on %d results: %w", query, wantResults, err)
	}
	return nil
}

// CartBadge returns the cart item count shown in the navigation bar, or 0
// when the badge is hidden.
func (h *Home) CartBadge() (int, error) {
	return cartBadge(h.Page)
}
