package page

import (
	"fmt"
	"strconv"

	"github.com/tebeka/selenium"
)

// Cart is the shopping cart page.
type Cart struct {
	Page
}

// LineItem is one row of the cart table.
type LineItem struct {
	Name     string
	Quantity int
	Price    string
}

// NewCart binds the cart page object to a session.
func NewCart(p Page) *Cart {
	return &Cart{Page: p}
}

// Open navigates to the cart page.
func (c *Cart) Open() error {
	return c.Visit("/cart")
}

// Items returns the cart's line items in display order.
func (c *Cart) Items() ([]LineItem, error) {
	rows, err := c.css(".cart-item", "cart line items").ResolveAll()
	if err != nil {
		return nil, err
	}
	items := make([]LineItem, 0, len(rows))
	for i, row := range rows {
		item, err := parseLineItem(row)
		if err != nil {
			return nil, fmt.Errorf("cart row %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseLineItem(row selenium.WebElement) (LineItem, error) {
	var item LineItem

	name, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-name")
	if err != nil {
		return item, err
	}
	if item.Name, err = name.Text(); err != nil {
		return item, err
	}

	qty, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-qty input")
	if err != nil {
		return item, err
	}
	qtyVal, err := qty.GetAttribute("value")
	if err != nil {
		return item, err
	}
	if item.Quantity, err = strconv.Atoi(qtyVal); err != nil {
		return item, fmt.Errorf("quantity reads %q: %w", qtyVal, err)
	}

	price, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-price")
	if err != nil {
		return item, err
	}
	if item.Price, err = price.Text(); err != nil {
		return item, err
	}
	return item, nil
}

// Total returns the displayed cart total, e.g. "$39.98".
func (c *Cart) Total() (string, error) {
	return c.css(".cart-total", "cart total").Text()
}

// SetQuantity updates a line item's quantity and waits for the total to
// re-render.
func (c *Cart) SetQuantity(itemName string, n int) error {
	before, err := c.Total()
	if err != nil {
		return err
	}
	rows, err := c.css(".cart-item", "cart line items").ResolveAll()
	if err != nil {
		return err
	}
	for _, row := range rows {
		name, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-name")
		if err != nil {
			continue
		}
		text, err := name.Text()
		if err != nil {
			return err
		}
		if text != itemName {
			continue
		}
		input, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-qty input")
		if err != nil {
			return err
		}
		if err := input.Clear(); err != nil {
			return err
		}
		if err := input.SendKeys(strconv.Itoa(n) + selenium.EnterKey); err != nil {
			return err
		}
		// The total re-renders asynchronously after a quantity change.
		cond := func() (bool, error) {
			total, err := c.Total()
			if err != nil {
				return false, err
			}
			return total != before, nil
		}
		if err := c.waits.Default.Until(cond); err != nil {
			return fmt.Errorf("cart total never updated after quantity change: %w", err)
		}
		return nil
	}
	return fmt.Errorf("no cart line item named %q", itemName)
}

// Remove deletes a line item and waits for its row to leave the DOM.
func (c *Cart) Remove(itemName string) error {
	rows, err := c.css(".cart-item", "cart line items").ResolveAll()
	if err != nil {
		return err
	}
	before := len(rows)
	for _, row := range rows {
		name, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-name")
		if err != nil {
			continue
		}
		text, err := name.Text()
		if err != nil {
			return err
		}
		if text != itemName {
			continue
		}
		remove, err := row.FindElement(selenium.ByCSSSelector, ".cart-item-remove")
		if err != nil {
			return err
		}
		if err := remove.Click(); err != nil {
			return err
		}
		items := c.css(".cart-item", "cart line items")
		cond := func() (bool, error) {
			n, err := items.Count()
			if err != nil {
				return false, err
			}
			return n == before-1, nil
		}
		if err := c.waits.Default.Until(cond); err != nil {
			return fmt.Errorf("row for %q never left the cart: %w", itemName, err)
		}
		return nil
	}
	return fmt.Errorf("no cart line item named %q", itemName)
}

// Checkout clicks through to the checkout form.
func (c *Cart) Checkout() (*Checkout, error) {
	if err := c.id("checkout", "checkout button").Click(); err != nil {
		return nil, err
	}
	co := NewCheckout(c.Page)
	return co, co.WaitLoaded()
}
