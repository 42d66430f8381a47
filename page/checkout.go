package page

import "fmt"

// Checkout is the checkout form and order confirmation page.
type Checkout struct {
	Page
}

// ContactDetails is the data the checkout form collects.
type ContactDetails struct {
	Email      string
	Name       string
	Address    string
	City       string
	PostalCode string
}

// NewCheckout binds the checkout page object to a session.
func NewCheckout(p Page) *Checkout {
	return &Checkout{Page: p}
}

// Open navigates straight to the checkout form.
func (co *Checkout) Open() error {
	if err := co.Visit("/checkout"); err != nil {
		return err
	}
	return co.WaitLoaded()
}

// WaitLoaded polls until the checkout form is on screen.
func (co *Checkout) WaitLoaded() error {
	return co.id("place-order", "place-order button").WaitVisible()
}

// Fill populates the contact and address fields.
func (co *Checkout) Fill(d ContactDetails) error {
	fields := []struct {
		id, desc, value string
	}{
		{"email", "email field", d.Email},
		{"name", "name field", d.Name},
		{"address", "address field", d.Address},
		{"city", "city field", d.City},
		{"postal-code", "postal code field", d.PostalCode},
	}
	for _, f := range fields {
		if err := co.id(f.id, f.desc).SendKeys(f.value); err != nil {
			return err
		}
	}
	return nil
}

// PlaceOrder submits the form and waits for the confirmation panel. Order
// submission is the slowest interaction in the suite, so it polls on the
// long profile.
func (co *Checkout) PlaceOrder() error {
	if err := co.id("place-order", "place-order button").Click(); err != nil {
		return err
	}
	confirmation := co.css(".order-confirmation", "order confirmation panel")
	if err := co.waits.Long.Until(confirmation.Visible); err != nil {
		return fmt.Errorf("order confirmation never appeared: %w", err)
	}
	return nil
}

// OrderNumber returns the confirmed order's reference.
func (co *Checkout) OrderNumber() (string, error) {
	return co.css(".order-confirmation .order-number", "order number").Text()
}

// ValidationError returns the form's visible validation message, if any.
func (co *Checkout) ValidationError() (string, error) {
	loc := co.css(".form-error", "validation message")
	visible, err := loc.Visible()
	if err != nil || !visible {
		return "", err
	}
	return loc.Text()
}
