// Package page provides the locator facade and page objects for the demo
// storefront. Page objects own the selectors and business vocabulary; specs
// speak in user actions, never in raw CSS.
package page

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"storewalk/wait"
)

// Waits carries the timeout profiles the page layer polls with.
type Waits struct {
	Default wait.Profile
	Short   wait.Profile
	Long    wait.Profile
}

// DefaultWaits uses the wait package's stock profiles.
func DefaultWaits() Waits {
	return Waits{Default: wait.Default, Short: wait.Short, Long: wait.Long}
}

// Page is the base for all page objects: navigation, readiness, and locator
// construction bound to one driver session.
type Page struct {
	wd      selenium.WebDriver
	baseURL string
	waits   Waits
}

// New binds a page base to a driver session and storefront base URL.
func New(wd selenium.WebDriver, baseURL string, waits Waits) Page {
	return Page{wd: wd, baseURL: strings.TrimRight(baseURL, "/"), waits: waits}
}

// Visit navigates to path (relative to the base URL) and waits for the
// document to finish loading.
func (p Page) Visit(path string) error {
	url := p.baseURL + path
	if err := p.wd.Get(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return p.WaitReady()
}

// WaitReady polls document.readyState until the page has finished loading.
func (p Page) WaitReady() error {
	cond := func() (bool, error) {
		state, err := p.wd.ExecuteScript("return document.readyState", nil)
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	}
	if err := p.waits.Long.Until(cond); err != nil {
		return fmt.Errorf("page never finished loading: %w", err)
	}
	return nil
}

// Title returns the current page title.
func (p Page) Title() (string, error) {
	return p.wd.Title()
}

// URL returns the browser's current URL.
func (p Page) URL() (string, error) {
	return p.wd.CurrentURL()
}

// Driver exposes the underlying session for utilities (accessibility
// audits, screenshots) that need raw script execution.
func (p Page) Driver() selenium.WebDriver {
	return p.wd
}

func (p Page) css(selector, desc string) Locator {
	return CSS(p.wd, selector, desc, p.waits)
}

func (p Page) id(id, desc string) Locator {
	return ByID(p.wd, id, desc, p.waits)
}
