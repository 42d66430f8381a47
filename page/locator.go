package page

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"storewalk/wait"
)

// clickAttempts bounds the retry on single-shot clicks, which can race a
// page repaint and hit a stale or momentarily obscured element.
const clickAttempts = 3

// Locator binds a find strategy to a description and re-resolves the
// element on every interaction. Nothing is cached, so a re-rendered element
// never goes stale inside a Locator.
type Locator struct {
	wd    selenium.WebDriver
	by    string
	value string
	desc  string
	waits Waits
}

// CSS builds a locator from a CSS selector. desc names the element in
// failure messages.
func CSS(wd selenium.WebDriver, selector, desc string, waits Waits) Locator {
	return Locator{wd: wd, by: selenium.ByCSSSelector, value: selector, desc: desc, waits: waits}
}

// ByID builds a locator from an element ID.
func ByID(wd selenium.WebDriver, id, desc string, waits Waits) Locator {
	return Locator{wd: wd, by: selenium.ByID, value: id, desc: desc, waits: waits}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s (%s=%q)", l.desc, l.by, l.value)
}

// Resolve finds the element now.
func (l Locator) Resolve() (selenium.WebElement, error) {
	elem, err := l.wd.FindElement(l.by, l.value)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", l, err)
	}
	return elem, nil
}

// ResolveAll finds every matching element.
func (l Locator) ResolveAll() ([]selenium.WebElement, error) {
	elems, err := l.wd.FindElements(l.by, l.value)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", l, err)
	}
	return elems, nil
}

// Count returns the number of matching elements.
func (l Locator) Count() (int, error) {
	elems, err := l.ResolveAll()
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

// Text returns the element's trimmed text content.
func (l Locator) Text() (string, error) {
	elem, err := l.Resolve()
	if err != nil {
		return "", err
	}
	text, err := elem.Text()
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", l, err)
	}
	return strings.TrimSpace(text), nil
}

// Click clicks the element, retrying the resolve-and-click pair a few times
// to ride out repaint races.
func (l Locator) Click() error {
	return wait.Try(func() error {
		elem, err := l.Resolve()
		if err != nil {
			return err
		}
		return elem.Click()
	}, clickAttempts)
}

// SendKeys types into the element after clearing it.
func (l Locator) SendKeys(keys string) error {
	elem, err := l.Resolve()
	if err != nil {
		return err
	}
	if err := elem.Clear(); err != nil {
		return fmt.Errorf("clearing %s: %w", l, err)
	}
	return elem.SendKeys(keys)
}

// Clear empties the element's value.
func (l Locator) Clear() error {
	elem, err := l.Resolve()
	if err != nil {
		return err
	}
	if err := elem.Clear(); err != nil {
		return fmt.Errorf("clearing %s: %w", l, err)
	}
	return nil
}

// Present reports whether at least one matching element exists.
func (l Locator) Present() (bool, error) {
	n, err := l.Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Visible reports whether the element exists and is displayed.
func (l Locator) Visible() (bool, error) {
	elems, err := l.ResolveAll()
	if err != nil || len(elems) == 0 {
		return false, err
	}
	return elems[0].IsDisplayed()
}

// WaitVisible polls until the element is displayed. Resolution errors are
// swallowed: "not in the DOM yet" is the state being waited out.
func (l Locator) WaitVisible() error {
	err := l.waits.Default.Until(wait.Swallowing(l.Visible))
	if err != nil {
		return fmt.Errorf("waiting for %s to appear: %w", l, err)
	}
	return nil
}

// WaitGone polls until no matching element is displayed. This is how
// transient UI such as toast notifications is waited out.
func (l Locator) WaitGone() error {
	cond := func() (bool, error) {
		visible, err := l.Visible()
		if err != nil {
			return false, err
		}
		return !visible, nil
	}
	if err := l.waits.Short.Until(wait.Swallowing(cond)); err != nil {
		return fmt.Errorf("waiting for %s to disappear: %w", l, err)
	}
	return nil
}

// WaitText polls until the element's text equals want.
func (l Locator) WaitText(want string) error {
	cond := func() (bool, error) {
		got, err := l.Text()
		if err != nil {
			return false, err
		}
		return got == want, nil
	}
	if err := l.waits.Default.Until(wait.Swallowing(cond)); err != nil {
		return fmt.Errorf("waiting for %s to read %q: %w", l, want, err)
	}
	return nil
}
