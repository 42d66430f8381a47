package page

// Toast is the transient notification shown after cart mutations. It
// appears, lingers briefly, and dismisses itself; tests must wait it out
// rather than sleep past it.
type Toast struct {
	Page
}

// NewToast binds the toast object to a session.
func NewToast(p Page) *Toast {
	return &Toast{Page: p}
}

func (t *Toast) locator() Locator {
	return t.css(".toast", "notification toast")
}

// Message returns the toast's current text.
func (t *Toast) Message() (string, error) {
	return t.locator().Text()
}

// WaitShown polls until a toast is visible.
func (t *Toast) WaitShown() error {
	return t.locator().WaitVisible()
}

// WaitDismissed polls until no toast remains visible.
func (t *Toast) WaitDismissed() error {
	return t.locator().WaitGone()
}
