//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storewalk/a11y"
)

// auditOptions pulls the local axe bundle from config when one is set.
func auditOptions() a11y.Options {
	return a11y.Options{
		ScriptPath: harness.Cfg.AxeScript,
		RunOnly:    []string{"wcag2a", "wcag2aa"},
		Load:       harness.Cfg.Waits.Long.Profile(),
	}
}

// requireNoBlockingViolations fails with every serious or critical finding
// spelled out, not just a count.
func requireNoBlockingViolations(t *testing.T, result *a11y.Result) {
	t.Helper()
	blocking := result.Filter(a11y.ImpactSerious, a11y.ImpactCritical)
	for _, v := range blocking {
		t.Errorf("accessibility violation:\n%s", v)
	}
	require.Empty(t, blocking)
}

// Feature: Accessibility
//
//	As any customer, including those using assistive technology
//	I want the storefront to meet WCAG 2.0 A/AA
//	So that I can browse and buy without barriers
func TestHomepageAccessibility(t *testing.T) {
	s := harness.Session(t)

	home := s.Home()
	require.NoError(t, home.Open())

	result, err := a11y.Audit(s.WD, auditOptions())
	require.NoError(t, err)
	requireNoBlockingViolations(t, result)
}

func TestCheckoutFormAccessibility(t *testing.T) {
	s := harness.Session(t)

	// Forms are where label/contrast regressions actually bite.
	product := s.Product()
	require.NoError(t, product.Open("premium-widget"))
	require.NoError(t, product.AddToCart())

	cart := s.Cart()
	require.NoError(t, cart.Open())
	checkout, err := cart.Checkout()
	require.NoError(t, err)
	require.NoError(t, checkout.WaitLoaded())

	result, err := a11y.Audit(s.WD, auditOptions())
	require.NoError(t, err)
	requireNoBlockingViolations(t, result)
}
