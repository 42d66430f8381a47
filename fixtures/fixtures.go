// Package fixtures wires driver services, browser sessions, page objects
// and the API client into tests, with teardown registered via t.Cleanup.
//
// A Harness lives for the whole test binary (started in TestMain); each
// test takes an isolated Session from it.
package fixtures

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"storewalk/api"
	"storewalk/config"
	"storewalk/page"
	"storewalk/wait"
)

// Harness owns the WebDriver service process for a test binary.
type Harness struct {
	Cfg *config.Config

	service *selenium.Service
	addr    string
}

// Start launches the configured driver service and waits for it to accept
// connections.
func Start(cfg *config.Config) (*Harness, error) {
	h := &Harness{Cfg: cfg}

	var err error
	switch cfg.Browser {
	case config.BrowserChrome:
		h.service, err = selenium.NewChromeDriverService(cfg.DriverPath, cfg.DriverPort)
		h.addr = fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort)
	case config.BrowserFirefox:
		h.service, err = selenium.NewGeckoDriverService(cfg.DriverPath, cfg.DriverPort)
		h.addr = fmt.Sprintf("http://localhost:%d", cfg.DriverPort)
	default:
		return nil, fmt.Errorf("fixtures: unsupported browser %q", cfg.Browser)
	}
	if err != nil {
		return nil, fmt.Errorf("fixtures: starting %s driver: %w", cfg.Browser, err)
	}

	if err := h.waitReady(); err != nil {
		h.service.Stop()
		return nil, err
	}
	return h, nil
}

// waitReady polls the driver's status endpoint until it responds.
func (h *Harness) waitReady() error {
	cond := wait.Swallowing(func() (bool, error) {
		resp, err := http.Get(h.addr + "/status")
		if err != nil {
			return false, err
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK, nil
	})
	if err := wait.Until(cond, 30*time.Second, 250*time.Millisecond); err != nil {
		return fmt.Errorf("fixtures: driver never became ready at %s: %w", h.addr, err)
	}
	return nil
}

// Close stops the driver service.
func (h *Harness) Close() error {
	if h.service == nil {
		return nil
	}
	return h.service.Stop()
}

// Session is one isolated browser session plus the objects a spec needs.
type Session struct {
	WD  selenium.WebDriver
	Cfg *config.Config

	base page.Page
}

// Session opens a browser session for one test. Teardown (and a failure
// screenshot) runs via t.Cleanup.
func (h *Harness) Session(t *testing.T) *Session {
	t.Helper()

	caps := h.capabilities(t)
	wd, err := selenium.NewRemote(caps, h.addr)
	require.NoError(t, err, "fixtures: creating session against %s", h.addr)

	t.Cleanup(func() {
		if err := wd.Quit(); err != nil {
			t.Logf("fixtures: quitting session: %v", err)
		}
	})
	t.Cleanup(func() {
		if t.Failed() {
			h.saveScreenshot(t, wd)
		}
	})

	waits := page.Waits{
		Default: h.Cfg.Waits.Default.Profile(),
		Short:   h.Cfg.Waits.Short.Profile(),
		Long:    h.Cfg.Waits.Long.Profile(),
	}
	return &Session{
		WD:   wd,
		Cfg:  h.Cfg,
		base: page.New(wd, h.Cfg.BaseURL, waits),
	}
}

// capabilities builds browser-specific capabilities, honoring headless and
// custom binary settings.
func (h *Harness) capabilities(t *testing.T) selenium.Capabilities {
	t.Helper()

	caps := selenium.Capabilities{"browserName": h.Cfg.Browser}
	switch h.Cfg.Browser {
	case config.BrowserChrome:
		chrCaps := chrome.Capabilities{
			Path: h.Cfg.BrowserPath,
			Args: []string{
				// Required when driving a non-default Chrome binary; the
				// sandbox needs a setuid helper.
				"--no-sandbox",
				"--disable-gpu",
				"--window-size=1280,1024",
			},
		}
		if h.Cfg.Headless {
			chrCaps.Args = append(chrCaps.Args, "--headless")
		}
		caps.AddChrome(chrCaps)
	case config.BrowserFirefox:
		f := firefox.Capabilities{}
		if h.Cfg.BrowserPath != "" {
			path, err := filepath.Abs(h.Cfg.BrowserPath)
			require.NoError(t, err)
			f.Binary = path
		}
		if h.Cfg.Headless {
			f.Args = append(f.Args, "-headless")
		}
		caps.AddFirefox(f)
	}
	return caps
}

// saveScreenshot writes the session's final viewport under ScreenshotDir,
// named after the failing test.
func (h *Harness) saveScreenshot(t *testing.T, wd selenium.WebDriver) {
	t.Helper()

	data, err := wd.Screenshot()
	if err != nil {
		t.Logf("fixtures: taking failure screenshot: %v", err)
		return
	}
	dir := h.Cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Logf("fixtures: creating %s: %v", dir, err)
		return
	}
	name := strings.ReplaceAll(t.Name(), "/", "_") + ".png"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Logf("fixtures: writing %s: %v", path, err)
		return
	}
	t.Logf("fixtures: failure screenshot saved to %s", path)
}

// Home returns the home page object.
func (s *Session) Home() *page.Home { return page.NewHome(s.base) }

// Product returns the product page object.
func (s *Session) Product() *page.Product { return page.NewProduct(s.base) }

// Cart returns the cart page object.
func (s *Session) Cart() *page.Cart { return page.NewCart(s.base) }

// Checkout returns the checkout page object.
func (s *Session) Checkout() *page.Checkout { return page.NewCheckout(s.base) }

// Toast returns the notification toast object.
func (s *Session) Toast() *page.Toast { return page.NewToast(s.base) }

// API returns a client for the storefront's HTTP API.
func (s *Session) API() *api.Client { return api.New(s.Cfg.API()) }
