// Package a11y runs axe-core accessibility audits inside a live browser
// session and decodes the violations for assertion in specs.
package a11y

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/selenium"

	"storewalk/wait"
)

// axeCDN is the pinned axe-core build injected when no local copy is
// configured.
const axeCDN = "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.10.2/axe.min.js"

// Impact levels reported by axe-core, mildest first.
const (
	ImpactMinor    = "minor"
	ImpactModerate = "moderate"
	ImpactSerious  = "serious"
	ImpactCritical = "critical"
)

// Options configures an audit.
type Options struct {
	// ScriptPath is a local axe-core bundle to inject. When empty the
	// pinned CDN build is loaded via a script tag.
	ScriptPath string
	// RunOnly restricts the audit to the named rule tags, e.g. "wcag2a",
	// "wcag2aa". Empty means axe's default rule set.
	RunOnly []string
	// Load bounds script injection and the audit run itself.
	Load wait.Profile
}

// Result is a decoded axe-core run.
type Result struct {
	Violations []Violation `json:"violations"`
}

// Violation is one failed rule with the nodes that tripped it.
type Violation struct {
	ID      string          `json:"id"`
	Impact  string          `json:"impact"`
	Help    string          `json:"help"`
	HelpURL string          `json:"helpUrl"`
	Nodes   []ViolationNode `json:"nodes"`
}

// ViolationNode pinpoints one offending element.
type ViolationNode struct {
	Target         []string `json:"target"`
	HTML           string   `json:"html"`
	FailureSummary string   `json:"failureSummary"`
}

func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s (%s)", v.ID, v.Impact, v.Help, v.HelpURL)
	for _, n := range v.Nodes {
		fmt.Fprintf(&b, "\n  %s", strings.Join(n.Target, " "))
	}
	return b.String()
}

// Filter returns the violations at the given impact levels.
func (r *Result) Filter(impacts ...string) []Violation {
	want := make(map[string]bool, len(impacts))
	for _, i := range impacts {
		want[i] = true
	}
	var out []Violation
	for _, v := range r.Violations {
		if want[v.Impact] {
			out = append(out, v)
		}
	}
	return out
}

// Audit injects axe-core into the current page and runs it.
func Audit(wd selenium.WebDriver, opts Options) (*Result, error) {
	if opts.Load.Timeout == 0 {
		opts.Load = wait.Long
	}

	// The document must be settled before injection; axe refuses to run
	// against a loading document.
	readyCond := func() (bool, error) {
		state, err := wd.ExecuteScript("return document.readyState", nil)
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	}
	if err := opts.Load.Until(readyCond); err != nil {
		return nil, fmt.Errorf("a11y: document never settled: %w", err)
	}

	if err := inject(wd, opts); err != nil {
		return nil, err
	}

	raw, err := run(wd, opts)
	if err != nil {
		return nil, err
	}
	return parseResult(raw)
}

func inject(wd selenium.WebDriver, opts Options) error {
	loaded, err := axeLoaded(wd)
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}

	if opts.ScriptPath != "" {
		src, err := os.ReadFile(opts.ScriptPath)
		if err != nil {
			return fmt.Errorf("a11y: reading axe bundle: %w", err)
		}
		if _, err := wd.ExecuteScript(string(src), nil); err != nil {
			return fmt.Errorf("a11y: injecting axe bundle: %w", err)
		}
	} else {
		script := fmt.Sprintf(`var s = document.createElement('script');
s.src = %q;
document.head.appendChild(s);`, axeCDN)
		if _, err := wd.ExecuteScript(script, nil); err != nil {
			return fmt.Errorf("a11y: injecting axe script tag: %w", err)
		}
	}

	// Script-tag injection loads asynchronously; either path must leave
	// window.axe defined before the audit runs.
	if err := opts.Load.Until(func() (bool, error) { return axeLoaded(wd) }); err != nil {
		return fmt.Errorf("a11y: axe never became available: %w", err)
	}
	return nil
}

func axeLoaded(wd selenium.WebDriver) (bool, error) {
	v, err := wd.ExecuteScript("return typeof window.axe !== 'undefined'", nil)
	if err != nil {
		return false, err
	}
	ok, _ := v.(bool)
	return ok, nil
}

func run(wd selenium.WebDriver, opts Options) ([]byte, error) {
	axeOpts := map[string]interface{}{}
	if len(opts.RunOnly) > 0 {
		axeOpts["runOnly"] = map[string]interface{}{
			"type":   "tag",
			"values": opts.RunOnly,
		}
	}
	optsJSON, err := json.Marshal(axeOpts)
	if err != nil {
		return nil, err
	}

	script := fmt.Sprintf(`var done = arguments[arguments.length - 1];
axe.run(document, %s).then(function(results) {
  done(JSON.stringify(results));
}, function(err) {
  done(JSON.stringify({error: String(err)}));
});`, optsJSON)

	v, err := wd.ExecuteScriptAsync(script, nil)
	if err != nil {
		return nil, fmt.Errorf("a11y: running axe: %w", err)
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("a11y: axe returned %T, want string", v)
	}
	return []byte(s), nil
}

func parseResult(raw []byte) (*Result, error) {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("a11y: decoding axe results: %w", err)
	}
	if probe.Error != "" {
		return nil, fmt.Errorf("a11y: axe.run failed: %s", probe.Error)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("a11y: decoding axe results: %w", err)
	}
	return &result, nil
}
