package scraper

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/use-agent/webminer/models"
)

// Browser selects which browser engine the rendered strategy drives. The
// choice is fixed at construction and determines the binary searched for and
// the engine-specific flags.
type Browser string

const (
	BrowserChrome Browser = "chrome"
	BrowserEdge   Browser = "edge"
)

// browserEngine describes how to launch one supported engine.
type browserEngine struct {
	// binNames are the executable names searched on PATH, in order.
	binNames []string

	// privateFlag enables the engine's private browsing mode.
	privateFlag string
}

var browserEngines = map[Browser]browserEngine{
	BrowserChrome: {
		binNames:    []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"},
		privateFlag: "--incognito",
	},
	BrowserEdge: {
		binNames:    []string{"microsoft-edge", "microsoft-edge-stable", "msedge"},
		privateFlag: "--inprivate",
	},
}

// resolveEngine validates the engine name, tolerating case and surrounding
// whitespace.
func resolveEngine(b Browser) (Browser, browserEngine, error) {
	name := Browser(strings.ToLower(strings.TrimSpace(string(b))))
	if name == "" {
		name = BrowserChrome
	}
	eng, ok := browserEngines[name]
	if !ok {
		return "", browserEngine{}, models.NewScrapeError(
			models.ErrCodeConfiguration,
			fmt.Sprintf("unsupported browser %q: valid values are 'chrome' or 'edge'", b),
			nil,
		)
	}
	return name, eng, nil
}

// lookupBin returns the first of names found on PATH, or "".
func lookupBin(names []string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// DefaultBrowserFlags is the baseline flag set applied to every rendered
// session for automation stability: headless operation, sandboxing off,
// extension/popup/feature suppression and first-run noise removal. Private
// browsing mode and the identity-derived flags (window size, user agent,
// proxy) are appended separately.
func DefaultBrowserFlags() []string {
	return []string{
		"--headless",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-extensions",
		"--disable-popup-blocking",
		"--disable-default-apps",
		"--disable-component-update",
		"--disable-client-side-phishing-detection",
		"--disable-component-extensions-with-background-pages",
		"--disable-blink-features=AutomationControlled",
		"--disable-features=InterestFeedContentSuggestions,Translate",
		"--hide-scrollbars",
		"--mute-audio",
		"--no-default-browser-check",
		"--no-first-run",
		"--ash-no-nudges",
		"--disable-search-engine-choice-screen",
	}
}

// splitFlag parses a "--name" or "--name=value" command-line flag.
func splitFlag(flag string) (name, value string) {
	flag = strings.TrimPrefix(flag, "--")
	if i := strings.IndexByte(flag, '='); i >= 0 {
		return flag[:i], flag[i+1:]
	}
	return flag, ""
}
