package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/webminer/models"
	"github.com/ysmood/gson"
)

// RenderedConfig extends Config with the rendered strategy's options.
type RenderedConfig struct {
	Config

	// Browser selects the engine; empty means chrome. An unsupported value
	// fails construction.
	Browser Browser

	// Flags is the ordered baseline flag list; nil means
	// DefaultBrowserFlags(). The engine's private-mode flag and the
	// identity-derived window-size/user-agent/proxy-server flags are
	// appended to it.
	Flags []string

	// Bin overrides the browser binary path. When empty, well-known
	// executable names for the chosen engine are searched on PATH, falling
	// back to rod's own browser resolution for chrome.
	Bin string

	// BlockedResourceTypes lists resource types (Image, Stylesheet, Font,
	// Media, Script) to abort during navigation. Empty means no blocking.
	BlockedResourceTypes []string
}

// RenderedScraper is the heavyweight acquisition strategy: a headless
// browser session that fully renders pages, including JavaScript-driven
// content, before returning their source.
type RenderedScraper struct {
	*session
	engine       Browser
	engineFlags  browserEngine
	baseFlags    []string
	bin          string
	blockedTypes []string

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
}

var _ Scraper = (*RenderedScraper)(nil)

// NewRenderedScraper validates the configuration (identity, proxy, engine)
// and resolves the identity. The browser is not launched until Start.
func NewRenderedScraper(cfg RenderedConfig) (*RenderedScraper, error) {
	s, err := newSession(cfg.Config)
	if err != nil {
		return nil, err
	}
	name, eng, err := resolveEngine(cfg.Browser)
	if err != nil {
		return nil, err
	}
	base := cfg.Flags
	if base == nil {
		base = DefaultBrowserFlags()
	}
	return &RenderedScraper{
		session:      s,
		engine:       name,
		engineFlags:  eng,
		baseFlags:    base,
		bin:          cfg.Bin,
		blockedTypes: cfg.BlockedResourceTypes,
	}, nil
}

// launchFlags is the full ordered flag list for this session: the baseline,
// the engine's private mode, then the flags derived from the identity frozen
// at Start.
func (r *RenderedScraper) launchFlags() []string {
	out := make([]string, 0, len(r.baseFlags)+4)
	out = append(out, r.baseFlags...)
	out = append(out, r.engineFlags.privateFlag)
	if r.resolution.Width > 0 {
		out = append(out, "--window-size="+r.resolution.String())
	}
	if r.userAgent != "" {
		out = append(out, "--user-agent="+r.userAgent)
	}
	if r.proxy != "" {
		out = append(out, "--proxy-server="+r.proxy)
	}
	return out
}

// Start launches the browser, connects over CDP, and opens the single page
// this session drives. Stealth JS and default headers are installed before
// any navigation so they apply to every page load.
func (r *RenderedScraper) Start() error {
	l := launcher.New()
	bin := r.bin
	if bin == "" {
		bin = lookupBin(r.engineFlags.binNames)
	}
	if bin != "" {
		l = l.Bin(bin)
	} else if r.engine == BrowserEdge {
		return models.NewScrapeError(
			models.ErrCodeConfiguration,
			"edge binary not found on PATH: set RenderedConfig.Bin", nil)
	}
	for _, f := range r.launchFlags() {
		name, value := splitFlag(f)
		if value == "" {
			l.Set(flags.Flag(name))
		} else {
			l.Set(flags.Flag(name), value)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeAcquisition, "failed to launch browser", err)
	}
	slog.Info("browser launched", "engine", r.engine, "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return models.NewScrapeError(
			models.ErrCodeAcquisition, "failed to connect to browser", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return models.NewScrapeError(
			models.ErrCodeAcquisition, "failed to open page", err)
	}

	// Stealth and headers must be installed before the first navigation.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": "en-US,en;q=0.9"}),
	}.Call(page)

	r.router = setupHijack(page, r.blockedTypes)

	r.launcher = l
	r.browser = browser
	r.page = page
	r.started = true
	return nil
}

// Quit clears the browser's cookies, closes it, and cleans up the launcher's
// temporary profile directory.
func (r *RenderedScraper) Quit() error {
	if err := r.requireStarted("Quit"); err != nil {
		return err
	}
	_ = proto.NetworkClearBrowserCookies{}.Call(r.page)
	if r.router != nil {
		_ = r.router.Stop()
		r.router = nil
	}
	_ = r.browser.Close()
	r.launcher.Cleanup()
	r.page, r.browser, r.launcher = nil, nil, nil
	r.started = false
	return nil
}

// RetrieveHTML waits the pacing delay, optionally clears cookies, navigates
// to url, blocks until the browser reports the page loaded, and returns the
// rendered page source. Navigation failures surface as ACQUISITION_FAILED.
func (r *RenderedScraper) RetrieveHTML(ctx context.Context, url string, opts *FetchOptions) (string, error) {
	if err := r.requireStarted("RetrieveHTML"); err != nil {
		return "", err
	}
	o, err := opts.normalized()
	if err != nil {
		return "", err
	}
	if err := pace(ctx, o.Wait); err != nil {
		return "", err
	}

	p := r.page.Context(ctx)
	if o.DeleteCookies {
		_ = proto.NetworkClearBrowserCookies{}.Call(p)
	}
	if err := p.Navigate(url); err != nil {
		return "", models.NewScrapeError(
			models.ErrCodeAcquisition, "navigation to "+url+" failed", err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", models.NewScrapeError(
			models.ErrCodeAcquisition, "page load for "+url+" did not complete", err)
	}
	html, err := p.HTML()
	if err != nil {
		return "", models.NewScrapeError(
			models.ErrCodeAcquisition, "failed to extract page source", err)
	}
	return html, nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
