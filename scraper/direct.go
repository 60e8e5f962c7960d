package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/use-agent/webminer/models"
)

// maxBodyBytes caps response body reads to prevent unbounded memory use.
const maxBodyBytes = 10 << 20 // 10 MB

// DirectScraper is the lightweight acquisition strategy: a single HTTP GET
// per URL, no JavaScript execution. It keeps a cookie jar across calls and
// presents the configured user agent plus a Chrome TLS fingerprint.
type DirectScraper struct {
	*session
	client *http.Client
}

var _ Scraper = (*DirectScraper)(nil)

// NewDirectScraper validates the configuration and resolves the identity.
// The HTTP session itself is not allocated until Start.
func NewDirectScraper(cfg Config) (*DirectScraper, error) {
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return &DirectScraper{session: s}, nil
}

// Start allocates the HTTP client with a fresh cookie jar. Calling Start on
// a live session discards the previous client.
func (d *DirectScraper) Start() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("direct: create cookie jar: %w", err)
	}
	d.client = &http.Client{
		Jar:       jar,
		Transport: newChromeTransport(d.proxy),
	}
	d.started = true
	return nil
}

// Quit clears the cookie jar and releases the HTTP session.
func (d *DirectScraper) Quit() error {
	if err := d.requireStarted("Quit"); err != nil {
		return err
	}
	d.clearCookies()
	d.client.CloseIdleConnections()
	d.client = nil
	d.started = false
	return nil
}

// RetrieveHTML issues a GET for url after the pacing delay and returns the
// response body. A non-2xx status yields an HTTP_ERROR carrying the status
// code. Bodies that are empty or do not look like HTML are wrapped in a
// minimal <html><body> envelope so downstream normalization always receives
// markup.
func (d *DirectScraper) RetrieveHTML(ctx context.Context, url string, opts *FetchOptions) (string, error) {
	if err := d.requireStarted("RetrieveHTML"); err != nil {
		return "", err
	}
	o, err := opts.normalized()
	if err != nil {
		return "", err
	}
	if o.DeleteCookies {
		d.clearCookies()
	}
	if err := pace(ctx, o.Wait); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("direct: build request: %w", err)
	}
	// Browser-like defaults; compression declined so the body needs no
	// decoding step.
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("direct: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", models.NewHTTPError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("direct: read body: %w", err)
	}

	cont := string(body)
	if !strings.Contains(cont, "<html>") && !strings.Contains(cont, "<body") {
		return fmt.Sprintf("<html>\n  <body>\n%s\n  </body>\n</html>", cont), nil
	}
	return cont, nil
}

// clearCookies swaps in a fresh jar; net/http has no jar-wide delete.
func (d *DirectScraper) clearCookies() {
	if jar, err := cookiejar.New(nil); err == nil {
		d.client.Jar = jar
	}
}
