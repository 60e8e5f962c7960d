// Package scraper retrieves a web page's HTML through one of two
// interchangeable acquisition strategies: a lightweight HTTP GET
// (DirectScraper) or a fully rendering headless browser (RenderedScraper).
// Both present a configurable identity — user agent, screen resolution,
// optional proxy — to the remote server.
//
// A scraper owns exactly one underlying fetch mechanism and is not safe for
// concurrent use; callers wanting parallel scraping create one scraper per
// unit of work.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/use-agent/webminer/identity"
	"github.com/use-agent/webminer/models"
)

// Scraper is the shared contract of both acquisition strategies.
//
// Start allocates the underlying fetch mechanism (HTTP session or browser
// instance) with the identity resolved at construction. Quit clears any
// stored cookies and releases the mechanism. RetrieveHTML fetches the raw
// HTML of a URL; it blocks until the response is available and performs no
// text cleanup (see package cleaner for that).
//
// Every call that touches the fetch mechanism before Start or after Quit
// fails with a STATE_ERROR.
type Scraper interface {
	Start() error
	Quit() error
	RetrieveHTML(ctx context.Context, url string, opts *FetchOptions) (string, error)
}

// Config carries the identity settings common to both strategies.
type Config struct {
	// UserAgent is an explicit user-agent override.
	UserAgent string

	// ScreenResolution is an explicit "width,height" override.
	ScreenResolution string

	// RandomUserAgent overwrites UserAgent with a weighted-random draw from
	// the reference catalog.
	RandomUserAgent bool

	// RandomScreenResolution overwrites ScreenResolution with a uniform
	// draw from the common desktop resolutions.
	RandomScreenResolution bool

	// Proxy is an optional "host:port" pair applied to all requests.
	Proxy string
}

// WaitNone disables the pre-request pacing delay.
const WaitNone = time.Duration(-1)

// defaultWait is the pacing delay applied when FetchOptions.Wait is zero.
const defaultWait = time.Second

// FetchOptions carries the per-call options of RetrieveHTML. A nil
// *FetchOptions is equivalent to the zero value.
type FetchOptions struct {
	// Wait is a client-side pacing delay applied before the request. The
	// zero value means the one-second default; WaitNone skips pacing.
	// This is a simple blocking delay, not a rate limiter.
	Wait time.Duration

	// DeleteCookies clears the session's cookie store before the request.
	DeleteCookies bool

	// Headers are extra HTTP request headers. Honoured by the direct
	// strategy only.
	Headers map[string]string
}

// normalized returns a copy with defaults applied, rejecting negative waits
// other than WaitNone.
func (o *FetchOptions) normalized() (FetchOptions, error) {
	var out FetchOptions
	if o != nil {
		out = *o
	}
	switch {
	case out.Wait == 0:
		out.Wait = defaultWait
	case out.Wait == WaitNone:
		out.Wait = 0
	case out.Wait < 0:
		return out, models.NewScrapeError(
			models.ErrCodeConfiguration,
			fmt.Sprintf("negative wait %v: use scraper.WaitNone to skip pacing", out.Wait),
			nil,
		)
	}
	return out, nil
}

// session holds the resolved identity and the started/stopped state shared
// by both strategies. The identity is frozen once the session starts.
type session struct {
	userAgent  string
	resolution identity.Resolution
	proxy      string
	sampler    *identity.Sampler
	started    bool
}

func newSession(cfg Config) (*session, error) {
	if err := validateProxy(cfg.Proxy); err != nil {
		return nil, err
	}
	catalog, err := identity.Default()
	if err != nil {
		return nil, err
	}

	s := &session{
		userAgent: cfg.UserAgent,
		proxy:     cfg.Proxy,
		sampler:   identity.NewSampler(catalog),
	}
	if cfg.ScreenResolution != "" {
		res, err := identity.ParseResolution(cfg.ScreenResolution)
		if err != nil {
			return nil, err
		}
		s.resolution = res
	}
	if cfg.RandomUserAgent {
		if err := s.RefreshUserAgent(); err != nil {
			return nil, err
		}
	}
	if cfg.RandomScreenResolution {
		if err := s.RefreshScreenResolution(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RefreshUserAgent re-samples the user agent. The identity is immutable
// once the session starts.
func (s *session) RefreshUserAgent() error {
	if s.started {
		return models.NewScrapeError(
			models.ErrCodeState, "identity is frozen while the session is live", nil)
	}
	s.userAgent = s.sampler.UserAgent()
	slog.Info("sampled user agent", "userAgent", s.userAgent)
	return nil
}

// RefreshScreenResolution re-samples the screen resolution. The identity is
// immutable once the session starts.
func (s *session) RefreshScreenResolution() error {
	if s.started {
		return models.NewScrapeError(
			models.ErrCodeState, "identity is frozen while the session is live", nil)
	}
	s.resolution = s.sampler.ScreenResolution()
	slog.Info("sampled screen resolution", "resolution", s.resolution)
	return nil
}

// UserAgent returns the user agent the session presents, or "" if none is
// configured.
func (s *session) UserAgent() string { return s.userAgent }

// ScreenResolution returns the configured resolution; the zero value means
// none is configured.
func (s *session) ScreenResolution() identity.Resolution { return s.resolution }

func (s *session) requireStarted(op string) error {
	if !s.started {
		return models.ErrNotStarted(op)
	}
	return nil
}

// validateProxy enforces the 'host:port' form. An empty proxy is allowed.
func validateProxy(proxy string) error {
	if proxy == "" {
		return nil
	}
	host, port, err := net.SplitHostPort(proxy)
	if err != nil || host == "" || port == "" {
		return models.NewScrapeError(
			models.ErrCodeConfiguration,
			fmt.Sprintf("invalid proxy %q: accepted format is 'host:port'", proxy),
			err,
		)
	}
	return nil
}

// pace blocks for the pacing delay, returning early if ctx ends.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
