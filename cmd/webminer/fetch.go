package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/use-agent/webminer/cleaner"
	"github.com/use-agent/webminer/config"
	"github.com/use-agent/webminer/scraper"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a page and print its HTML or extracted content",
		Long: `Fetch retrieves one URL and prints the result to stdout.

By default the page is fetched with a single HTTP GET; pass --render to
drive a headless browser instead, which executes JavaScript before the
page source is captured.

Examples:
  # Raw HTML over plain HTTP
  webminer fetch https://example.com

  # Rendered page source through Microsoft Edge
  webminer fetch --render --browser edge https://example.com

  # Plain text of the page body, via a proxy
  webminer fetch --proxy 127.0.0.1:8080 --text https://example.com

  # Outbound links, one per line
  webminer fetch --links https://example.com

  # Main article content as Markdown
  webminer fetch --render --article --markdown https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runFetchCmd,
	}

	// Strategy selection
	cmd.Flags().BoolP("render", "r", false,
		"Render the page in a headless browser instead of a plain GET")
	cmd.Flags().String("browser", "",
		"Browser engine for --render: chrome or edge (default from WEBMINER_BROWSER)")
	cmd.Flags().String("browser-bin", "",
		"Browser binary path override")
	cmd.Flags().StringSlice("block", nil,
		"Resource types to block while rendering (Image,Stylesheet,Font,Media,Script)")

	// Identity
	cmd.Flags().String("user-agent", "",
		"Explicit user agent (default: weighted-random draw from the catalog)")
	cmd.Flags().String("resolution", "",
		"Explicit screen resolution as 'width,height' (default: random common one)")
	cmd.Flags().String("proxy", "",
		"Proxy as 'host:port'")

	// Per-request behavior
	cmd.Flags().Duration("wait", 0,
		"Pacing delay before the request (default 1s; pass 0 to disable pacing)")
	cmd.Flags().Duration("timeout", 60*time.Second,
		"Overall deadline for the fetch")
	cmd.Flags().Bool("delete-cookies", false,
		"Clear the session cookies before the request")
	cmd.Flags().StringToString("header", nil,
		"Extra request header (direct strategy only); repeatable")

	// Output modes
	cmd.Flags().Bool("pretty", false, "Pretty-print the HTML with indentation")
	cmd.Flags().Bool("text", false, "Print the page's plain text")
	cmd.Flags().Bool("links", false, "Print outbound links, one per line")
	cmd.Flags().Bool("markdown", false, "Convert the HTML to Markdown")
	cmd.Flags().Bool("article", false, "Reduce the page to its main article content first")
	cmd.Flags().String("select", "", "Keep only elements matching this CSS selector")

	return cmd
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg := config.Load()
	flags := cmd.Flags()

	userAgent := stringFlagOr(flags, "user-agent", cfg.Scraper.UserAgent)
	resolution := stringFlagOr(flags, "resolution", cfg.Scraper.ScreenResolution)
	proxy := stringFlagOr(flags, "proxy", cfg.Scraper.Proxy)

	scraperCfg := scraper.Config{
		UserAgent:              userAgent,
		ScreenResolution:       resolution,
		RandomUserAgent:        userAgent == "",
		RandomScreenResolution: resolution == "",
		Proxy:                  proxy,
	}

	render, _ := flags.GetBool("render")
	sc, err := buildScraper(flags, cfg, scraperCfg, render)
	if err != nil {
		return err
	}

	if err := sc.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sc.Quit(); err != nil {
			slog.Warn("session teardown failed", "error", err)
		}
	}()

	timeout, _ := flags.GetDuration("timeout")
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := resolveWait(flags, cfg.Scraper.Wait)
	deleteCookies, _ := flags.GetBool("delete-cookies")
	headers, _ := flags.GetStringToString("header")

	opts := &scraper.FetchOptions{
		Wait:          wait,
		DeleteCookies: deleteCookies,
		Headers:       headers,
	}

	start := time.Now()
	html, err := sc.RetrieveHTML(ctx, target, opts)
	if err != nil {
		return err
	}
	slog.Info("page retrieved",
		"url", target,
		"bytes", len(html),
		"render", render,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	out, err := renderOutput(flags, html, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

// buildScraper constructs the acquisition strategy selected by --render.
func buildScraper(flags flagGetter, cfg *config.Config, scraperCfg scraper.Config, render bool) (scraper.Scraper, error) {
	if !render {
		return scraper.NewDirectScraper(scraperCfg)
	}
	engine := stringFlagOr(flags, "browser", cfg.Browser.Engine)
	bin := stringFlagOr(flags, "browser-bin", cfg.Browser.Bin)
	blocked, _ := flags.GetStringSlice("block")
	if len(blocked) == 0 {
		blocked = cfg.Browser.BlockedResourceTypes
	}
	return scraper.NewRenderedScraper(scraper.RenderedConfig{
		Config:               scraperCfg,
		Browser:              scraper.Browser(engine),
		Bin:                  bin,
		BlockedResourceTypes: blocked,
	})
}

// renderOutput applies the selected output transformation to the HTML.
func renderOutput(flags flagGetter, html, target string) (string, error) {
	if selector, _ := flags.GetString("select"); selector != "" {
		selected, err := cleaner.Select(html, selector)
		if err != nil {
			return "", fmt.Errorf("invalid --select selector: %w", err)
		}
		html = selected
	}
	if article, _ := flags.GetBool("article"); article {
		a, ok := cleaner.ExtractArticle(html, target)
		if !ok {
			slog.Warn("article extraction fell back to the full page", "url", target)
		}
		html = a.Content
	}

	switch {
	case boolFlag(flags, "text"):
		return cleaner.ExtractText(html), nil
	case boolFlag(flags, "links"):
		return strings.Join(cleaner.ExtractLinks(html), "\n"), nil
	case boolFlag(flags, "markdown"):
		domain := ""
		if u, err := url.Parse(target); err == nil {
			domain = u.Hostname()
		}
		return cleaner.ToMarkdown(html, domain)
	case boolFlag(flags, "pretty"):
		return cleaner.FormatHTML(html)
	default:
		return html, nil
	}
}

// resolveWait maps the --wait flag to a pacing delay. An explicitly passed
// zero disables pacing entirely; an unset flag falls back to the configured
// default.
func resolveWait(flags *pflag.FlagSet, fallback time.Duration) time.Duration {
	wait, _ := flags.GetDuration("wait")
	if wait != 0 {
		return wait
	}
	if flags.Changed("wait") {
		return scraper.WaitNone
	}
	return fallback
}

// flagGetter is the subset of *pflag.FlagSet the helpers need.
type flagGetter interface {
	GetString(name string) (string, error)
	GetBool(name string) (bool, error)
	GetStringSlice(name string) ([]string, error)
}

func stringFlagOr(flags flagGetter, name, fallback string) string {
	if v, err := flags.GetString(name); err == nil && v != "" {
		return v
	}
	return fallback
}

func boolFlag(flags flagGetter, name string) bool {
	v, _ := flags.GetBool(name)
	return v
}
