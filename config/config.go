package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the CLI's configuration, read from environment variables.
// Command-line flags override these values.
type Config struct {
	Scraper ScraperConfig
	Browser BrowserConfig
	Log     LogConfig
}

// ScraperConfig controls the identity presented to remote servers and the
// per-request pacing.
type ScraperConfig struct {
	// UserAgent is an explicit user-agent override. Empty means sample one.
	UserAgent string

	// ScreenResolution is an explicit "width,height" override. Empty means
	// sample one.
	ScreenResolution string

	// Proxy is an optional "host:port" pair.
	Proxy string

	// Wait is the client-side pacing delay before each request.
	Wait time.Duration // default: 1s
}

// BrowserConfig controls the rendered strategy.
type BrowserConfig struct {
	// Engine is the browser engine: "chrome" or "edge".
	Engine string // default: "chrome"

	// Bin overrides the browser binary path.
	Bin string

	// BlockedResourceTypes lists resource types to abort during rendering.
	BlockedResourceTypes []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Scraper: ScraperConfig{
			UserAgent:        os.Getenv("WEBMINER_USER_AGENT"),
			ScreenResolution: os.Getenv("WEBMINER_RESOLUTION"),
			Proxy:            os.Getenv("WEBMINER_PROXY"),
			Wait:             envDurationOr("WEBMINER_WAIT", time.Second),
		},
		Browser: BrowserConfig{
			Engine:               envOr("WEBMINER_BROWSER", "chrome"),
			Bin:                  os.Getenv("WEBMINER_BROWSER_BIN"),
			BlockedResourceTypes: envSliceOr("WEBMINER_BLOCKED_RESOURCES", nil),
		},
		Log: LogConfig{
			Level:  envOr("WEBMINER_LOG_LEVEL", "info"),
			Format: envOr("WEBMINER_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Plain numbers are read as seconds ("1.5" == 1.5s).
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return time.Duration(f * float64(time.Second))
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
