// Package identity samples plausible desktop browser identities (user-agent
// string plus screen resolution) from a reference catalog, so that scrapers
// present a common fingerprint instead of Go's default one.
//
// The default catalog is embedded at build time and parsed exactly once; it
// is read-only afterwards and shared by reference between samplers.
package identity

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/use-agent/webminer/models"
)

// Source: https://www.useragents.me/#most-common-desktop-useragents-json-csv
//
//go:embed most_common_desktop_user_agents.tsv
var defaultUserAgentTSV string

// defaultResolutions are the most common desktop screen resolutions.
var defaultResolutions = []Resolution{
	{1920, 1080},
	{1366, 768},
	{1536, 864},
	{1440, 900},
	{1600, 900},
}

// Resolution is a screen size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// String renders the resolution in the "width,height" form used by browser
// window-size flags.
func (r Resolution) String() string {
	return fmt.Sprintf("%d,%d", r.Width, r.Height)
}

// ParseResolution parses a "width,height" string.
func ParseResolution(s string) (Resolution, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Resolution{}, models.NewScrapeError(
			models.ErrCodeConfiguration,
			fmt.Sprintf("invalid screen resolution %q: accepted format is 'width,height'", s),
			nil,
		)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Resolution{}, models.NewScrapeError(
			models.ErrCodeConfiguration,
			fmt.Sprintf("invalid screen resolution %q: width and height must be positive integers", s),
			nil,
		)
	}
	return Resolution{Width: w, Height: h}, nil
}

// UserAgent is one catalog entry: the header string and its sampling weight.
type UserAgent struct {
	String string
	Weight float64
}

// Catalog holds the reference datasets the samplers draw from. It is
// immutable after construction.
type Catalog struct {
	UserAgents  []UserAgent
	Resolutions []Resolution

	totalWeight float64
}

// ParseCatalog reads a tab-separated catalog (user_agent<TAB>weight, one row
// per entry). Any malformed row — wrong column count, non-numeric or negative
// weight — aborts the load with a CONFIGURATION_ERROR; rows are never
// silently skipped. The catalog must end up non-empty with a positive total
// weight.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1 // column count is validated per row below

	c := &Catalog{Resolutions: defaultResolutions}
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, models.NewScrapeError(
				models.ErrCodeConfiguration,
				fmt.Sprintf("user agent catalog row %d is unreadable", line),
				err,
			)
		}
		if len(row) != 2 {
			return nil, models.NewScrapeError(
				models.ErrCodeConfiguration,
				fmt.Sprintf("user agent catalog row %d has %d fields, want 2", line, len(row)),
				nil,
			)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil || weight < 0 {
			return nil, models.NewScrapeError(
				models.ErrCodeConfiguration,
				fmt.Sprintf("user agent catalog row %d has invalid weight %q", line, row[1]),
				err,
			)
		}
		c.UserAgents = append(c.UserAgents, UserAgent{String: row[0], Weight: weight})
		c.totalWeight += weight
	}

	if len(c.UserAgents) == 0 {
		return nil, models.NewScrapeError(
			models.ErrCodeConfiguration, "user agent catalog is empty", nil)
	}
	if c.totalWeight <= 0 {
		return nil, models.NewScrapeError(
			models.ErrCodeConfiguration, "user agent catalog has no entry with positive weight", nil)
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(strings.NewReader(defaultUserAgentTSV))
})

// Default returns the embedded catalog, parsed and validated on first use.
// All callers share the same instance.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Sampler draws identities from a catalog. It consumes randomness but has no
// other side effects. Not safe for concurrent use; create one per scraper.
type Sampler struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewSampler creates a Sampler over the given catalog.
func NewSampler(c *Catalog) *Sampler {
	return &Sampler{
		catalog: c,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// UserAgent draws a weighted-random user-agent string from the catalog.
// Weights need not sum to 1; entries with zero weight are never drawn.
func (s *Sampler) UserAgent() string {
	x := s.rng.Float64() * s.catalog.totalWeight
	for _, ua := range s.catalog.UserAgents {
		x -= ua.Weight
		if x < 0 {
			return ua.String
		}
	}
	// Float accumulation can land exactly on the total; fall back to the
	// last positively weighted entry.
	for i := len(s.catalog.UserAgents) - 1; i >= 0; i-- {
		if s.catalog.UserAgents[i].Weight > 0 {
			return s.catalog.UserAgents[i].String
		}
	}
	return s.catalog.UserAgents[len(s.catalog.UserAgents)-1].String
}

// ScreenResolution draws a uniform-random resolution from the catalog.
func (s *Sampler) ScreenResolution() Resolution {
	return s.catalog.Resolutions[s.rng.IntN(len(s.catalog.Resolutions))]
}
