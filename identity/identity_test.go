package identity

import (
	"strings"
	"testing"

	"github.com/use-agent/webminer/models"
)

func TestParseCatalog_Valid(t *testing.T) {
	tsv := "agent-a\t2.5\nagent-b\t0.5\nagent-c\t0\n"
	c, err := ParseCatalog(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.UserAgents) != 3 {
		t.Fatalf("got %d user agents, want 3", len(c.UserAgents))
	}
	if c.UserAgents[0].String != "agent-a" || c.UserAgents[0].Weight != 2.5 {
		t.Errorf("first entry = %+v, want agent-a/2.5", c.UserAgents[0])
	}
	if len(c.Resolutions) != 5 {
		t.Errorf("got %d resolutions, want the 5 common desktop ones", len(c.Resolutions))
	}
}

func TestParseCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name string
		tsv  string
	}{
		{"empty catalog", ""},
		{"missing weight column", "agent-a\n"},
		{"extra column", "agent-a\t1.0\textra\n"},
		{"non-numeric weight", "agent-a\theavy\n"},
		{"negative weight", "agent-a\t-1\n"},
		{"all weights zero", "agent-a\t0\nagent-b\t0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.tsv))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !models.HasCode(err, models.ErrCodeConfiguration) {
				t.Errorf("error %v is not a CONFIGURATION_ERROR", err)
			}
		})
	}
}

func TestSampler_UserAgentAlwaysInCatalog(t *testing.T) {
	tsv := "agent-a\t10\nagent-b\t1\nagent-c\t0.01\n"
	c, err := ParseCatalog(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	known := map[string]bool{"agent-a": true, "agent-b": true, "agent-c": true}

	s := NewSampler(c)
	for i := 0; i < 1000; i++ {
		if ua := s.UserAgent(); !known[ua] {
			t.Fatalf("draw %d returned %q, not in catalog", i, ua)
		}
	}
}

func TestSampler_ZeroWeightNeverDrawn(t *testing.T) {
	tsv := "never\t0\nalways\t3\n"
	c, err := ParseCatalog(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := NewSampler(c)
	for i := 0; i < 500; i++ {
		if ua := s.UserAgent(); ua != "always" {
			t.Fatalf("draw %d returned %q, want %q", i, ua, "always")
		}
	}
}

func TestSampler_ScreenResolutionFromCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	known := map[Resolution]bool{}
	for _, r := range c.Resolutions {
		known[r] = true
	}

	s := NewSampler(c)
	for i := 0; i < 200; i++ {
		if r := s.ScreenResolution(); !known[r] {
			t.Fatalf("draw %d returned %v, not in catalog", i, r)
		}
	}
}

func TestDefault_EmbeddedCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog failed to load: %v", err)
	}
	if len(c.UserAgents) == 0 {
		t.Fatal("embedded catalog has no user agents")
	}
	for i, ua := range c.UserAgents {
		if !strings.HasPrefix(ua.String, "Mozilla/") {
			t.Errorf("entry %d does not look like a user agent: %q", i, ua.String)
		}
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Resolution
		wantErr bool
	}{
		{"full hd", "1920,1080", Resolution{1920, 1080}, false},
		{"with spaces", " 1366 , 768 ", Resolution{1366, 768}, false},
		{"missing height", "1920", Resolution{}, true},
		{"extra field", "1920,1080,60", Resolution{}, true},
		{"non-numeric", "wide,tall", Resolution{}, true},
		{"zero width", "0,1080", Resolution{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResolution(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !models.HasCode(err, models.ErrCodeConfiguration) {
					t.Errorf("error %v is not a CONFIGURATION_ERROR", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolution_String(t *testing.T) {
	r := Resolution{1600, 900}
	if got := r.String(); got != "1600,900" {
		t.Errorf("got %q, want %q", got, "1600,900")
	}
}
