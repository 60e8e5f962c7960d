package main

import (
	"testing"
	"time"

	"github.com/use-agent/webminer/scraper"
)

func TestResolveWait(t *testing.T) {
	const fallback = 2 * time.Second

	tests := []struct {
		name string
		flag string // "" means the flag is not passed
		want time.Duration
	}{
		{name: "unset falls back to config", flag: "", want: fallback},
		{name: "explicit zero disables pacing", flag: "0", want: scraper.WaitNone},
		{name: "explicit value wins", flag: "500ms", want: 500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFetchCmd().Flags()
			if tt.flag != "" {
				if err := flags.Set("wait", tt.flag); err != nil {
					t.Fatalf("setting --wait: %v", err)
				}
			}
			if got := resolveWait(flags, fallback); got != tt.want {
				t.Errorf("resolveWait() = %v, want %v", got, tt.want)
			}
		})
	}
}
