package scraper

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

func TestBlockedResourceSet(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  []proto.NetworkResourceType
	}{
		{
			name:  "known types resolve",
			types: []string{"Image", "Stylesheet", "Font"},
			want: []proto.NetworkResourceType{
				proto.NetworkResourceTypeImage,
				proto.NetworkResourceTypeStylesheet,
				proto.NetworkResourceTypeFont,
			},
		},
		{
			name:  "unknown names ignored",
			types: []string{"Image", "Document", "websocket", ""},
			want:  []proto.NetworkResourceType{proto.NetworkResourceTypeImage},
		},
		{
			name:  "duplicates collapse",
			types: []string{"Media", "Media", "Script"},
			want: []proto.NetworkResourceType{
				proto.NetworkResourceTypeMedia,
				proto.NetworkResourceTypeScript,
			},
		},
		{name: "nil input", types: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blockedResourceSet(tt.types)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d resource types, want %d: %v", len(got), len(tt.want), got)
			}
			for _, rt := range tt.want {
				if _, ok := got[rt]; !ok {
					t.Errorf("resource type %q missing from the blocked set", rt)
				}
			}
		})
	}
}

func TestSetupHijack_NothingToBlock(t *testing.T) {
	// With nothing to block, no router is installed and the page is never
	// touched.
	if r := setupHijack(nil, nil); r != nil {
		t.Error("empty list should install no router")
	}
	if r := setupHijack(nil, []string{"Document", "bogus"}); r != nil {
		t.Error("unknown-only list should install no router")
	}
}
