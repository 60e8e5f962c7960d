package cleaner

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractText_NoBody(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty input", ""},
		{"bare fragment", "<div>hi</div>"},
		{"head only", "<html><head><title>t</title></head></html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.html); got != "" {
				t.Errorf("got %q, want empty string", got)
			}
		})
	}
}

func TestExtractText_RemovesScriptAndStyle(t *testing.T) {
	html := "<html><body><script>var x = 1;</script><style>p{color:red}</style>Hello</body></html>"
	if got := ExtractText(html); got != "Hello" {
		t.Errorf("got %q, want %q", got, "Hello")
	}
}

func TestExtractText_CollapsesNewlineRuns(t *testing.T) {
	// The three collapse stages run in sequence, each on the previous
	// stage's output, so every newline run ends up as a single newline.
	tests := []struct {
		name string
		html string
		want string
	}{
		{"five newlines", "<html><body><script>x</script>Hello\n\n\n\n\nWorld</body></html>", "Hello\nWorld"},
		{"four newlines", "<html><body>a\n\n\n\nb</body></html>", "a\nb"},
		{"two newlines", "<html><body>a\n\nb</body></html>", "a\nb"},
		{"single newline kept", "<html><body>a\nb</body></html>", "a\nb"},
		{"surrounding whitespace trimmed", "<html><body>\n\n  padded  \n\n</body></html>", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.html); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_Idempotent(t *testing.T) {
	html := "<html><body>one\n\n\n\n\n\ntwo\n\n\nthree\nfour</body></html>"
	once := ExtractText(html)
	twice := ExtractText("<html><body>" + once + "</body></html>")
	if once != twice {
		t.Errorf("second pass changed the text: %q -> %q", once, twice)
	}
}

func TestExtractLinks_OrderAndFiltering(t *testing.T) {
	html := `<html><body>
		<a href="https://a.com">A</a>
		<a href="/rel">B</a>
		<a href="http://b.com">C</a>
		<a href="mailto:x@example.com">D</a>
		<a href="#fragment">E</a>
		<a>no href</a>
	</body></html>`
	want := []string{"https://a.com", "http://b.com"}
	if got := ExtractLinks(html); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractLinks_NoDeduplication(t *testing.T) {
	html := `<html><body><a href="https://a.com">1</a><a href="https://a.com">2</a></body></html>`
	want := []string{"https://a.com", "https://a.com"}
	if got := ExtractLinks(html); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractLinks_NoAnchors(t *testing.T) {
	if got := ExtractLinks("<html><body><p>no links</p></body></html>"); len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

func TestFormatHTML_Structure(t *testing.T) {
	got, err := FormatHTML("<html><body><p>Hi</p></body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<html>\n <head>\n </head>\n <body>\n  <p>\n   Hi\n  </p>\n </body>\n</html>\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatHTML_Idempotent(t *testing.T) {
	inputs := []string{
		"<html><body><p>Hi</p><div><a href=\"https://a.com\">link</a> text</div></body></html>",
		"<p>bare fragment with <b>markup</b> &amp; entities</p>",
		"<html><head><title>t</title></head><body><script>var a = 1;</script></body></html>",
		"<ul><li>one<li>two</ul>",
	}
	for _, in := range inputs {
		once, err := FormatHTML(in)
		if err != nil {
			t.Fatalf("first pass failed for %q: %v", in, err)
		}
		twice, err := FormatHTML(once)
		if err != nil {
			t.Fatalf("second pass failed for %q: %v", in, err)
		}
		if once != twice {
			t.Errorf("formatting is not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestFormatHTML_VoidElements(t *testing.T) {
	got, err := FormatHTML("<html><body><br><img src=\"x.png\"></body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "</br>") || strings.Contains(got, "</img>") {
		t.Errorf("void elements must not get closing tags:\n%s", got)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple", "<html><head><title>Page Title</title></head><body></body></html>", "Page Title"},
		{"whitespace trimmed", "<title>  padded  </title>", "padded"},
		{"missing", "<html><body>no title</body></html>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.html); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	html := `<html><body><div class="content"><p>keep</p></div><div class="ad">drop</div></body></html>`

	got, err := Select(html, "div.content")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "keep") || strings.Contains(got, "drop") {
		t.Errorf("selection kept the wrong elements: %q", got)
	}
}

func TestSelect_NoMatchReturnsInput(t *testing.T) {
	html := "<html><body><p>text</p></body></html>"
	got, err := Select(html, "article.missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != html {
		t.Errorf("got %q, want the original input", got)
	}
}

func TestSelect_InvalidSelector(t *testing.T) {
	if _, err := Select("<p>x</p>", "[[["); err == nil {
		t.Fatal("expected error for invalid selector, got nil")
	}
}

func TestToMarkdown(t *testing.T) {
	got, err := ToMarkdown("<html><body><h1>Title</h1><p>Some paragraph.</p></body></html>", "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("heading not converted: %q", got)
	}
	if !strings.Contains(got, "Some paragraph.") {
		t.Errorf("paragraph text missing: %q", got)
	}
}

func TestExtractArticle_FallsBackOnShortContent(t *testing.T) {
	raw := "<html><body><p>tiny</p></body></html>"
	article, ok := ExtractArticle(raw, "https://example.com/post")
	if ok {
		t.Fatal("expected fallback for content below the minimum length")
	}
	if article.Content != raw {
		t.Errorf("fallback must return the raw HTML unchanged")
	}
}

func TestExtractArticle_FallsBackOnBadURL(t *testing.T) {
	raw := "<html><body><p>whatever</p></body></html>"
	if _, ok := ExtractArticle(raw, "://not-a-url"); ok {
		t.Fatal("expected fallback for unparseable source URL")
	}
}
