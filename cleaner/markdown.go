package cleaner

import (
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// mdConverter is created once and reused; the converter is goroutine-safe.
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea and HTML comments.
//   - commonmark plugin: standard Markdown rendering (headings, lists, links,
//     code blocks, emphasis, blockquotes).
//   - table plugin: preserves table structure with minimal cell padding.
var mdConverter = sync.OnceValue(func() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
})

// ToMarkdown converts HTML to Markdown. The domain parameter resolves
// relative URLs in <a> and <img> tags into absolute ones so the output is
// self-contained.
func ToMarkdown(rawHTML string, domain string) (string, error) {
	return mdConverter().ConvertString(rawHTML, converter.WithDomain(domain))
}
