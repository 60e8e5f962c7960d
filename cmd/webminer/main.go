// Package main provides the webminer CLI.
//
// webminer fetches a web page's HTML — with a plain HTTP GET or a fully
// rendering headless browser — while presenting a randomized desktop browser
// identity, and extracts content from the result.
//
// Usage:
//
//	webminer fetch https://example.com
//	webminer fetch --render --browser chrome --text https://example.com
//
// See --help for all available options.
package main

// main is the entry point for webminer.
func main() {
	Execute()
}
