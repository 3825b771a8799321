// Package main provides the entry point for the webscrap CLI.
//
// webscrap crawls corporate governance and IR pages, segments them into
// structured text chunks, and writes reports suitable for downstream
// retrieval pipelines.
//
// Usage:
//
//	webscrap crawl <url>
//	webscrap crawl --json <url>
//	webscrap pdf report.pdf
//
// See --help for all available options.
package main

// main is the entry point for webscrap.
func main() {
	Execute()
}
