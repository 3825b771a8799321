// Package report provides output formatting for extraction results.
//
// Supported formats:
//   - Text: the chunk-per-block plain text format for terminal and file output
//   - JSON: machine-readable output for tool integration
//   - Markdown: documentation-friendly summaries with tables
//
// All writers implement the Writer interface, and MultiWriter fans a
// result out to several destinations at once.
package report
