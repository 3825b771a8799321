package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// ruleWidth is the width of the "=" separator between chunk blocks.
const ruleWidth = 80

// TextWriter outputs extraction results as plain text, one block per chunk.
// Each block carries the chunk metadata as "key: value" lines followed by
// the chunk content.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Downstream ingestion tooling already parses this block layout
type TextWriter struct {
	baseWriter

	// withSummary prepends a session summary before the chunk blocks.
	withSummary bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithSummary prepends a crawl session summary to the output.
func WithSummary() TextWriterOption {
	return func(w *TextWriter) {
		w.withSummary = true
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full extraction result in plain text format.
func (w *TextWriter) Write(result *model.ExtractionResult) (int, error) {
	var sb strings.Builder

	if w.withSummary {
		w.writeSummary(&sb, result)
	}
	writeChunkBlocks(&sb, result.Chunks)

	return w.output.Write([]byte(sb.String()))
}

// WriteChunks outputs the chunks without session metadata.
func (w *TextWriter) WriteChunks(chunks []model.Chunk) (int, error) {
	var sb strings.Builder
	writeChunkBlocks(&sb, chunks)
	return w.output.Write([]byte(sb.String()))
}

// writeSummary writes the crawl session header.
func (w *TextWriter) writeSummary(sb *strings.Builder, result *model.ExtractionResult) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("EXTRACTION SUMMARY\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Seed:          %s\n", result.Seed)
	fmt.Fprintf(sb, "Base Domain:   %s\n", result.BaseDomain)
	fmt.Fprintf(sb, "Started:       %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Finished:      %s\n", result.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Pages Fetched: %d\n", result.PagesFetched)
	fmt.Fprintf(sb, "URLs Seen:     %d\n", result.URLsSeen)
	fmt.Fprintf(sb, "Chunks:        %d\n", len(result.Chunks))
	if result.ErrorMessage != "" {
		fmt.Fprintf(sb, "Error:         %s\n", result.ErrorMessage)
	}
}

// writeChunkBlocks writes one block per chunk.
//
// The block layout is fixed: a "=" rule, "CHUNK N", another rule, the
// metadata fields as "key: value" lines, a blank line, "CONTENT:" and the
// chunk text. Field names and order are stable so that existing parsers of
// this format keep working.
func writeChunkBlocks(sb *strings.Builder, chunks []model.Chunk) {
	for i := range chunks {
		c := &chunks[i]

		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", ruleWidth))
		sb.WriteString("\n")
		fmt.Fprintf(sb, "CHUNK %d\n", i+1)
		sb.WriteString(strings.Repeat("=", ruleWidth))
		sb.WriteString("\n")

		fmt.Fprintf(sb, "source_url: %s\n", c.SourceURL)
		fmt.Fprintf(sb, "document_title: %s\n", c.DocumentTitle)
		fmt.Fprintf(sb, "organization: %s\n", c.Organization)
		fmt.Fprintf(sb, "document_type: %s\n", c.DocumentType)
		fmt.Fprintf(sb, "section_title: %s\n", c.SectionTitle)
		fmt.Fprintf(sb, "section_level: %s\n", c.SectionLevelLabel())
		fmt.Fprintf(sb, "chapter: %s\n", c.Chapter)
		fmt.Fprintf(sb, "article: %s\n", c.Article)
		fmt.Fprintf(sb, "content_type: %s\n", c.ContentType)
		fmt.Fprintf(sb, "char_count: %d\n", c.CharCount)
		fmt.Fprintf(sb, "chunk_id: %s\n", c.ChunkID)
		fmt.Fprintf(sb, "extracted_at: %s\n", c.ExtractedAt.UTC().Format(time.RFC3339))

		sb.WriteString("\nCONTENT:\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
}
