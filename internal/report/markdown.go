package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// MarkdownWriter outputs extraction results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// titler renders content-type keys ("table", "p") as display labels.
	titler cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.English),
	}
}

// Write outputs the full extraction result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ExtractionResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeContentTypes(md, result)
	w.writeSections(md, result)
	w.writeChunkTable(md, result.Chunks)

	return len(md.String()), md.Build()
}

// WriteChunks outputs only the chunk table in Markdown format.
func (w *MarkdownWriter) WriteChunks(chunks []model.Chunk) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeChunkTable(md, chunks)
	return len(md.String()), md.Build()
}

// writeHeader writes the session information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ExtractionResult) {
	md.H1("Extraction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + result.Seed + "`"},
			{"Base Domain", "`" + result.BaseDomain + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", result.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Fetched", strconv.Itoa(result.PagesFetched)},
			{"URLs Seen", strconv.Itoa(result.URLsSeen)},
			{"Chunks", strconv.Itoa(len(result.Chunks))},
			{"Status", w.getStatusText(result)},
		},
	})
	md.PlainText("")

	if len(result.Chunks) == 0 {
		md.Note("No content chunks were extracted from this crawl.")
		md.PlainText("")
	}
}

// getStatusText returns the status text based on result state.
func (w *MarkdownWriter) getStatusText(result *model.ExtractionResult) string {
	if result.ErrorMessage != "" {
		return "❌ Error - " + result.ErrorMessage
	}
	if result.Error != nil {
		return "❌ Error - " + result.Error.Error()
	}
	return "✅ Complete"
}

// writeContentTypes writes the per-content-type chunk counts.
func (w *MarkdownWriter) writeContentTypes(md *markdown.Markdown, result *model.ExtractionResult) {
	counts := result.CountByContentType()
	if len(counts) == 0 {
		return
	}

	md.H2("Chunks by Content Type")
	md.PlainText("")

	// Stable row order: walk chunks in extraction order and emit each
	// content type the first time it appears.
	seen := make(map[string]bool)
	rows := make([][]string, 0, len(counts))
	for i := range result.Chunks {
		ct := result.Chunks[i].ContentType
		if seen[ct] {
			continue
		}
		seen[ct] = true
		rows = append(rows, []string{w.titler.String(ct), strconv.Itoa(counts[ct])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Content Type", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSections writes the distinct section titles.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, result *model.ExtractionResult) {
	sections := result.Sections()
	if len(sections) == 0 {
		return
	}

	md.H2("Sections")
	md.PlainText("")
	md.BulletList(sections...)
	md.PlainText("")
}

// writeChunkTable writes the chunk listing with truncated content previews.
func (w *MarkdownWriter) writeChunkTable(md *markdown.Markdown, chunks []model.Chunk) {
	md.H2("Chunks")
	md.PlainText("")

	if len(chunks) == 0 {
		md.PlainText("No chunks.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(chunks))
	for i := range chunks {
		c := &chunks[i]

		section := c.SectionTitle
		if section == "" {
			section = "-"
		}

		rows[i] = []string{
			"`" + c.ChunkID + "`",
			truncateString(section, 40),
			w.titler.String(c.ContentType),
			strconv.Itoa(c.CharCount),
			truncateString(c.Text, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Section", "Type", "Chars", "Content"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
