package segment

import (
	"strings"
	"time"

	"github.com/Kavibharathi169/webscrapping/internal/crawler"
	"github.com/Kavibharathi169/webscrapping/internal/model"
	"golang.org/x/net/html"
)

// FlattenTables converts every table in the document into line-oriented
// pipe-delimited text, one chunk per table. For each row, header and data
// cell texts are collected in column order and joined with " | "; rows are
// joined with newlines. Tables producing empty output are skipped.
//
// All table chunks are stamped with the hierarchy context current when the
// tables are processed, which in this design is the last heading on the
// page. Table chunks are exempt from the minimum length threshold: a small
// table is still structured content.
func FlattenTables(doc *crawler.Document, hc model.HierarchyContext, extractedAt time.Time) []model.Chunk {
	var chunks []model.Chunk

	for _, table := range doc.FindAll("table") {
		text := flattenTable(table)
		if text == "" {
			continue
		}
		chunks = append(chunks, model.NewChunk(text, model.ContentTypeTable, hc, extractedAt))
	}

	return chunks
}

// flattenTable linearizes a single table element.
func flattenTable(table *html.Node) string {
	var rows []string

	for _, tr := range findWithin(table, "tr") {
		var cells []string
		for _, cell := range findWithin(tr, "th", "td") {
			cells = append(cells, crawler.Text(cell))
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, strings.Join(cells, " | "))
	}

	return strings.TrimSpace(strings.Join(rows, "\n"))
}

// findWithin returns descendant elements of n matching any of the tags, in
// document order.
func findWithin(n *html.Node, tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[tag] = true
	}

	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && want[c.Data] {
				nodes = append(nodes, c)
			}
			walk(c)
		}
	}
	walk(n)
	return nodes
}
