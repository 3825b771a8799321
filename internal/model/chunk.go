package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"
)

// ChunkIDLength is the number of hex characters in a chunk identifier.
// A truncated SHA-256 digest of this length is collision-resistant for
// any realistic corpus size while staying short enough to read in reports.
const ChunkIDLength = 16

// ContentTypeTable is the content type assigned to flattened tables.
// All other chunks carry the HTML tag name they were extracted from.
const ContentTypeTable = "table"

// Chunk represents one emitted unit of extracted content.
// Chunks are immutable once appended to an ExtractionResult.
type Chunk struct {
	// SourceURL is the URL of the page the chunk was extracted from.
	SourceURL string `json:"source_url"`

	// DocumentTitle is the page title, or "Unknown" if the page has none.
	DocumentTitle string `json:"document_title"`

	// Organization is the organization label, either configured statically
	// or derived from the page by the organization extractor.
	Organization string `json:"organization,omitempty"`

	// DocumentType tags the kind of document being ingested
	// (e.g. "governance_policy").
	DocumentType string `json:"document_type"`

	// SectionTitle is the text of the most recent heading seen before this
	// chunk. Empty until the first heading on the page.
	SectionTitle string `json:"section_title,omitempty"`

	// SectionLevel is the heading rank (1-4) of the current section.
	// Zero means no heading has been seen yet.
	SectionLevel int `json:"section_level,omitempty"`

	// Chapter is the most recent heading starting with "chapter", if any.
	Chapter string `json:"chapter,omitempty"`

	// Article is the most recent heading starting with "article", if any.
	Article string `json:"article,omitempty"`

	// ContentType is the HTML tag the text came from ("p", "li", "td", ...)
	// or ContentTypeTable for flattened tables.
	ContentType string `json:"content_type"`

	// Text is the whitespace-normalized chunk text.
	Text string `json:"text"`

	// CharCount is the number of characters (runes) in Text.
	CharCount int `json:"char_count"`

	// ChunkID is the deterministic identifier derived from Text.
	ChunkID string `json:"chunk_id"`

	// ExtractedAt is the time the page was processed, in UTC.
	ExtractedAt time.Time `json:"extracted_at"`
}

// ChunkID derives the deterministic identifier for a piece of chunk text.
//
// The identifier is a pure function of the text bytes: metadata such as the
// source URL or timestamp never participates. Identical boilerplate repeated
// across pages therefore collapses to the same identifier, which makes
// dedup-by-content possible downstream.
func ChunkID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:ChunkIDLength]
}

// NewChunk builds a chunk for the given text, stamping it with the current
// hierarchy context and computing the derived fields.
func NewChunk(text, contentType string, hc HierarchyContext, extractedAt time.Time) Chunk {
	return Chunk{
		SectionTitle: hc.SectionTitle,
		SectionLevel: hc.SectionLevel,
		Chapter:      hc.Chapter,
		Article:      hc.Article,
		ContentType:  contentType,
		Text:         text,
		CharCount:    utf8.RuneCountInString(text),
		ChunkID:      ChunkID(text),
		ExtractedAt:  extractedAt,
	}
}

// SectionLevelLabel returns the section level as an HTML heading tag name
// ("h1" through "h4"), or the empty string if no heading has been seen.
func (c *Chunk) SectionLevelLabel() string {
	if c.SectionLevel == 0 {
		return ""
	}
	return fmt.Sprintf("h%d", c.SectionLevel)
}
