package segment

import (
	"time"
	"unicode/utf8"

	"github.com/Kavibharathi169/webscrapping/internal/crawler"
	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// headingRanks maps heading tags to their section level.
// Only ranks 1-4 participate in hierarchy tracking; h5/h6 are rare in
// governance documents and treated as ordinary content by the reference
// scripts.
var headingRanks = map[string]int{
	"h1": 1,
	"h2": 2,
	"h3": 3,
	"h4": 4,
}

// contentTags are the non-heading tags visited by the segmenter.
var contentTags = []string{"p", "li", "td", "dd"}

// containerTags are generic containers added to the visit set when
// configured. They match the single-page reference variant but produce
// noisier, overlapping chunks.
var containerTags = []string{"div", "span"}

// TitleFallback is the document title used when a page has no <title>.
const TitleFallback = "Unknown"

// Extractor implements crawler.PageExtractor. It runs the linear
// segmentation pass, flattens tables, and stamps every chunk with page-level
// metadata (title, organization, document type).
type Extractor struct {
	// minChunkLen is the minimum text length in characters for a chunk.
	minChunkLen int

	// includeContainers adds div and span to the visited tag set.
	includeContainers bool

	// documentType tags every chunk.
	documentType string

	// orgLabel is the static organization label. When empty the extractor
	// derives one per page via orgExtract.
	orgLabel string

	// orgExtract is the pluggable organization detection strategy.
	orgExtract OrgExtractor
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMinChunkLen sets the minimum chunk text length in characters.
func WithMinChunkLen(n int) ExtractorOption {
	return func(e *Extractor) {
		e.minChunkLen = n
	}
}

// WithContainers adds generic div and span containers to the visited tags.
func WithContainers(include bool) ExtractorOption {
	return func(e *Extractor) {
		e.includeContainers = include
	}
}

// WithDocumentType sets the document type stamped on every chunk.
func WithDocumentType(documentType string) ExtractorOption {
	return func(e *Extractor) {
		e.documentType = documentType
	}
}

// WithStaticOrg sets a fixed organization label, disabling derivation.
func WithStaticOrg(label string) ExtractorOption {
	return func(e *Extractor) {
		e.orgLabel = label
	}
}

// WithOrgExtractor sets the organization detection strategy used when no
// static label is configured.
func WithOrgExtractor(fn OrgExtractor) ExtractorOption {
	return func(e *Extractor) {
		e.orgExtract = fn
	}
}

// NewExtractor creates an Extractor with the given options.
// Defaults reproduce the reference behavior: minimum length 20, no generic
// containers, "governance_policy" document type, and "Co., Ltd" pattern
// matching for the organization label.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		minChunkLen:  20,
		documentType: "governance_policy",
		orgExtract:   PatternOrgExtractor("Co., Ltd"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract segments one page into chunks: the linear pass over the allowed
// tag set first, then the table flattening pass. All chunks share one
// extraction timestamp and the page-level metadata stamp.
func (e *Extractor) Extract(doc *crawler.Document, pageURL string) []model.Chunk {
	extractedAt := time.Now().UTC()

	title := doc.Title()
	if title == "" {
		title = TitleFallback
	}

	org := e.orgLabel
	if org == "" && e.orgExtract != nil {
		org = e.orgExtract(doc)
	}

	chunks, hc := e.segment(doc, extractedAt)

	// Tables are flattened after the linear pass and therefore stamped with
	// the page's final heading context. See the package comment.
	chunks = append(chunks, FlattenTables(doc, hc, extractedAt)...)

	for i := range chunks {
		chunks[i].SourceURL = pageURL
		chunks[i].DocumentTitle = title
		chunks[i].Organization = org
		chunks[i].DocumentType = e.documentType
	}

	return chunks
}

// segment runs the linear pass: visit elements in document order restricted
// to the allowed tag set, thread the hierarchy context through as a value,
// and emit a chunk for every non-heading element above the length threshold.
// It returns the chunks and the final context for the table pass.
func (e *Extractor) segment(doc *crawler.Document, extractedAt time.Time) ([]model.Chunk, model.HierarchyContext) {
	tags := make([]string, 0, 10)
	for tag := range headingRanks {
		tags = append(tags, tag)
	}
	tags = append(tags, contentTags...)
	if e.includeContainers {
		tags = append(tags, containerTags...)
	}

	var chunks []model.Chunk
	hc := model.HierarchyContext{}

	for _, el := range doc.FindAll(tags...) {
		text := crawler.Text(el)
		if text == "" {
			continue
		}

		if rank, isHeading := headingRanks[el.Data]; isHeading {
			// Headings update the context but never produce a chunk.
			hc = hc.WithHeading(text, rank)
			continue
		}

		// Too-short text is a navigation label or similar, not content.
		// Discarding it is a filtering decision, not an error.
		if utf8.RuneCountInString(text) < e.minChunkLen {
			continue
		}

		chunks = append(chunks, model.NewChunk(text, el.Data, hc, extractedAt))
	}

	return chunks, hc
}
