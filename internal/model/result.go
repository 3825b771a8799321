package model

import "time"

// ExtractionResult is the accumulated output of one crawl session.
// The session owns its chunk list exclusively: chunks are appended in
// extraction order and are immutable once added.
//
// Design decision: Session state lives in this value rather than in package
// globals so that multiple independent crawl sessions can run concurrently
// without shared-state hazards.
type ExtractionResult struct {
	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// BaseDomain is the host of the seed URL. Only links on this domain
	// were followed.
	BaseDomain string `json:"base_domain"`

	// StartedAt is when the crawl began, in UTC.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl completed, in UTC.
	FinishedAt time.Time `json:"finished_at"`

	// PagesFetched is the number of pages successfully fetched.
	PagesFetched int `json:"pages_fetched"`

	// URLsSeen is the number of unique URLs marked visited.
	URLsSeen int `json:"urls_seen"`

	// Chunks holds every emitted chunk in extraction order.
	// An empty slice is a valid result: a crawl that fetches nothing
	// still produces a (possibly empty) report.
	Chunks []Chunk `json:"chunks"`

	// Error records a fatal session error, if any. Per-page fetch failures
	// are never recorded here; they only skip the offending URL.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewExtractionResult creates an empty result for the given seed.
func NewExtractionResult(seed string) *ExtractionResult {
	return &ExtractionResult{
		Seed:      seed,
		StartedAt: time.Now().UTC(),
		Chunks:    make([]Chunk, 0),
	}
}

// AddChunks appends chunks to the result in order.
func (r *ExtractionResult) AddChunks(chunks ...Chunk) {
	r.Chunks = append(r.Chunks, chunks...)
}

// CountByContentType returns the number of chunks per content type.
// Used by report writers to summarize the extraction.
func (r *ExtractionResult) CountByContentType() map[string]int {
	counts := make(map[string]int)
	for i := range r.Chunks {
		counts[r.Chunks[i].ContentType]++
	}
	return counts
}

// Sections returns the distinct section titles in first-seen order.
func (r *ExtractionResult) Sections() []string {
	seen := make(map[string]bool)
	sections := make([]string, 0)
	for i := range r.Chunks {
		title := r.Chunks[i].SectionTitle
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		sections = append(sections, title)
	}
	return sections
}
