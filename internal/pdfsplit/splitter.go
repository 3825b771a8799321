package pdfsplit

import (
	"strings"
	"unicode/utf8"
)

// Default splitter parameters. The separator ladder is ordered from the
// most meaningful boundary to the least: article and section headings
// first, then paragraphs, lines, sentences, words, and finally single
// characters as a last resort.
const (
	// DefaultChunkSize is the target chunk size in characters.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the number of characters carried over from
	// the end of one chunk into the start of the next.
	DefaultChunkOverlap = 50
)

// DefaultSeparators returns the separator ladder used when none is
// configured.
func DefaultSeparators() []string {
	return []string{
		"\n\nArticle ",
		"\n\nSection ",
		"\n\n",
		"\n",
		". ",
		" ",
		"",
	}
}

// Splitter recursively splits text into chunks of roughly chunkSize
// characters with chunkOverlap characters of context carried between
// adjacent chunks.
//
// Design decision: We split recursively along a separator ladder rather
// than at fixed offsets because:
// 1. Chunks then end at semantic boundaries (articles, paragraphs)
// 2. A heading is kept with the text that follows it
// 3. Fixed-offset splitting cuts sentences mid-word
type Splitter struct {
	// chunkSize is the maximum chunk length in characters.
	chunkSize int

	// chunkOverlap is the target overlap between adjacent chunks.
	chunkOverlap int

	// separators is the ladder tried in order.
	separators []string
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(n int) SplitterOption {
	return func(s *Splitter) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithChunkOverlap sets the overlap between adjacent chunks in characters.
func WithChunkOverlap(n int) SplitterOption {
	return func(s *Splitter) {
		if n >= 0 {
			s.chunkOverlap = n
		}
	}
}

// WithSeparators replaces the separator ladder. The ladder should end
// with the empty string so splitting can always make progress.
func WithSeparators(separators []string) SplitterOption {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// NewSplitter creates a Splitter with the given options.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   DefaultSeparators(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Split breaks text into chunks. Whitespace-only chunks are dropped.
func (s *Splitter) Split(text string) []string {
	return s.splitRecursive(text, s.separators)
}

// splitRecursive splits text with the coarsest separator that occurs in
// it, merges small pieces back up to the chunk size, and recurses with
// the finer separators on pieces that are still too large.
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	// Pick the first separator present in the text. The empty string
	// always matches and splits into single characters.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepSeparator(text, separator)

	var final []string
	var pending []string

	for _, piece := range splits {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			pending = append(pending, piece)
			continue
		}

		// Flush accumulated small pieces before handling the oversized one.
		if len(pending) > 0 {
			final = append(final, s.merge(pending)...)
			pending = nil
		}
		if len(remaining) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				final = append(final, trimmed)
			}
		} else {
			final = append(final, s.splitRecursive(piece, remaining)...)
		}
	}

	if len(pending) > 0 {
		final = append(final, s.merge(pending)...)
	}

	return final
}

// merge concatenates the pieces greedily up to the chunk size, then
// carries roughly chunkOverlap characters into the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(current, ""))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, piece := range pieces {
		length := utf8.RuneCountInString(piece)

		if total+length > s.chunkSize && total > 0 {
			flush()

			// Drop pieces from the front until what remains fits within
			// the overlap budget and leaves room for the new piece.
			for total > s.chunkOverlap || (total+length > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += length
	}

	flush()
	return chunks
}

// splitKeepSeparator splits text by sep, re-attaching the separator to
// the front of each following piece so no characters are lost. An empty
// separator splits into single characters.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
