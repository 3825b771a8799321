package pdfsplit

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

// TestSplitterShortText tests that text below the chunk size is untouched.
func TestSplitterShortText(t *testing.T) {
	t.Parallel()

	s := NewSplitter()
	text := "The board of directors shall oversee the management of the company."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want original text", chunks[0])
	}
}

// TestSplitterEmptyText tests that whitespace-only input yields no chunks.
func TestSplitterEmptyText(t *testing.T) {
	t.Parallel()

	s := NewSplitter()
	for _, text := range []string{"", "   ", "\n\n\n"} {
		if got := s.Split(text); len(got) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

// TestSplitterArticleBoundaries tests that article headings stay attached
// to the text that follows them.
func TestSplitterArticleBoundaries(t *testing.T) {
	t.Parallel()

	first := "Article 1 Purpose\n" + strings.Repeat("This policy establishes the governance framework. ", 7)
	second := "Article 2 Scope\n" + strings.Repeat("This policy applies to all directors and officers. ", 7)
	text := first + "\n\n" + second

	s := NewSplitter()
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	if !strings.HasPrefix(chunks[0], "Article 1") {
		t.Errorf("first chunk should start with its heading, got %q", truncate(chunks[0]))
	}

	found := false
	for _, c := range chunks {
		if strings.HasPrefix(c, "Article 2") {
			found = true
		}
	}
	if !found {
		t.Error("expected a chunk starting with the Article 2 heading")
	}
}

// TestSplitterChunkSize tests that merged chunks respect the size limit.
func TestSplitterChunkSize(t *testing.T) {
	t.Parallel()

	// A long run of sentences with no paragraph breaks forces the
	// sentence separator, so every chunk must fit the size limit.
	text := strings.TrimSpace(strings.Repeat("Directors owe a duty of care to the company. ", 60))

	s := NewSplitter()
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}

	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > DefaultChunkSize {
			t.Errorf("chunk %d has %d chars, exceeds limit %d", i, n, DefaultChunkSize)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

// TestSplitterOverlap tests that adjacent chunks share trailing context.
func TestSplitterOverlap(t *testing.T) {
	t.Parallel()

	// Short varied sentences so the overlap budget can retain whole
	// pieces and the containment check below is meaningful.
	var sb strings.Builder
	for i := 1; i <= 80; i++ {
		fmt.Fprintf(&sb, "Clause %d applies. ", i)
	}
	text := strings.TrimSpace(sb.String())

	s := NewSplitter()
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}

	// Overlap carry-over works on sentence pieces, so the head of each
	// chunk after the first should appear inside the previous chunk.
	for i := 0; i < len(chunks)-1; i++ {
		head := []rune(chunks[i+1])
		if len(head) > 20 {
			head = head[:20]
		}
		if !strings.Contains(chunks[i], strings.TrimSpace(string(head))) {
			t.Errorf("chunk %d does not overlap with chunk %d", i+1, i)
		}
	}
}

// TestSplitterCustomOptions tests size and separator overrides.
func TestSplitterCustomOptions(t *testing.T) {
	t.Parallel()

	s := NewSplitter(
		WithChunkSize(30),
		WithChunkOverlap(0),
		WithSeparators([]string{" ", ""}),
	)

	chunks := s.Split("governance compliance disclosure audit nomination remuneration")
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several with size 30", len(chunks))
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 30 {
			t.Errorf("chunk %d has %d chars, exceeds limit 30", i, utf8.RuneCountInString(c))
		}
	}
}

// truncate shortens a string for readable test failure messages.
func truncate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
