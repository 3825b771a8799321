package segment

import (
	"strings"
	"testing"

	"github.com/Kavibharathi169/webscrapping/internal/crawler"
)

func parse(t *testing.T, page string) *crawler.Document {
	t.Helper()
	doc, err := crawler.ParseDocument("http://example.com/governance/", strings.NewReader(page))
	if err != nil {
		t.Fatalf("failed to parse test page: %v", err)
	}
	return doc
}

// TestExtractorHierarchy tests heading attribution.
func TestExtractorHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("paragraphs carry the nearest preceding article", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>Articles of Incorporation</title></head><body>
			<h2>Article 5</h2>
			<p>The first paragraph under article five has enough text.</p>
			<p>The second paragraph under article five also qualifies.</p>
			<h2>Article 6</h2>
			<p>The only paragraph under article six is long enough too.</p>
		</body></html>`

		chunks := NewExtractor().Extract(parse(t, page), "http://example.com/governance/")
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}

		for i, wantArticle := range []string{"Article 5", "Article 5", "Article 6"} {
			if chunks[i].Article != wantArticle {
				t.Errorf("chunk %d: expected article %q, got %q", i, wantArticle, chunks[i].Article)
			}
			if chunks[i].SectionTitle != wantArticle {
				t.Errorf("chunk %d: expected section %q, got %q", i, wantArticle, chunks[i].SectionTitle)
			}
			if chunks[i].SectionLevel != 2 {
				t.Errorf("chunk %d: expected section level 2, got %d", i, chunks[i].SectionLevel)
			}
		}
	})

	t.Run("headings produce no chunk", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<h1>A heading long enough to pass any length threshold easily</h1>
			<p>Content paragraph with sufficient length to be kept.</p>
		</body></html>`

		chunks := NewExtractor().Extract(parse(t, page), "http://example.com/")
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].ContentType != "p" {
			t.Errorf("expected content type p, got %q", chunks[0].ContentType)
		}
	})

	t.Run("hierarchy fields empty before first heading", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>An introductory paragraph that precedes every heading on the page.</p>
			<h2>Chapter 1 General</h2>
			<p>A paragraph that follows the chapter heading with enough text.</p>
		</body></html>`

		chunks := NewExtractor().Extract(parse(t, page), "http://example.com/")
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}

		if chunks[0].SectionTitle != "" || chunks[0].SectionLevel != 0 || chunks[0].Chapter != "" {
			t.Errorf("pre-heading chunk must have empty hierarchy, got %+v", chunks[0])
		}
		if chunks[1].Chapter != "Chapter 1 General" {
			t.Errorf("expected chapter label, got %q", chunks[1].Chapter)
		}
	})
}

// TestExtractorThreshold tests the minimum length filter.
func TestExtractorThreshold(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<p>Ten chars!</p>
		<p>This one has 25 chars ok.</p>
	</body></html>`

	chunks := NewExtractor(WithMinChunkLen(20)).Extract(parse(t, page), "http://example.com/")
	if len(chunks) != 1 {
		t.Fatalf("expected the short paragraph to be dropped, got %d chunks", len(chunks))
	}
	if chunks[0].Text != "This one has 25 chars ok." {
		t.Errorf("unexpected surviving chunk: %q", chunks[0].Text)
	}
	if chunks[0].CharCount != 25 {
		t.Errorf("expected 25 characters, got %d", chunks[0].CharCount)
	}
}

// TestExtractorMetadata tests page-level stamps.
func TestExtractorMetadata(t *testing.T) {
	t.Parallel()

	t.Run("title falls back to Unknown", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><p>A paragraph long enough to produce a chunk.</p></body></html>`
		chunks := NewExtractor().Extract(parse(t, page), "http://example.com/")
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].DocumentTitle != TitleFallback {
			t.Errorf("expected %q, got %q", TitleFallback, chunks[0].DocumentTitle)
		}
	})

	t.Run("derives organization from footer", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>A paragraph long enough to produce a content chunk.</p>
			<footer>Copyright Halows Co., Ltd. All rights reserved.</footer>
		</body></html>`

		chunks := NewExtractor().Extract(parse(t, page), "http://example.com/")
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		if !strings.Contains(chunks[0].Organization, "Halows Co., Ltd.") {
			t.Errorf("expected derived organization, got %q", chunks[0].Organization)
		}
	})

	t.Run("static org label wins over derivation", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>A paragraph long enough to produce a content chunk.</p>
			<footer>Copyright Other Co., Ltd.</footer>
		</body></html>`

		chunks := NewExtractor(WithStaticOrg("Fixed Org")).Extract(parse(t, page), "http://example.com/")
		if chunks[0].Organization != "Fixed Org" {
			t.Errorf("expected static label, got %q", chunks[0].Organization)
		}
	})

	t.Run("stamps url and document type", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>Policy</title></head><body>
			<p>A paragraph long enough to produce a content chunk.</p>
		</body></html>`

		chunks := NewExtractor(WithDocumentType("ir_material")).Extract(parse(t, page), "http://example.com/ir/")
		if chunks[0].SourceURL != "http://example.com/ir/" {
			t.Errorf("unexpected source URL: %q", chunks[0].SourceURL)
		}
		if chunks[0].DocumentType != "ir_material" {
			t.Errorf("unexpected document type: %q", chunks[0].DocumentType)
		}
		if chunks[0].ChunkID == "" || chunks[0].ExtractedAt.IsZero() {
			t.Error("expected identifier and timestamp to be stamped")
		}
	})
}

// TestExtractorContainers tests the optional div/span tag set.
func TestExtractorContainers(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<div>Container text that is definitely long enough to keep.</div>
	</body></html>`

	withOut := NewExtractor().Extract(parse(t, page), "http://example.com/")
	if len(withOut) != 0 {
		t.Errorf("expected div to be ignored by default, got %d chunks", len(withOut))
	}

	with := NewExtractor(WithContainers(true)).Extract(parse(t, page), "http://example.com/")
	if len(with) != 1 || with[0].ContentType != "div" {
		t.Errorf("expected one div chunk with containers enabled, got %v", with)
	}
}
