package segment

import (
	"strings"
	"testing"
)

// TestPatternOrgExtractor tests substring-based organization detection.
func TestPatternOrgExtractor(t *testing.T) {
	t.Parallel()

	extract := PatternOrgExtractor("Co., Ltd")

	t.Run("finds pattern in address element", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<address>Harvest Foods Co., Ltd. 1-2-3 Chuo, Tokyo</address>
		</body></html>`

		got := extract(parse(t, page))
		if !strings.Contains(got, "Harvest Foods Co., Ltd.") {
			t.Errorf("expected organization text, got %q", got)
		}
	})

	t.Run("returns first match in document order", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>First Mention Co., Ltd. operates supermarkets.</p>
			<footer>Second Mention Co., Ltd.</footer>
		</body></html>`

		got := extract(parse(t, page))
		if !strings.HasPrefix(got, "First Mention") {
			t.Errorf("expected first match, got %q", got)
		}
	})

	t.Run("no match yields empty string", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><p>No corporate suffix anywhere in this text.</p></body></html>`
		if got := extract(parse(t, page)); got != "" {
			t.Errorf("expected empty label, got %q", got)
		}
	})
}

// TestStaticOrgExtractor tests the fixed-label strategy.
func TestStaticOrgExtractor(t *testing.T) {
	t.Parallel()

	extract := StaticOrgExtractor("Halows Co., Ltd.")
	page := `<html><body><p>Anything at all.</p></body></html>`

	if got := extract(parse(t, page)); got != "Halows Co., Ltd." {
		t.Errorf("expected static label, got %q", got)
	}
}
