package model

import "testing"

// TestHierarchyContext tests the most-recent-heading-wins model.
func TestHierarchyContext(t *testing.T) {
	t.Parallel()

	t.Run("heading updates section regardless of rank", func(t *testing.T) {
		t.Parallel()

		hc := HierarchyContext{}
		hc = hc.WithHeading("Corporate Governance", 1)
		hc = hc.WithHeading("Board Composition", 3)
		// A later higher-rank heading still wins: there is no nesting stack.
		hc = hc.WithHeading("Internal Controls", 2)

		if hc.SectionTitle != "Internal Controls" || hc.SectionLevel != 2 {
			t.Errorf("expected most recent heading to win, got %q level %d", hc.SectionTitle, hc.SectionLevel)
		}
	})

	t.Run("chapter and article prefixes are case-insensitive", func(t *testing.T) {
		t.Parallel()

		hc := HierarchyContext{}
		hc = hc.WithHeading("CHAPTER 1 General Provisions", 2)
		hc = hc.WithHeading("article 3 Shareholders", 3)

		if hc.Chapter != "CHAPTER 1 General Provisions" {
			t.Errorf("unexpected chapter: %q", hc.Chapter)
		}
		if hc.Article != "article 3 Shareholders" {
			t.Errorf("unexpected article: %q", hc.Article)
		}
	})

	t.Run("chapter persists across non-chapter headings", func(t *testing.T) {
		t.Parallel()

		hc := HierarchyContext{}
		hc = hc.WithHeading("Chapter 2 Directors", 2)
		hc = hc.WithHeading("Article 10 Meetings", 3)
		hc = hc.WithHeading("Voting Procedure", 4)

		if hc.Chapter != "Chapter 2 Directors" {
			t.Errorf("chapter should persist, got %q", hc.Chapter)
		}
		if hc.Article != "Article 10 Meetings" {
			t.Errorf("article should persist, got %q", hc.Article)
		}
		if hc.SectionTitle != "Voting Procedure" {
			t.Errorf("section should track latest heading, got %q", hc.SectionTitle)
		}
	})

	t.Run("original value is not mutated", func(t *testing.T) {
		t.Parallel()

		base := HierarchyContext{SectionTitle: "Intro", SectionLevel: 1}
		_ = base.WithHeading("Article 1", 2)

		if base.SectionTitle != "Intro" || base.Article != "" {
			t.Errorf("base context mutated: %+v", base)
		}
	})
}
