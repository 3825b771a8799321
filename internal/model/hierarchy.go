package model

import "strings"

// HierarchyContext is the heading context attributed to content at a given
// point in a page. It is scoped to one page traversal: the segmenter starts
// from the zero value on every page and never carries context across pages.
//
// Design decision: The context is a value type and every heading produces a
// new value via WithHeading rather than mutating shared state. Each chunk
// receives an immutable snapshot, which keeps the segmenter free of side
// effects and makes concurrent crawl sessions safe without locking.
type HierarchyContext struct {
	// SectionTitle is the text of the most recent heading of any rank.
	SectionTitle string

	// SectionLevel is the rank (1-4) of the most recent heading.
	SectionLevel int

	// Chapter is the most recent heading whose text starts with "chapter".
	Chapter string

	// Article is the most recent heading whose text starts with "article".
	Article string
}

// WithHeading returns a copy of the context updated for a heading of the
// given rank. The most recent heading always wins regardless of rank: there
// is no nesting stack. A page whose headings are not strictly nested will
// attribute children to the nearest preceding heading.
//
// Headings whose text starts with "chapter" or "article" (case-insensitive)
// additionally update the chapter or article label, which then persists
// until a later heading with the same prefix replaces it.
func (hc HierarchyContext) WithHeading(text string, level int) HierarchyContext {
	next := hc
	next.SectionTitle = text
	next.SectionLevel = level

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "chapter") {
		next.Chapter = text
	}
	if strings.HasPrefix(lower, "article") {
		next.Article = text
	}
	return next
}
