package segment

import (
	"strings"

	"github.com/Kavibharathi169/webscrapping/internal/crawler"
)

// OrgExtractor derives an organization label from a parsed page.
// Returning the empty string means no label could be derived.
//
// Design decision: The detection rule is a pluggable strategy rather than
// logic baked into the segmenter, so deployments can swap the default
// substring scan for site-specific rules without touching the core engine.
type OrgExtractor func(doc *crawler.Document) string

// orgCandidateTags are the elements scanned for the organization pattern,
// in the order the reference script checks them.
var orgCandidateTags = []string{"footer", "address", "p"}

// PatternOrgExtractor returns an OrgExtractor that scans footer, address,
// and paragraph elements for the given substring (e.g. "Co., Ltd") and
// returns the normalized text of the first element containing it.
func PatternOrgExtractor(pattern string) OrgExtractor {
	return func(doc *crawler.Document) string {
		for _, el := range doc.FindAll(orgCandidateTags...) {
			text := crawler.Text(el)
			if strings.Contains(text, pattern) {
				return text
			}
		}
		return ""
	}
}

// StaticOrgExtractor returns an OrgExtractor that always reports the given
// label, regardless of page content.
func StaticOrgExtractor(label string) OrgExtractor {
	return func(*crawler.Document) string {
		return label
	}
}
