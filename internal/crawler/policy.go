package crawler

import (
	"net/url"
	"strings"
)

// Policy decides whether a discovered link may enter the frontier.
// It is applied before enqueue, so a rejected URL is never fetched at any
// depth. Rejection is a filtering decision, not an error.
//
// Both configurations seen in the reference scripts are supported: extension
// blocking alone, or extension blocking plus a path keyword allow-list.
type Policy struct {
	// BaseHost is the host of the crawl seed. Candidates on any other host
	// are rejected.
	BaseHost string

	// AllowSubdomains widens the host check from exact equality to
	// dot-suffix matching (ir.example.com passes for example.com).
	// The reference behavior rejects subdomains; this stays configurable
	// because the intent of the original check is unresolved.
	AllowSubdomains bool

	// BlockedExtensions are lower-cased path suffixes that are never
	// crawled (documents, images, archives).
	BlockedExtensions []string

	// PathKeywords is an optional allow-list. When non-empty, the
	// lower-cased path must contain at least one keyword.
	PathKeywords []string
}

// Admit reports whether the candidate URL may be enqueued.
func (p Policy) Admit(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if !p.sameDomain(u.Hostname()) {
		return false
	}

	path := strings.ToLower(u.Path)

	for _, ext := range p.BlockedExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	if len(p.PathKeywords) > 0 {
		matched := false
		for _, keyword := range p.PathKeywords {
			if strings.Contains(path, strings.ToLower(keyword)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// sameDomain checks the candidate host against the base domain.
func (p Policy) sameDomain(host string) bool {
	if strings.EqualFold(host, p.BaseHost) {
		return true
	}
	if p.AllowSubdomains {
		return strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(p.BaseHost))
	}
	return false
}
