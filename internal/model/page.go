package model

// MaxPageSize is the maximum size of raw page content to keep.
// Larger responses are truncated to this size to bound memory use.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page represents a fetched web page before segmentation.
type Page struct {
	// URL is the full URL the page was fetched from.
	URL string `json:"url"`

	// Depth is the number of link hops from the crawl seed.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Raw contains the raw response body, truncated to MaxPageSize.
	Raw []byte `json:"-"`
}

// IsHTML returns true if the page content type indicates HTML.
func (p *Page) IsHTML() bool {
	return p.ContentType == "application/xhtml+xml" ||
		len(p.ContentType) >= 9 && p.ContentType[:9] == "text/html"
}

// TruncateRaw ensures the raw content doesn't exceed MaxPageSize.
// Call this after setting Raw to enforce the size limit.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}
