package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// noiseTags are element kinds removed from the tree before segmentation or
// link discovery. They render no visible content but would otherwise leak
// script bodies and CSS into extracted text.
var noiseTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
}

// Document wraps a parsed HTML tree and exposes the capabilities the
// segmenter and spider need: enumeration of elements by tag in document
// order, normalized text extraction, anchor enumeration with resolved
// targets, and a title lookup.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. Standard library extension, well-maintained
type Document struct {
	// root is the root node of the parsed tree.
	root *html.Node

	// baseURL is the URL of the page, used for resolving relative links.
	baseURL *url.URL
}

// ParseDocument parses HTML content into a Document and strips noise nodes.
// The base URL is used to resolve relative links.
func ParseDocument(baseURL string, content io.Reader) (*Document, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{root: root, baseURL: u}
	doc.RemoveNoise()
	return doc, nil
}

// RemoveNoise detaches script, style, noscript, iframe, and svg subtrees
// so they cannot contribute to segmentation or link discovery.
// Filtering is idempotent: a second call finds nothing left to remove.
func (d *Document) RemoveNoise() {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		// Collect first, then detach: removing while iterating would skip
		// the sibling after each removed node.
		var doomed []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && noiseTags[c.Data] {
				doomed = append(doomed, c)
				continue
			}
			walk(c)
		}
		for _, c := range doomed {
			n.RemoveChild(c)
		}
	}
	walk(d.root)
}

// Title returns the trimmed text of the first <title> element, or the empty
// string if the document has none.
func (d *Document) Title() string {
	nodes := d.FindAll("title")
	if len(nodes) == 0 {
		return ""
	}
	return Text(nodes[0])
}

// FindAll returns all elements matching any of the given tag names, in
// document order (pre-order depth-first).
func (d *Document) FindAll(tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[tag] = true
	}

	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && want[n.Data] {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return nodes
}

// Links returns the resolved targets of all anchor elements, with fragments
// stripped. Non-navigable schemes (javascript:, mailto:, tel:, data:) and
// bare fragment links are excluded. The caller applies the admission policy.
func (d *Document) Links() []string {
	var links []string
	for _, a := range d.FindAll("a") {
		href := getAttr(a, "href")
		if resolved := d.resolveURL(href); resolved != "" {
			links = append(links, resolved)
		}
	}
	return links
}

// resolveURL resolves a relative href against the base URL and strips the
// fragment. Everything after "#" never changes page content, so two links
// differing only in fragment must dedup to one URL.
func (d *Document) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := d.baseURL.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}

// Text extracts the visible text of an element with whitespace normalized:
// every run of whitespace collapses to a single space and the result is
// trimmed. Returns the empty string for elements with no visible text.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
