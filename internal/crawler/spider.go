package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// PageExtractor turns one filtered, parsed page into chunks.
// The segment package provides the production implementation; tests can
// substitute a fake to observe traversal behavior in isolation.
type PageExtractor interface {
	// Extract segments the document and returns its chunks in document
	// order, stamped with the page URL.
	Extract(doc *Document, pageURL string) []model.Chunk
}

// Spider crawls a website breadth-first from a seed URL and accumulates the
// chunks extracted from every fetched page.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// extractor segments each fetched page into chunks.
	extractor PageExtractor

	// maxDepth limits how deep to crawl from the starting URL.
	// 0 means only the starting page, 1 means one level of links, etc.
	maxDepth int

	// maxPages limits the total number of pages to fetch.
	// This prevents runaway crawling on large sites.
	maxPages int

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// blockedExtensions are lower-cased path suffixes never crawled.
	blockedExtensions []string

	// pathKeywords is the optional path allow-list.
	pathKeywords []string

	// allowSubdomains widens the same-domain policy.
	allowSubdomains bool

	// headers are extra headers sent with every request (per-site profile).
	headers map[string]string

	// cookie is an optional Cookie header value (per-site profile).
	cookie string

	// logger for structured logging.
	logger *slog.Logger

	// visited tracks normalized URLs already processed.
	// It grows monotonically; entries are never removed.
	visited map[string]bool

	// mutex protects visited and pageCount. The crawl loop itself is
	// single-threaded, but Stats() may be called from another goroutine.
	mutex sync.Mutex

	// pageCount tracks pages fetched successfully.
	pageCount int
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the starting page, 1 = starting page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the maximum number of pages to fetch.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithBlockedExtensions sets the path suffixes never crawled.
func WithBlockedExtensions(exts []string) SpiderOption {
	return func(s *Spider) {
		s.blockedExtensions = exts
	}
}

// WithPathKeywords sets the optional path allow-list. When non-empty, only
// URLs whose path contains at least one keyword are crawled.
func WithPathKeywords(keywords []string) SpiderOption {
	return func(s *Spider) {
		s.pathKeywords = keywords
	}
}

// WithAllowSubdomains widens the same-domain policy to dot-suffix matching.
func WithAllowSubdomains(allow bool) SpiderOption {
	return func(s *Spider) {
		s.allowSubdomains = allow
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) SpiderOption {
	return func(s *Spider) {
		s.cookie = cookie
	}
}

// WithSpiderLogger sets a custom logger for the spider.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider with the given HTTP client and extractor.
//
// Design decision: We require an external client because:
//  1. Timeout configuration belongs to the caller
//  2. Allows httptest clients in tests
func NewSpider(client *http.Client, extractor PageExtractor, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		extractor:   extractor,
		maxDepth:    3,
		maxPages:    25,
		userAgent:   "webscrap/1.0 (+https://github.com/Kavibharathi169/webscrapping)",
		maxBodySize: model.MaxPageSize,
		visited:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// frontierEntry is one (URL, depth) pair awaiting processing.
type frontierEntry struct {
	url   string
	depth int
}

// Crawl starts crawling from the given seed URL and returns the session's
// extraction result with chunks in traversal order.
//
// The crawl is fully sequential: each frontier entry is processed end to end
// (fetch, filter, segment, enqueue links) before the next is dequeued. A
// fetch failure skips the URL and never aborts the crawl; the only fatal
// errors are an unparseable seed and context cancellation.
func (s *Spider) Crawl(ctx context.Context, seedURL string) (*model.ExtractionResult, error) {
	start, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		start.Scheme = "https"
	}

	policy := Policy{
		BaseHost:          start.Hostname(),
		AllowSubdomains:   s.allowSubdomains,
		BlockedExtensions: s.blockedExtensions,
		PathKeywords:      s.pathKeywords,
	}

	result := model.NewExtractionResult(start.String())
	result.BaseDomain = start.Hostname()

	queue := []frontierEntry{{url: start.String(), depth: 0}}

	for len(queue) > 0 && s.pagesFetched() < s.maxPages {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		// Dequeue in FIFO order: breadth-first traversal
		entry := queue[0]
		queue = queue[1:]

		if entry.depth > s.maxDepth || s.isVisited(entry.url) {
			continue
		}
		s.markVisited(entry.url)

		page, err := s.fetchPage(ctx, entry)
		if err != nil {
			// Transport and HTTP failures are recovered locally: skip the
			// URL, keep crawling with the remaining frontier.
			s.logger.Debug("skipping page", "url", entry.url, "error", err)
			continue
		}
		s.countPage()

		if !page.IsHTML() {
			s.logger.Debug("skipping non-HTML page", "url", entry.url, "contentType", page.ContentType)
			continue
		}

		doc, err := ParseDocument(entry.url, bytes.NewReader(page.Raw))
		if err != nil {
			s.logger.Debug("skipping unparseable page", "url", entry.url, "error", err)
			continue
		}

		chunks := s.extractor.Extract(doc, entry.url)
		result.AddChunks(chunks...)

		s.logger.Info("page extracted",
			"url", entry.url,
			"depth", entry.depth,
			"chunks", len(chunks),
		)

		// Discover outgoing links from the same parsed (and noise-filtered)
		// page and enqueue admitted, unvisited candidates one level deeper.
		if entry.depth < s.maxDepth {
			for _, link := range doc.Links() {
				normalized := s.normalizeURL(link)
				if !s.isVisited(normalized) && policy.Admit(normalized) {
					queue = append(queue, frontierEntry{url: normalized, depth: entry.depth + 1})
				}
			}
		}
	}

	s.finish(result)
	return result, nil
}

// finish stamps the session counters onto the result.
func (s *Spider) finish(result *model.ExtractionResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result.PagesFetched = s.pageCount
	result.URLsSeen = len(s.visited)
	result.FinishedAt = time.Now().UTC()
}

// fetchPage performs a single GET for one frontier entry.
// Any non-2xx status or transport error yields an error the caller treats
// as "skip this URL". There are no retries.
func (s *Spider) fetchPage(ctx context.Context, entry frontierEntry) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}

	page := &model.Page{
		URL:         entry.url,
		Depth:       entry.depth,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         body,
	}
	page.TruncateRaw()

	return page, nil
}

// isVisited checks if a URL has been visited.
func (s *Spider) isVisited(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visited[s.normalizeURL(pageURL)]
}

// markVisited marks a URL as visited.
func (s *Spider) markVisited(pageURL string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited[s.normalizeURL(pageURL)] = true
}

// countPage increments the fetched-page counter.
func (s *Spider) countPage() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pageCount++
}

// pagesFetched returns the current fetched-page count.
func (s *Spider) pagesFetched() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pageCount
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. http://example.com and http://example.com/ are the same page
func (s *Spider) normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// Reset clears the spider's state, allowing it to be reused for a fresh
// session.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.pageCount = 0
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		PagesFetched: s.pageCount,
		URLsSeen:     len(s.visited),
	}
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// PagesFetched is the number of pages successfully fetched.
	PagesFetched int

	// URLsSeen is the number of unique URLs marked visited.
	URLsSeen int
}
