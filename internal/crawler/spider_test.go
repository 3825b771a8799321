package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// recordingExtractor is a PageExtractor fake that records which pages it was
// given and emits one marker chunk per page.
type recordingExtractor struct {
	mu    sync.Mutex
	pages []string
}

func (r *recordingExtractor) Extract(_ *Document, pageURL string) []model.Chunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, pageURL)
	return []model.Chunk{{SourceURL: pageURL, Text: "chunk from " + pageURL}}
}

func (r *recordingExtractor) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pages...)
}

// countingHandler serves fixed HTML pages and counts requests per path.
type countingHandler struct {
	mu    sync.Mutex
	hits  map[string]int
	pages map[string]string
}

func newCountingHandler(pages map[string]string) *countingHandler {
	return &countingHandler{
		hits:  make(map[string]int),
		pages: pages,
	}
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.hits[r.URL.Path]++
	h.mu.Unlock()

	page, ok := h.pages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func (h *countingHandler) hitCount(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

// TestSpiderCrawl tests breadth-first traversal behavior.
func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("depth 1 reaches linked page, depth 0 does not", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/governance/":      `<html><body><p>Seed page</p><a href="/governance/board.html">Board</a></body></html>`,
			"/governance/board.html": `<html><body><p>Second page</p></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		deep := &recordingExtractor{}
		spider := NewSpider(server.Client(), deep, WithMaxDepth(1))
		result, err := spider.Crawl(context.Background(), server.URL+"/governance/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(deep.seen()) != 2 {
			t.Errorf("expected 2 pages at depth 1, got %v", deep.seen())
		}
		if result.PagesFetched != 2 {
			t.Errorf("expected 2 fetched pages, got %d", result.PagesFetched)
		}

		shallow := &recordingExtractor{}
		spider = NewSpider(server.Client(), shallow, WithMaxDepth(0))
		if _, err := spider.Crawl(context.Background(), server.URL+"/governance/"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(shallow.seen()) != 1 {
			t.Errorf("expected only the seed page at depth 0, got %v", shallow.seen())
		}
	})

	t.Run("duplicate inbound links cause exactly one fetch", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/": `<html><body>
				<a href="/policy.html">Policy</a>
				<a href="/policy.html#section2">Policy section</a>
				<a href="/policy.html">Policy again</a>
			</body></html>`,
			"/policy.html": `<html><body><p>Policy text</p></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{}, WithMaxDepth(2))
		if _, err := spider.Crawl(context.Background(), server.URL+"/"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if got := handler.hitCount("/policy.html"); got != 1 {
			t.Errorf("expected exactly 1 fetch of /policy.html, got %d", got)
		}
	})

	t.Run("blocked extension is never fetched", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/": `<html><body>
				<a href="/report.pdf">Annual report</a>
				<a href="/page.html">Page</a>
			</body></html>`,
			"/page.html": `<html><body><p>text</p></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{},
			WithMaxDepth(3),
			WithBlockedExtensions([]string{".pdf"}),
		)
		if _, err := spider.Crawl(context.Background(), server.URL+"/"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if got := handler.hitCount("/report.pdf"); got != 0 {
			t.Errorf("blocked extension was fetched %d times", got)
		}
	})

	t.Run("foreign host is never enqueued", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/": `<html><body>
				<a href="http://other.invalid/governance/">Elsewhere</a>
				<a href="/local.html">Local</a>
			</body></html>`,
			"/local.html": `<html><body><p>local text</p></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{}, WithMaxDepth(3))
		result, err := spider.Crawl(context.Background(), server.URL+"/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		// Only the seed and the local page are ever visited.
		if result.URLsSeen != 2 {
			t.Errorf("expected 2 visited URLs, got %d", result.URLsSeen)
		}
	})

	t.Run("path keywords restrict the frontier", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/governance/": `<html><body>
				<a href="/governance/policy.html">Policy</a>
				<a href="/news/latest.html">News</a>
			</body></html>`,
			"/governance/policy.html": `<html><body><p>policy</p></body></html>`,
			"/news/latest.html":       `<html><body><p>news</p></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{},
			WithMaxDepth(2),
			WithPathKeywords([]string{"/governance"}),
		)
		if _, err := spider.Crawl(context.Background(), server.URL+"/governance/"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if got := handler.hitCount("/news/latest.html"); got != 0 {
			t.Errorf("keyword-filtered path was fetched %d times", got)
		}
		if got := handler.hitCount("/governance/policy.html"); got != 1 {
			t.Errorf("expected keyword-matching path fetched once, got %d", got)
		}
	})

	t.Run("terminates on cyclic links", func(t *testing.T) {
		t.Parallel()

		handler := newCountingHandler(map[string]string{
			"/a.html": `<html><body><p>a</p><a href="/b.html">b</a></body></html>`,
			"/b.html": `<html><body><p>b</p><a href="/a.html">a</a></body></html>`,
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{}, WithMaxDepth(50))
		result, err := spider.Crawl(context.Background(), server.URL+"/a.html")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if result.PagesFetched != 2 {
			t.Errorf("expected 2 pages despite the cycle, got %d", result.PagesFetched)
		}
	})

	t.Run("page cap bounds total work", func(t *testing.T) {
		t.Parallel()

		// Every page links to the next, far beyond the cap.
		pages := make(map[string]string)
		for i := range 20 {
			pages[fmt.Sprintf("/p%d.html", i)] = fmt.Sprintf(
				`<html><body><p>page %d body</p><a href="/p%d.html">next</a></body></html>`, i, i+1)
		}
		handler := newCountingHandler(pages)
		server := httptest.NewServer(handler)
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{},
			WithMaxDepth(100),
			WithMaxPages(5),
		)
		result, err := spider.Crawl(context.Background(), server.URL+"/p0.html")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if result.PagesFetched != 5 {
			t.Errorf("expected page cap of 5, got %d", result.PagesFetched)
		}
	})

	t.Run("fetch failure skips URL and continues", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><p>seed</p>
				<a href="/broken.html">broken</a>
				<a href="/fine.html">fine</a></body></html>`)
		})
		mux.HandleFunc("/broken.html", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		mux.HandleFunc("/fine.html", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><p>fine page text</p></body></html>`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		extractor := &recordingExtractor{}
		spider := NewSpider(server.Client(), extractor, WithMaxDepth(1))
		result, err := spider.Crawl(context.Background(), server.URL+"/")
		if err != nil {
			t.Fatalf("crawl must not fail on a per-page error: %v", err)
		}

		if result.PagesFetched != 2 {
			t.Errorf("expected seed and fine page fetched, got %d", result.PagesFetched)
		}
		for _, page := range extractor.seen() {
			if page == server.URL+"/broken.html" {
				t.Error("broken page must not reach the extractor")
			}
		}
	})

	t.Run("empty result is valid", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		spider := NewSpider(server.Client(), &recordingExtractor{})
		result, err := spider.Crawl(context.Background(), server.URL+"/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if len(result.Chunks) != 0 {
			t.Errorf("expected empty chunk list, got %d", len(result.Chunks))
		}
		if result.PagesFetched != 0 {
			t.Errorf("expected zero fetched pages, got %d", result.PagesFetched)
		}
	})

	t.Run("invalid seed is an error", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(http.DefaultClient, &recordingExtractor{})
		if _, err := spider.Crawl(context.Background(), "http://例え\x7f.com/%"); err == nil {
			t.Error("expected error for unparseable seed")
		}
	})
}

// TestSpiderReset tests session reuse.
func TestSpiderReset(t *testing.T) {
	t.Parallel()

	handler := newCountingHandler(map[string]string{
		"/": `<html><body><p>lone page</p></body></html>`,
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	spider := NewSpider(server.Client(), &recordingExtractor{})
	if _, err := spider.Crawl(context.Background(), server.URL+"/"); err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	spider.Reset()
	if stats := spider.Stats(); stats.PagesFetched != 0 || stats.URLsSeen != 0 {
		t.Errorf("expected cleared stats after reset, got %+v", stats)
	}

	if _, err := spider.Crawl(context.Background(), server.URL+"/"); err != nil {
		t.Fatalf("second crawl failed: %v", err)
	}
	if got := handler.hitCount("/"); got != 2 {
		t.Errorf("expected the page fetched once per session, got %d", got)
	}
}
