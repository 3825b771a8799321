// Package crawler provides the crawl-and-extract engine of webscrap.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawl. It manages an explicit FIFO frontier of (URL, depth) pairs and a
// visited set, fetches pages one at a time, and hands each parsed document
// to a PageExtractor for segmentation.
//
// Design decision: We implement our own crawler rather than using a
// third-party framework because:
//  1. The frontier must be an explicit, observable data structure so that
//     traversal order (and thus test expectations) is deterministic
//  2. The link admission policy (same domain, blocked extensions, path
//     keywords) must be configuration, not framework callbacks
//  3. Reduces external dependencies for a small, single-purpose engine
//
// # Components
//
//   - Spider: BFS traversal over same-domain, policy-allowed links
//   - Document: parse capability over HTML (find-by-tag, text, anchors)
//   - Policy: link admission rules applied before enqueue
//
// # Termination
//
// The visited set grows monotonically and is bounded by the reachable
// same-domain URLs and the depth limit, so the frontier always empties in
// finite steps. A page-count cap additionally bounds total work.
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient, extractor, crawler.WithMaxDepth(3))
//	result, err := spider.Crawl(ctx, "https://example.com/governance/")
package crawler
