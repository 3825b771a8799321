// Package model defines the core data structures used throughout webscrap.
//
// This package contains the following main types:
//   - Chunk: One emitted unit of extracted text plus its metadata
//   - HierarchyContext: The heading context attributed to content
//   - Page: A fetched web page before segmentation
//   - ExtractionResult: The accumulated output of one crawl session
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, segment, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
