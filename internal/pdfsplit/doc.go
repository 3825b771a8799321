// Package pdfsplit loads PDF documents and splits their text into
// overlapping chunks for downstream ingestion.
//
// The splitter works recursively: it tries coarse separators first
// ("\n\nArticle ", "\n\nSection ", paragraph breaks) and falls back to
// finer ones (lines, sentences, words) only when a piece is still larger
// than the chunk size. Governance documents keep their article and
// section boundaries intact this way.
//
// Output is JSON Lines, one chunk object per line, with source file,
// page number, and a sequential chunk id as metadata.
package pdfsplit
