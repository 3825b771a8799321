// Package segment converts parsed pages into content chunks.
//
// The Extractor walks a noise-filtered document in order, maintains the
// heading hierarchy context, and emits whitespace-normalized text chunks
// above a minimum length. Tables are flattened into pipe-delimited text and
// emitted as separate "table" chunks.
//
// # Known limitation
//
// Tables are processed after the full linear segmentation pass, so every
// table chunk is stamped with the last heading context on the page. A table
// that visually appeared under an earlier section is misattributed. This
// matches the reference behavior and is preserved deliberately; interleaving
// tables into the linear pass would fix attribution but change output order.
package segment
