// Package pipeline orchestrates the extraction workflow.
//
// A Pipeline executes a sequence of Steps against a shared
// ExtractionResult: crawling the site, persisting chunks to the
// database, and writing reports. BatchProcessor runs one pipeline per
// seed concurrently when multiple seeds are given.
package pipeline
