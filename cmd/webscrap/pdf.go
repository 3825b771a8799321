package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kavibharathi169/webscrapping/internal/pdfsplit"
	"github.com/spf13/cobra"
)

// NewPDFCmd creates the pdf command.
func NewPDFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf [file.pdf]",
		Short: "Split a PDF document into retrieval-sized text chunks",
		Long: `Pdf extracts text from a PDF document page by page and splits it into
overlapping chunks sized for retrieval pipelines.

Splitting prefers Article and Section boundaries, then paragraph, line,
and sentence breaks, so chunks follow the document's own structure where
possible. The output is JSON Lines: one chunk object per line with the
source file, page number, and a sequential chunk id.

Examples:
  # Split a PDF into <name>_chunks.jsonl next to the input
  webscrap pdf governance_policy.pdf

  # Write chunks to an explicit path
  webscrap pdf -o chunks.jsonl governance_policy.pdf

  # Use a smaller chunk size with no overlap
  webscrap pdf --chunk-size 300 --chunk-overlap 0 governance_policy.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runPDFCmd,
	}

	cmd.Flags().Int("chunk-size", pdfsplit.DefaultChunkSize,
		"Maximum chunk size in characters")
	cmd.Flags().Int("chunk-overlap", pdfsplit.DefaultChunkOverlap,
		"Number of characters carried over between adjacent chunks")
	cmd.Flags().StringP("output", "o", "",
		"Output JSONL file path (default: <input>_chunks.jsonl)")

	return cmd
}

// runPDFCmd executes the pdf command.
func runPDFCmd(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	chunkSize, err := cmd.Flags().GetInt("chunk-size")
	if err != nil {
		return err
	}
	chunkOverlap, err := cmd.Flags().GetInt("chunk-overlap")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return fmt.Errorf("chunk overlap must be non-negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}

	if outputPath == "" {
		outputPath = defaultPDFOutputPath(inputPath)
	}

	pages, err := pdfsplit.LoadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load PDF: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no extractable text found in %s", inputPath)
	}

	splitter := pdfsplit.NewSplitter(
		pdfsplit.WithChunkSize(chunkSize),
		pdfsplit.WithChunkOverlap(chunkOverlap),
	)

	// The source label in chunk metadata is the bare file name
	chunks := pdfsplit.ChunkPages(pages, filepath.Base(inputPath), splitter)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced from %s", inputPath)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	n, err := pdfsplit.WriteJSONL(f, chunks)
	if err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}

	fmt.Printf("Extracted %d pages, wrote %d chunks (%d bytes) to %s\n",
		len(pages), len(chunks), n, outputPath)

	return nil
}

// defaultPDFOutputPath derives the JSONL output path from the input path:
// "dir/report.pdf" becomes "dir/report_chunks.jsonl".
func defaultPDFOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_chunks.jsonl"
}
