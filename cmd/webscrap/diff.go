package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Kavibharathi169/webscrapping/internal/config"
	"github.com/Kavibharathi169/webscrapping/internal/database"
	"github.com/spf13/cobra"
)

// chunkPreviewLen is the maximum preview length for chunk text in diff output.
const chunkPreviewLen = 80

// NewDiffCmd creates the diff command.
// This command compares crawl runs of the same seed stored in the database.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [url]",
		Short: "Compare crawl runs of a seed stored in the database",
		Long: `Diff shows which chunks appeared and disappeared between two crawl runs
of the same seed.

Chunk identifiers are derived from the chunk text, so a chunk counts as
unchanged only if its text is byte-identical between runs. Any edit to a
policy paragraph shows up as one removed chunk and one added chunk.

The comparison requires at least two stored runs for the seed. Crawls are
stored automatically by 'webscrap crawl'.

Examples:
  # Compare the latest two runs of a seed
  webscrap diff https://example.com/governance/

  # List stored runs for a seed
  webscrap diff --list https://example.com/governance/

  # Compare the latest run against a specific run by ID
  webscrap diff --with-run-id 5 https://example.com/governance/

  # Output the comparison in JSON format
  webscrap diff --json https://example.com/governance/

  # List all seeds stored in the database
  webscrap diff --list-seeds`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDiffCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List stored runs for the specified seed")
	cmd.Flags().BoolP("list-seeds", "L", false,
		"List all seeds stored in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runDiffCmd executes the diff command.
func runDiffCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-seeds flag first (requires database but no seed)
	listSeeds, err := cmd.Flags().GetBool("list-seeds")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database (unless --list-seeds).
	// This avoids holding a database handle when validation fails.
	var seed string
	if !listSeeds {
		if len(args) == 0 {
			return errors.New("seed URL is required (use --list-seeds to see stored seeds)")
		}

		seed, err = normalizeSeed(args[0])
		if err != nil {
			return fmt.Errorf("invalid seed URL: %w", err)
		}
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-seeds flag
	if listSeeds {
		return listStoredSeeds(ctx, db)
	}

	// Handle --list flag
	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		return listRunHistory(ctx, db, seed)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, seed, withRunID, jsonOutput)
}

// listStoredSeeds lists all seeds that have crawl runs in the database.
func listStoredSeeds(ctx context.Context, db *database.ChunkDB) error {
	seeds, err := db.ListSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeds: %w", err)
	}

	if len(seeds) == 0 {
		fmt.Println("No stored crawls found in the database.")
		fmt.Println("\nUse 'webscrap crawl <url>' to crawl a site.")
		return nil
	}

	fmt.Printf("Stored seeds (%d):\n\n", len(seeds))
	for _, seed := range seeds {
		fmt.Printf("  • %s\n", seed)
	}
	fmt.Println("\nUse 'webscrap diff --list <url>' to see run history for a seed.")

	return nil
}

// listRunHistory lists all stored runs for a specific seed.
func listRunHistory(ctx context.Context, db *database.ChunkDB, seed string) error {
	runs, err := db.LatestRunsForSeed(ctx, seed, 50)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", seed)
		fmt.Println("\nUse 'webscrap crawl' to crawl this seed.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", seed, len(runs))
	fmt.Printf("  %-6s  %-20s  %-6s  %s\n", "ID", "Date", "Pages", "Chunks")
	fmt.Println("  " + strings.Repeat("-", 48))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-6d  %d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.PagesFetched,
			run.ChunkCount,
		)
	}

	fmt.Println("\nUse 'webscrap diff <url>' to compare the latest two runs.")
	fmt.Println("Use 'webscrap diff --with-run-id <id> <url>' to compare with a specific run.")

	return nil
}

// runComparison performs the actual comparison between two crawl runs.
func runComparison(ctx context.Context, db *database.ChunkDB, seed string, withRunID int64, jsonOutput bool) error {
	runs, err := db.LatestRunsForSeed(ctx, seed, 2)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", seed)
	}
	if len(runs) < 2 && withRunID == 0 {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	// Latest run is always the current one
	current := runs[0]

	var previous database.CrawlRun
	if withRunID > 0 {
		run, err := db.GetRun(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if run == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		// The comparison only makes sense within one seed
		if run.Seed != seed {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, run.Seed, seed)
		}
		previous = *run
	} else {
		previous = runs[1]
	}

	comparison, err := compareRuns(ctx, db, previous, current)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputDiffJSON(comparison)
	}
	return outputDiffText(comparison)
}

// DiffResult holds the result of comparing two crawl runs of a seed.
type DiffResult struct {
	// Seed is the crawled seed URL.
	Seed string `json:"seed"`

	// PreviousRun contains metadata about the older run.
	PreviousRun RunMetadata `json:"previous_run"`

	// CurrentRun contains metadata about the newer run.
	CurrentRun RunMetadata `json:"current_run"`

	// AddedChunks are chunks present in the current run only.
	AddedChunks []ChunkChange `json:"added_chunks,omitempty"`

	// RemovedChunks are chunks present in the previous run only.
	RemovedChunks []ChunkChange `json:"removed_chunks,omitempty"`

	// UnchangedCount is the number of chunks present in both runs.
	UnchangedCount int `json:"unchanged_count"`
}

// RunMetadata contains run metadata for comparison display.
type RunMetadata struct {
	// ID is the database identifier of the run.
	ID int64 `json:"id"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// PagesFetched is the number of pages fetched in this run.
	PagesFetched int `json:"pages_fetched"`

	// ChunkCount is the number of chunks extracted in this run.
	ChunkCount int `json:"chunk_count"`
}

// ChunkChange describes one chunk that appeared or disappeared.
type ChunkChange struct {
	// ChunkID is the content-derived chunk identifier.
	ChunkID string `json:"chunk_id"`

	// Preview is the start of the chunk text, truncated for display.
	Preview string `json:"preview"`
}

// compareRuns compares the chunk id sets of two runs.
func compareRuns(ctx context.Context, db *database.ChunkDB, previous, current database.CrawlRun) (*DiffResult, error) {
	previousIDs, err := db.ChunkIDsForRun(ctx, previous.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for run %d: %w", previous.ID, err)
	}
	currentIDs, err := db.ChunkIDsForRun(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for run %d: %w", current.ID, err)
	}

	result := &DiffResult{
		Seed:        current.Seed,
		PreviousRun: runMetadata(previous),
		CurrentRun:  runMetadata(current),
	}

	// Added: in current but not in previous
	for id := range currentIDs {
		if _, exists := previousIDs[id]; !exists {
			change, err := chunkChange(ctx, db, current.ID, id)
			if err != nil {
				return nil, err
			}
			result.AddedChunks = append(result.AddedChunks, change)
		}
	}

	// Removed: in previous but not in current
	for id := range previousIDs {
		if _, exists := currentIDs[id]; !exists {
			change, err := chunkChange(ctx, db, previous.ID, id)
			if err != nil {
				return nil, err
			}
			result.RemovedChunks = append(result.RemovedChunks, change)
		} else {
			result.UnchangedCount++
		}
	}

	// Map iteration order is random; sort for stable output
	sortChanges(result.AddedChunks)
	sortChanges(result.RemovedChunks)

	return result, nil
}

// runMetadata converts a stored run into its display metadata.
func runMetadata(run database.CrawlRun) RunMetadata {
	return RunMetadata{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		PagesFetched: run.PagesFetched,
		ChunkCount:   run.ChunkCount,
	}
}

// chunkChange builds the display entry for a single changed chunk.
func chunkChange(ctx context.Context, db *database.ChunkDB, runID int64, chunkID string) (ChunkChange, error) {
	text, ok, err := db.ChunkTextByID(ctx, runID, chunkID)
	if err != nil {
		return ChunkChange{}, fmt.Errorf("failed to load chunk %s: %w", chunkID, err)
	}
	if !ok {
		text = ""
	}
	return ChunkChange{
		ChunkID: chunkID,
		Preview: previewText(text),
	}, nil
}

// previewText collapses whitespace and truncates text for one-line display.
func previewText(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= chunkPreviewLen {
		return collapsed
	}
	return string(runes[:chunkPreviewLen]) + "..."
}

// sortChanges orders chunk changes by preview text so the output is stable
// and roughly follows document order.
func sortChanges(changes []ChunkChange) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Preview != changes[j].Preview {
			return changes[i].Preview < changes[j].Preview
		}
		return changes[i].ChunkID < changes[j].ChunkID
	})
}

// outputDiffJSON outputs the comparison result in JSON format.
func outputDiffJSON(result *DiffResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputDiffText outputs the comparison result in human-readable form.
func outputDiffText(result *DiffResult) error {
	fmt.Printf("Diff for %s\n\n", result.Seed)

	fmt.Printf("  Previous: run %d (%s, %d pages, %d chunks)\n",
		result.PreviousRun.ID,
		result.PreviousRun.StartedAt.Format("2006-01-02 15:04:05"),
		result.PreviousRun.PagesFetched,
		result.PreviousRun.ChunkCount,
	)
	fmt.Printf("  Current:  run %d (%s, %d pages, %d chunks)\n\n",
		result.CurrentRun.ID,
		result.CurrentRun.StartedAt.Format("2006-01-02 15:04:05"),
		result.CurrentRun.PagesFetched,
		result.CurrentRun.ChunkCount,
	)

	if len(result.AddedChunks) == 0 && len(result.RemovedChunks) == 0 {
		fmt.Printf("No changes: %d chunks unchanged.\n", result.UnchangedCount)
		return nil
	}

	if len(result.AddedChunks) > 0 {
		fmt.Printf("Added chunks (%d):\n", len(result.AddedChunks))
		for _, change := range result.AddedChunks {
			fmt.Printf("  + [%s] %s\n", change.ChunkID, change.Preview)
		}
		fmt.Println()
	}

	if len(result.RemovedChunks) > 0 {
		fmt.Printf("Removed chunks (%d):\n", len(result.RemovedChunks))
		for _, change := range result.RemovedChunks {
			fmt.Printf("  - [%s] %s\n", change.ChunkID, change.Preview)
		}
		fmt.Println()
	}

	fmt.Printf("Unchanged: %d chunks\n", result.UnchangedCount)
	return nil
}
