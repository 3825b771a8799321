package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// ChunkDB provides SQLite-based storage for crawl runs and extracted chunks.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather than
// one file per crawled site. This keeps cross-run queries (the diff command
// compares two runs of the same seed) in a single place and simplifies
// backup/restore operations.
type ChunkDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ChunkDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ChunkDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ChunkDB, error) {
	dbPath := filepath.Join(dbDir, "webscrap.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string.
	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &ChunkDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *ChunkDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path to the SQLite database file.
func (cdb *ChunkDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *ChunkDB) createTables() error {
	schema := `
	-- Crawl runs store one row per crawl session
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		base_domain TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		pages_fetched INTEGER DEFAULT 0,
		urls_seen INTEGER DEFAULT 0,
		chunk_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON crawl_runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);

	-- Chunks store the extracted text segments of a run.
	-- chunk_id is derived from the chunk text, so the same text on the
	-- same page is stored once per run.
	CREATE TABLE IF NOT EXISTS chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		chunk_id TEXT NOT NULL,
		source_url TEXT NOT NULL,
		document_title TEXT,
		organization TEXT,
		document_type TEXT,
		section_title TEXT,
		section_level INTEGER DEFAULT 0,
		chapter TEXT,
		article TEXT,
		content_type TEXT NOT NULL,
		text TEXT NOT NULL,
		char_count INTEGER NOT NULL,
		extracted_at DATETIME NOT NULL,
		UNIQUE(run_id, chunk_id, source_url),
		FOREIGN KEY(run_id) REFERENCES crawl_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_run ON chunks(run_id);
	CREATE INDEX IF NOT EXISTS idx_chunks_chunk_id ON chunks(chunk_id);
	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlRun represents a stored crawl session.
type CrawlRun struct {
	ID           int64
	Seed         string
	BaseDomain   string
	StartedAt    time.Time
	FinishedAt   time.Time
	PagesFetched int
	URLsSeen     int
	ChunkCount   int
}

// InsertRun inserts a new crawl run and returns its database ID.
func (cdb *ChunkDB) InsertRun(ctx context.Context, run *CrawlRun) (int64, error) {
	query := `
	INSERT INTO crawl_runs (seed, base_domain, started_at)
	VALUES (?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query,
		run.Seed,
		run.BaseDomain,
		run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl run: %w", err)
	}

	return result.LastInsertId()
}

// FinishRun records the completion of a crawl run.
func (cdb *ChunkDB) FinishRun(ctx context.Context, runID int64, result *model.ExtractionResult) error {
	query := `
	UPDATE crawl_runs SET
		finished_at = ?,
		pages_fetched = ?,
		urls_seen = ?,
		chunk_count = ?
	WHERE id = ?
	`

	_, err := cdb.db.ExecContext(ctx, query,
		result.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		result.PagesFetched,
		result.URLsSeen,
		len(result.Chunks),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish crawl run: %w", err)
	}

	return nil
}

// InsertChunks inserts chunks for a run inside a single transaction.
// Uses UPSERT to handle duplicates (same chunk on the same page in the same
// run), which can happen when a page repeats a block of text.
func (cdb *ChunkDB) InsertChunks(ctx context.Context, runID int64, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO chunks (
		run_id, chunk_id, source_url, document_title, organization,
		document_type, section_title, section_level, chapter, article,
		content_type, text, char_count, extracted_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, chunk_id, source_url) DO UPDATE SET
		document_title = excluded.document_title,
		organization = excluded.organization,
		document_type = excluded.document_type,
		section_title = excluded.section_title,
		section_level = excluded.section_level,
		chapter = excluded.chapter,
		article = excluded.article,
		content_type = excluded.content_type,
		extracted_at = excluded.extracted_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for i := range chunks {
		c := &chunks[i]
		if _, err := stmt.ExecContext(ctx,
			runID,
			c.ChunkID,
			c.SourceURL,
			c.DocumentTitle,
			c.Organization,
			c.DocumentType,
			c.SectionTitle,
			c.SectionLevel,
			c.Chapter,
			c.Article,
			c.ContentType,
			c.Text,
			c.CharCount,
			c.ExtractedAt.UTC().Format("2006-01-02 15:04:05"),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}

	return nil
}

// SaveResult persists a completed extraction result as a new run.
// It returns the ID of the created run.
func (cdb *ChunkDB) SaveResult(ctx context.Context, result *model.ExtractionResult) (int64, error) {
	runID, err := cdb.InsertRun(ctx, &CrawlRun{
		Seed:       result.Seed,
		BaseDomain: result.BaseDomain,
		StartedAt:  result.StartedAt,
	})
	if err != nil {
		return 0, err
	}

	if err := cdb.InsertChunks(ctx, runID, result.Chunks); err != nil {
		return 0, err
	}

	if err := cdb.FinishRun(ctx, runID, result); err != nil {
		return 0, err
	}

	return runID, nil
}

// GetRun retrieves a crawl run by its database ID.
// Returns nil if no run with that ID exists.
func (cdb *ChunkDB) GetRun(ctx context.Context, runID int64) (*CrawlRun, error) {
	query := `
	SELECT id, seed, base_domain, started_at, finished_at, pages_fetched, urls_seen, chunk_count
	FROM crawl_runs
	WHERE id = ?
	`

	var run CrawlRun
	var startedAt string
	var finishedAt sql.NullString

	err := cdb.db.QueryRowContext(ctx, query, runID).Scan(
		&run.ID,
		&run.Seed,
		&run.BaseDomain,
		&startedAt,
		&finishedAt,
		&run.PagesFetched,
		&run.URLsSeen,
		&run.ChunkCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl run: %w", err)
	}

	// Parse timestamps (SQLite may return different formats depending on version/configuration)
	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTimestamp(finishedAt.String)
	}

	return &run, nil
}

// LatestRunsForSeed returns the most recent runs for a seed URL,
// newest first, up to the given limit.
func (cdb *ChunkDB) LatestRunsForSeed(ctx context.Context, seed string, limit int) ([]CrawlRun, error) {
	query := `
	SELECT id, seed, base_domain, started_at, finished_at, pages_fetched, urls_seen, chunk_count
	FROM crawl_runs
	WHERE seed = ?
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := cdb.db.QueryContext(ctx, query, seed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var run CrawlRun
		var startedAt string
		var finishedAt sql.NullString

		if err := rows.Scan(
			&run.ID,
			&run.Seed,
			&run.BaseDomain,
			&startedAt,
			&finishedAt,
			&run.PagesFetched,
			&run.URLsSeen,
			&run.ChunkCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}

		run.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			run.FinishedAt = parseTimestamp(finishedAt.String)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListSeeds returns all distinct seed URLs with stored runs.
func (cdb *ChunkDB) ListSeeds(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT seed FROM crawl_runs
	ORDER BY seed
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []string
	for rows.Next() {
		var seed string
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, seed)
	}

	return seeds, rows.Err()
}

// ChunkIDsForRun returns the set of chunk identifiers stored for a run.
// Because chunk identifiers are derived from chunk text, comparing the
// sets of two runs reveals added and removed content.
func (cdb *ChunkDB) ChunkIDsForRun(ctx context.Context, runID int64) (map[string]struct{}, error) {
	query := `
	SELECT DISTINCT chunk_id FROM chunks
	WHERE run_id = ?
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk id: %w", err)
		}
		ids[id] = struct{}{}
	}

	return ids, rows.Err()
}

// ChunksForRun retrieves all chunks stored for a run in insertion order.
func (cdb *ChunkDB) ChunksForRun(ctx context.Context, runID int64) ([]model.Chunk, error) {
	query := `
	SELECT chunk_id, source_url, document_title, organization, document_type,
		section_title, section_level, chapter, article, content_type,
		text, char_count, extracted_at
	FROM chunks
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []model.Chunk
	for rows.Next() {
		var c model.Chunk
		var extractedAt string

		if err := rows.Scan(
			&c.ChunkID,
			&c.SourceURL,
			&c.DocumentTitle,
			&c.Organization,
			&c.DocumentType,
			&c.SectionTitle,
			&c.SectionLevel,
			&c.Chapter,
			&c.Article,
			&c.ContentType,
			&c.Text,
			&c.CharCount,
			&extractedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		c.ExtractedAt = parseTimestamp(extractedAt)
		chunks = append(chunks, c)
	}

	return chunks, rows.Err()
}

// ChunkTextByID looks up the stored text of a chunk by identifier within a run.
// Returns ("", false, nil) when the chunk is not present.
func (cdb *ChunkDB) ChunkTextByID(ctx context.Context, runID int64, chunkID string) (string, bool, error) {
	query := `
	SELECT text FROM chunks
	WHERE run_id = ? AND chunk_id = ?
	LIMIT 1
	`

	var text string
	err := cdb.db.QueryRowContext(ctx, query, runID, chunkID).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get chunk text: %w", err)
	}

	return text, true, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
