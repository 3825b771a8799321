package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Kavibharathi169/webscrapping/internal/config"
	"github.com/Kavibharathi169/webscrapping/internal/crawler"
	"github.com/Kavibharathi169/webscrapping/internal/database"
	"github.com/Kavibharathi169/webscrapping/internal/log"
	"github.com/Kavibharathi169/webscrapping/internal/model"
	"github.com/Kavibharathi169/webscrapping/internal/pipeline"
	"github.com/Kavibharathi169/webscrapping/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a site and segment governance pages into text chunks",
		Long: `Crawl fetches pages within the seed's domain, segments their content into
structured text chunks, and writes a report.

Each chunk carries the section, chapter, and article context it was found
under, plus the source URL, document title, and organization label. Results
are stored in a local SQLite database so successive crawls of the same seed
can be compared with 'webscrap diff'.

Examples:
  # Crawl a governance section and write the default text report
  webscrap crawl https://example.com/governance/

  # Crawl multiple seeds concurrently
  webscrap crawl https://a.example.com/ir/ https://b.example.com/csr/

  # Only follow URLs whose path mentions governance topics
  webscrap crawl -k governance,sustainability https://example.com/

  # Output a JSON report to a file
  webscrap crawl --json -o report.json https://example.com/governance/

  # Use a custom configuration file
  webscrap crawl -c myconfig.yaml https://example.com/governance/

Configuration file (.webscrap) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Maximum crawl recursion depth (0 fetches only the seed page)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch per seed")
	cmd.Flags().StringSliceP("keywords", "k", nil,
		"Only follow URLs whose path contains one of these keywords")
	cmd.Flags().Bool("subdomains", false,
		"Follow links on subdomains of the seed's host")

	// Segmentation flags
	cmd.Flags().Int("min-chunk-len", config.DefaultMinChunkLen,
		"Minimum chunk text length in characters")
	cmd.Flags().Bool("containers", false,
		"Also segment generic div and span containers (noisier output)")
	cmd.Flags().String("org", "",
		"Fixed organization label for every chunk (default: derived from page)")
	cmd.Flags().String("doc-type", config.DefaultDocumentType,
		"Document type label stamped on every chunk")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawl sessions")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webscrap in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Write report to specified file path (empty writes to stdout)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.PathKeywords, err = cmd.Flags().GetStringSlice("keywords")
	if err != nil {
		return nil, err
	}

	cfg.AllowSubdomains, err = cmd.Flags().GetBool("subdomains")
	if err != nil {
		return nil, err
	}

	cfg.MinChunkLen, err = cmd.Flags().GetInt("min-chunk-len")
	if err != nil {
		return nil, err
	}

	cfg.IncludeContainers, err = cmd.Flags().GetBool("containers")
	if err != nil {
		return nil, err
	}

	cfg.OrgLabel, err = cmd.Flags().GetString("org")
	if err != nil {
		return nil, err
	}

	cfg.DocumentType, err = cmd.Flags().GetString("doc-type")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteProfiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteProfiles = &config.File{
			Sites: make(map[string]config.SiteProfile),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (seed URLs)
	cfg.Seeds = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// The sanitizing handler masks cookie and authorization values so site
// credentials from the config file never reach the logs.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return log.NewLogger(w, verbose)
}

// normalizeSeed validates a seed URL and fills in a missing scheme.
// Bare host names are treated as https.
func normalizeSeed(seed string) (string, error) {
	s := strings.TrimSpace(seed)
	if s == "" {
		return "", errors.New("empty seed URL")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}
	return u.String(), nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Seeds) == 0 {
		return errors.New("no seeds provided (specify one or more URLs as arguments)")
	}

	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"depth", cfg.CrawlDepth,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Validate and normalize all seed URLs before doing any work
	for i, seed := range cfg.Seeds {
		normalized, err := normalizeSeed(seed)
		if err != nil {
			return fmt.Errorf("invalid seed URL %q: %w", seed, err)
		}
		cfg.Seeds[i] = normalized
	}

	// Open database connection if saving is enabled
	var db *database.ChunkDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := &http.Client{Timeout: cfg.Timeout}

	// Use batch processor for parallel crawling if multiple seeds
	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, client, db, logger)
	}

	// Single seed or sequential crawling
	return runSequentialCrawl(ctx, cfg, client, db, logger)
}

// runSequentialCrawl crawls seeds one at a time.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, client *http.Client, db *database.ChunkDB, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Create pipeline with site-specific overrides applied
		p := createPipelineForSeed(client, logger, cfg, db, seed)

		result := model.NewExtractionResult(seed)

		fmt.Printf("Crawling %s...\n", seed)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, result); err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Crawl completed in %s: %d pages, %d chunks\n\n",
			elapsed.Round(time.Millisecond), result.PagesFetched, len(result.Chunks))

		// Generate and output report
		if err := outputReport(cfg, result, len(cfg.Seeds) > 1); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchCrawl crawls multiple seeds concurrently using BatchProcessor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, client *http.Client, db *database.ChunkDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d seeds (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with a per-seed pipeline factory so
	// site-specific profiles apply in batch mode too.
	bp := pipeline.NewBatchProcessor(
		func(seed string) *pipeline.Pipeline {
			return createPipelineForSeed(client, logger, cfg, db, seed)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Seeds, func(result *model.ExtractionResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Crawl completed: %s (%d pages, %d chunks)\n",
			index+1, len(cfg.Seeds), result.Seed, result.PagesFetched, len(result.Chunks))

		// Generate and output report
		if err := outputReport(cfg, result, true); err != nil {
			logger.Error("report failed", "seed", result.Seed, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch crawl completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForSeed creates a pipeline with the seed's site profile
// applied on top of the global configuration.
func createPipelineForSeed(client *http.Client, logger *slog.Logger, cfg *config.Config, db *database.ChunkDB, seed string) *pipeline.Pipeline {
	// Look up the site profile by host
	profile := profileForSeed(cfg, seed)

	// Apply profile overrides on a copy so other seeds are unaffected
	seedCfg := *cfg
	if profile.Depth > 0 {
		seedCfg.CrawlDepth = profile.Depth
	}
	if profile.MinChunkLen > 0 {
		seedCfg.MinChunkLen = profile.MinChunkLen
	}
	if len(profile.PathKeywords) > 0 {
		seedCfg.PathKeywords = profile.PathKeywords
	}
	if len(profile.BlockedExtensions) > 0 {
		seedCfg.BlockedExtensions = profile.BlockedExtensions
	}
	if profile.AllowSubdomains {
		seedCfg.AllowSubdomains = true
	}
	if profile.OrgLabel != "" {
		seedCfg.OrgLabel = profile.OrgLabel
	}

	spiderOpts := pipeline.SpiderOptions(&seedCfg, logger)
	if profile.Cookie != "" {
		spiderOpts = append(spiderOpts, crawler.WithCookie(profile.Cookie))
	}
	if len(profile.Headers) > 0 {
		spiderOpts = append(spiderOpts, crawler.WithHeaders(profile.Headers))
	}

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddStep(pipeline.NewCrawlStep(
		client,
		pipeline.NewExtractor(&seedCfg),
		pipeline.WithSpiderOptions(spiderOpts...),
		pipeline.WithCrawlLogger(logger),
	))
	if db != nil {
		p.AddStep(pipeline.NewPersistStep(db, pipeline.WithPersistLogger(logger)))
	}

	return p
}

// profileForSeed returns the merged site profile for a seed URL.
func profileForSeed(cfg *config.Config, seed string) config.SiteProfile {
	if cfg.SiteProfiles == nil {
		return config.SiteProfile{}
	}

	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return cfg.SiteProfiles.Defaults
	}
	return cfg.SiteProfiles.GetSiteProfile(u.Hostname())
}

// outputReport writes the extraction report in the requested format.
// When multiple seeds are crawled into files, each seed gets its own file
// named after its host so reports do not overwrite each other.
func outputReport(cfg *config.Config, result *model.ExtractionResult, multiSeed bool) error {
	// Determine output destination
	var output *os.File
	toFile := cfg.OutputFile != ""
	if toFile {
		path := cfg.OutputFile
		if multiSeed {
			path = reportPathForSeed(cfg.OutputFile, result.Seed)
		}

		// Create directories if they don't exist
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f

		fmt.Printf("Saved: %s\n", path)
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case toFile:
		// The plain chunk block format, matching the reference output
		writer = report.NewTextWriter(output)
	default:
		// On stdout, prepend the crawl summary
		writer = report.NewTextWriter(output, report.WithSummary())
	}

	_, err := writer.Write(result)
	return err
}

// reportPathForSeed derives a per-seed report path by inserting the seed's
// host before the file extension.
func reportPathForSeed(base, seed string) string {
	host := "seed"
	if u, err := url.Parse(seed); err == nil && u.Hostname() != "" {
		host = strings.ReplaceAll(u.Hostname(), ".", "_")
	}

	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + host + ext
}
