package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Kavibharathi169/webscrapping/internal/config"
	"github.com/Kavibharathi169/webscrapping/internal/crawler"
	"github.com/Kavibharathi169/webscrapping/internal/database"
	"github.com/Kavibharathi169/webscrapping/internal/model"
	"github.com/Kavibharathi169/webscrapping/internal/report"
	"github.com/Kavibharathi169/webscrapping/internal/segment"
)

// CrawlStep crawls the site from the result's seed URL and fills the
// result with extracted chunks.
//
// Design decision: Crawling is a pipeline step rather than a direct call
// because:
// 1. It shares the Step logging and error handling with the other stages
// 2. Persistence and reporting can be composed behind it uniformly
// 3. A fresh Spider per execution keeps sessions independent
type CrawlStep struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// extractor segments each fetched page.
	extractor crawler.PageExtractor

	// spiderOpts configure the Spider created per execution.
	spiderOpts []crawler.SpiderOption

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithSpiderOptions sets the options applied to the Spider created for
// each execution.
func WithSpiderOptions(opts ...crawler.SpiderOption) CrawlStepOption {
	return func(s *CrawlStep) {
		s.spiderOpts = append(s.spiderOpts, opts...)
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawling step.
// The extractor segments each fetched page; the segment package provides
// the production implementation.
func NewCrawlStep(client *http.Client, extractor crawler.PageExtractor, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		client:    client,
		extractor: extractor,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
// A fresh Spider is built per execution so visited-set state never leaks
// between sessions.
func (s *CrawlStep) Do(ctx context.Context, result *model.ExtractionResult) error {
	spider := crawler.NewSpider(s.client, s.extractor, s.spiderOpts...)

	crawled, err := spider.Crawl(ctx, result.Seed)
	if crawled != nil {
		// Keep the original start time; the spider stamps everything else.
		crawled.StartedAt = result.StartedAt
		*result = *crawled
	}
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	s.logger.Info("crawl completed",
		"seed", result.Seed,
		"pages_fetched", result.PagesFetched,
		"chunks", len(result.Chunks),
	)

	return nil
}

// PersistStep saves the extraction result to the chunk database.
//
// Design decision: Persistence is a separate step because:
// 1. It is optional (enabled by the --save flag)
// 2. The diff command needs stored runs, not live crawls
// 3. Database failures shouldn't be entangled with crawl logic
type PersistStep struct {
	// db is the chunk database to write to.
	db *database.ChunkDB

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(db *database.ChunkDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, result *model.ExtractionResult) error {
	runID, err := s.db.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("persist failed: %w", err)
	}

	s.logger.Info("result persisted",
		"run_id", runID,
		"chunks", len(result.Chunks),
	)

	return nil
}

// ReportStep writes the extraction result using a report writer.
type ReportStep struct {
	// writer is the report destination, possibly a MultiWriter.
	writer report.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// ReportStepOption configures a ReportStep.
type ReportStepOption func(*ReportStep)

// WithReportLogger sets a custom logger for the report step.
func WithReportLogger(logger *slog.Logger) ReportStepOption {
	return func(s *ReportStep) {
		s.logger = logger
	}
}

// NewReportStep creates a new report step.
func NewReportStep(writer report.Writer, opts ...ReportStepOption) *ReportStep {
	s := &ReportStep{
		writer: writer,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do executes the report step.
func (s *ReportStep) Do(_ context.Context, result *model.ExtractionResult) error {
	n, err := s.writer.Write(result)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	s.logger.Debug("report written", "bytes", n)
	return nil
}

// NewExtractor builds the page extractor configured by cfg.
// The static organization label wins over pattern derivation when set.
func NewExtractor(cfg *config.Config) *segment.Extractor {
	opts := []segment.ExtractorOption{
		segment.WithMinChunkLen(cfg.MinChunkLen),
		segment.WithContainers(cfg.IncludeContainers),
		segment.WithDocumentType(cfg.DocumentType),
	}
	if cfg.OrgLabel != "" {
		opts = append(opts, segment.WithStaticOrg(cfg.OrgLabel))
	} else if cfg.OrgPattern != "" {
		opts = append(opts, segment.WithOrgExtractor(segment.PatternOrgExtractor(cfg.OrgPattern)))
	}
	return segment.NewExtractor(opts...)
}

// SpiderOptions translates cfg into the Spider options for one crawl.
func SpiderOptions(cfg *config.Config, logger *slog.Logger) []crawler.SpiderOption {
	opts := []crawler.SpiderOption{
		crawler.WithMaxDepth(cfg.CrawlDepth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithBlockedExtensions(cfg.BlockedExtensions),
		crawler.WithAllowSubdomains(cfg.AllowSubdomains),
		crawler.WithSpiderLogger(logger),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	if len(cfg.PathKeywords) > 0 {
		opts = append(opts, crawler.WithPathKeywords(cfg.PathKeywords))
	}
	return opts
}

// Default creates a pipeline with the standard steps configured from cfg.
// The db and writer are optional: a nil db skips persistence, a nil writer
// skips reporting.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want crawl, persist, and report in that order
// 2. Reduces boilerplate in the CLI
// 3. Ensures consistent ordering
func Default(client *http.Client, cfg *config.Config, db *database.ChunkDB, writer report.Writer, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	p.AddStep(NewCrawlStep(
		client,
		NewExtractor(cfg),
		WithSpiderOptions(SpiderOptions(cfg, p.logger)...),
		WithCrawlLogger(p.logger),
	))

	if db != nil {
		p.AddStep(NewPersistStep(db, WithPersistLogger(p.logger)))
	}
	if writer != nil {
		p.AddStep(NewReportStep(writer, WithReportLogger(p.logger)))
	}

	return p
}
