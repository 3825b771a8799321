package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// BatchProcessor handles concurrent extraction of multiple seed URLs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-session execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each seed.
	// The factory receives the seed so per-site configuration (headers,
	// cookies, depth overrides) can be applied.
	pipelineFactory func(seed string) *Pipeline

	// concurrency is the maximum number of concurrent sessions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed extraction results.
	// Access is synchronized via mutex.
	results []*model.ExtractionResult
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent sessions.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each seed to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// sessions and allows for per-seed customization.
func NewBatchProcessor(pipelineFactory func(seed string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ExtractionResult, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch extracts multiple seeds concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each seed gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all results in seed order, even for seeds that failed.
// The error return indicates if the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seeds []string) ([]*model.ExtractionResult, error) {
	bp.logger.Info("starting batch processing",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ExtractionResult, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("extracting seed",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			result := model.NewExtractionResult(seed)

			p := bp.pipelineFactory(seed)
			err := p.Execute(ctx, result)

			// Store the result regardless of error; the result carries
			// error information if the session failed.
			bp.mu.Lock()
			bp.results[i] = result
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("extraction failed",
					"seed", seed,
					"error", err,
				)
				// Don't return the error to errgroup - we want the other
				// sessions to continue. The error is recorded in the result.
				return nil
			}

			bp.logger.Info("extraction completed",
				"seed", seed,
				"chunks", len(result.Chunks),
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_seeds", len(seeds),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback extracts multiple seeds and calls a callback
// for each completed session. This is useful for streaming results.
//
// The callback receives the result and the index of the seed in the
// original slice. The callback is called from the goroutine that completed
// the session, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	seeds []string,
	callback func(result *model.ExtractionResult, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := model.NewExtractionResult(seed)
			p := bp.pipelineFactory(seed)
			_ = p.Execute(ctx, result) //nolint:errcheck // Error is stored in the result

			callback(result, i)

			return nil
		})
	}

	return g.Wait()
}
