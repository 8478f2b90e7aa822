package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/model"
)

// BatchProcessor handles processing of multiple seed URLs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-seed execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each seed.
	// We use a factory to ensure each seed gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// cfg is the job configuration shared by all seeds.
	cfg *config.Config

	// concurrency is the maximum number of seeds processed simultaneously.
	// The default of 1 keeps batches sequential, matching the politeness
	// posture of the per-site delay.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed per-seed results.
	// Access is synchronized via mutex.
	results []*model.ScrapeResult
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

// WithConcurrency sets the maximum number of seeds processed at once.
// Default is 1 (sequential) if not specified.
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
// seeds and allows for per-seed customization if needed.
func NewBatchProcessor(cfg *config.Config, pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		cfg:             cfg,
		concurrency:     1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch crawls multiple seed URLs and returns their combined
// result. Results keep the submission order regardless of completion
// order. An oversized or empty seed list is rejected before any crawl
// starts; per-seed failures are recorded as data, never as errors.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seeds []string) (*model.BatchResult, error) {
	if len(seeds) == 0 {
		return nil, config.ErrNoSeeds
	}
	if len(seeds) > config.MaxBatchSeeds {
		return nil, config.ErrTooManySeeds
	}

	bp.logger.Info("starting batch processing",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ScrapeResult, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				bp.store(i, model.NewScrapeResult(seed).Fail(gctx.Err()))
				return nil
			default:
			}

			bp.logger.Info("crawling seed",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			job := NewJob(seed, bp.cfg)
			p := bp.pipelineFactory()

			// Pipeline errors are already recorded on the job result;
			// one failed seed must not cancel the others.
			if err := p.Execute(gctx, job); err != nil {
				bp.logger.Warn("seed failed",
					"seed", seed,
					"error", err,
				)
			} else {
				bp.logger.Info("seed completed",
					"seed", seed,
					"emails", job.Result.TotalEmails,
					"pages", job.Result.PagesVisited,
				)
			}

			bp.store(i, job.Result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := model.NewBatchResult(bp.results)

	bp.logger.Info("batch processing complete",
		"total_seeds", len(seeds),
		"successful", batch.SuccessfulURLs,
		"failed", batch.FailedURLs,
		"total_emails", batch.TotalEmails,
		"elapsed", time.Since(startTime),
	)

	return batch, nil
}

// store records a seed's result at its submission index.
func (bp *BatchProcessor) store(i int, result *model.ScrapeResult) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.results[i] = result
}
