package pipeline

import (
	"context"
	"log/slog"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/crawler"
	"github.com/patpij2/server-login-sub000/internal/database"
	"github.com/patpij2/server-login-sub000/internal/metrics"
	"github.com/patpij2/server-login-sub000/internal/model"
)

// RunOptions carries the shared infrastructure a scrape run may use.
// All fields are optional; the zero value runs a plain crawl.
type RunOptions struct {
	// DB persists crawl history when set.
	DB *database.LeadDB

	// Metrics receives crawl instrumentation when set.
	Metrics *metrics.Metrics

	// Events receives crawl progress notifications when set.
	Events chan<- crawler.Event

	// Logger is used throughout the run. Nil means slog.Default().
	Logger *slog.Logger
}

func (o RunOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// newPipeline assembles the standard crawl-enrich-store pipeline.
func newPipeline(opts RunOptions) *Pipeline {
	logger := opts.logger()
	p := New(WithLogger(logger))
	p.AddSteps(
		NewCrawlStep(
			WithCrawlMetrics(opts.Metrics),
			WithCrawlEvents(opts.Events),
			WithCrawlLogger(logger),
		),
		NewEnrichStep(WithEnrichLogger(logger)),
		NewStoreStep(opts.DB, logger),
	)
	return p
}

// Scrape crawls a single seed URL. Failure is returned as data: the
// result carries Success=false and the error message, never an error
// value, so batch callers can treat every seed uniformly.
func Scrape(ctx context.Context, cfg *config.Config, seed string, opts RunOptions) *model.ScrapeResult {
	job := NewJob(seed, cfg)
	_ = newPipeline(opts).Execute(ctx, job) //nolint:errcheck // Error is recorded on the result
	return job.Result
}

// ScrapeBatch crawls up to config.MaxBatchSeeds seed URLs and returns
// their combined result. Only list-level violations (empty, oversized)
// produce an error; per-seed failures appear inside the batch result.
func ScrapeBatch(ctx context.Context, cfg *config.Config, seeds []string, opts RunOptions) (*model.BatchResult, error) {
	bp := NewBatchProcessor(cfg,
		func() *Pipeline { return newPipeline(opts) },
		WithConcurrency(cfg.BatchConcurrency),
		WithBatchLogger(opts.logger()),
	)
	return bp.ProcessBatch(ctx, seeds)
}
