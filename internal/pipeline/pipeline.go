package pipeline

import (
	"context"
	"log/slog"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/crawler"
	"github.com/patpij2/server-login-sub000/internal/model"
)

// Job carries one seed URL through the pipeline steps. Steps read and
// write its fields; the Result field is what callers ultimately consume.
type Job struct {
	// Seed is the URL the crawl starts from.
	Seed string

	// Config is the effective configuration for this job, after any
	// per-site overrides have been applied.
	Config *config.Config

	// Crawl holds the raw crawl output. Set by the crawl step, consumed
	// by later steps.
	Crawl *crawler.Result

	// Result is the accumulated outcome for this seed.
	Result *model.ScrapeResult
}

// NewJob creates a Job for one seed with an empty result.
func NewJob(seed string, cfg *config.Config) *Job {
	return &Job{
		Seed:   seed,
		Config: cfg,
		Result: model.NewScrapeResult(seed),
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the job
// accumulated by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the job to modify.
	// Returns an error if the step fails critically; soft failures should
	// be recorded on the job and return nil.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps for one seed.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and recorded on the
// job, but subsequent steps still execute.
//
// Design decision: The default is to stop on error because the later
// steps (enrichment, persistence) are meaningless without crawl output.
// The option exists for pipelines whose steps are independent.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
// A step error marks the job's result failed; whether execution
// continues depends on continueOnError.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"seed", job.Seed,
				"reason", ctx.Err(),
			)
			job.Result.Fail(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"seed", job.Seed,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"seed", job.Seed,
				"error", err,
			)

			job.Result.Fail(err)

			if !p.continueOnError {
				return err
			}
		}
	}

	return nil
}
