package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This lets callers use errors.Is() for
// programmatic handling while still providing human-readable messages.
var (
	// ErrNoSeeds is returned when no seed URL is provided.
	ErrNoSeeds = errors.New("no seed URL specified: provide a URL or use --list")

	// ErrTooManySeeds is returned when a batch exceeds MaxBatchSeeds seeds.
	// The batch is rejected before any network activity starts.
	ErrTooManySeeds = errors.New("too many seed URLs: a batch accepts at most 10")

	// ErrInvalidDepth is returned when the crawl depth is outside [0, 10].
	ErrInvalidDepth = errors.New("invalid max depth: must be between 0 and 10")

	// ErrInvalidMaxPages is returned when the page budget is outside [1, 1000].
	ErrInvalidMaxPages = errors.New("invalid max pages: must be between 1 and 1000")

	// ErrInvalidDelay is returned when the inter-request delay is negative
	// or exceeds 10 seconds.
	ErrInvalidDelay = errors.New("invalid delay: must be between 0s and 10s")

	// ErrInvalidTimeout is returned when the fetch timeout is outside
	// [5s, 120s]. Shorter values fail on ordinary slow pages; longer ones
	// stall the whole crawl on one dead page.
	ErrInvalidTimeout = errors.New("invalid timeout: must be between 5s and 120s")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid batch concurrency: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --csv, --json, and --markdown is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --csv, --json, --markdown")

	// ErrMissingEnrichEndpoint is returned when AI categorization is
	// enabled without an enrichment endpoint.
	ErrMissingEnrichEndpoint = errors.New("ai categorization enabled but no enrichment endpoint configured")

	// ErrInvalidSeedURL is returned for a malformed seed URL. For batches
	// this is recorded per-seed rather than failing the whole run.
	ErrInvalidSeedURL = errors.New("invalid seed URL")
)
