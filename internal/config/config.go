package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The crawl limits mirror common politeness practice for small business
// sites: shallow depth, a modest page budget, and a one second delay.
const (
	// DefaultMaxDepth limits BFS recursion from the seed URL.
	// Depth 0 means only the seed page. Contact information almost always
	// lives within two clicks of the landing page, so 2 is the default.
	DefaultMaxDepth = 2

	// DefaultMaxPages caps the total pages fetched per crawl job.
	// This prevents runaway crawling on large or infinitely-generating sites.
	DefaultMaxPages = 50

	// DefaultDelay is the fixed wait between successive fetches.
	// This is a politeness setting independent of server response time.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout bounds each page navigation. The valid range is
	// MinTimeout..MaxTimeout; values outside are rejected by Validate.
	DefaultTimeout = 30 * time.Second

	// MinTimeout and MaxTimeout bound the per-fetch timeout range.
	MinTimeout = 5 * time.Second
	MaxTimeout = 120 * time.Second

	// MaxDepthLimit is the largest accepted crawl depth.
	MaxDepthLimit = 10

	// MaxPagesLimit is the largest accepted page budget.
	MaxPagesLimit = 1000

	// MaxDelay is the largest accepted inter-request delay.
	MaxDelay = 10 * time.Second

	// MaxBatchSeeds caps the number of seed URLs in one batch run.
	// Requests exceeding this are rejected before any work starts.
	MaxBatchSeeds = 10

	// DefaultUserAgent identifies leadscout in HTTP requests.
	// A descriptive User-Agent lets site operators recognize crawler
	// traffic in their logs and apply robots rules to it.
	DefaultUserAgent = "leadscout/1.0 (+https://github.com/patpij2/server-login-sub000)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is plenty for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultSettleDelay is a short wait after navigation before the body
	// is read, giving slow origins a moment to finish streaming content.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultEnrichTimeout bounds the AI categorization HTTP call.
	DefaultEnrichTimeout = 20 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "leadscout"
)

// Config holds all options for a crawl job and the surrounding CLI.
// It is populated from flags and the optional YAML config file, then passed
// through the application by value injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (CrawlConfig, ReportConfig, ...) for simplicity. The number of options is
// manageable, and nesting would add complexity without much benefit.
type Config struct {
	// MaxDepth is the maximum BFS depth from the seed URL.
	// Must be within [0, MaxDepthLimit].
	MaxDepth int

	// MaxPages is the hard ceiling on pages fetched per crawl job.
	// Must be within [1, MaxPagesLimit].
	MaxPages int

	// Delay is the fixed inter-request wait within one job.
	// Must be within [0, MaxDelay].
	Delay time.Duration

	// Timeout bounds each individual page fetch.
	// Must be within [MinTimeout, MaxTimeout].
	Timeout time.Duration

	// RespectRobots enables the robots.txt compliance gate.
	// Disabling it is an explicit caller-controlled escape hatch.
	RespectRobots bool

	// SkipImages, SkipCSS, SkipFonts, and SkipMedia abort fetches of the
	// corresponding resource classes before their bodies are read.
	SkipImages bool
	SkipCSS    bool
	SkipFonts  bool
	SkipMedia  bool

	// CollectPersonalData enables name/address/social/title extraction
	// keyed by email. When false, only emails are collected.
	CollectPersonalData bool

	// UseAICategorization enables the optional enrichment stage.
	UseAICategorization bool

	// RestrictToPath, when non-empty, is a literal prefix that every
	// followed link must fall under: a full URL is matched against the
	// whole link, a bare path against the link path only. Evaluated in
	// addition to the same-origin filter.
	RestrictToPath string

	// UserAgent is the identifying User-Agent header for all requests.
	UserAgent string

	// MaxBodySize limits the response body size read per page.
	MaxBodySize int64

	// SettleDelay is the post-navigation wait before reading content.
	SettleDelay time.Duration

	// BatchConcurrency is the number of seeds processed simultaneously.
	// The default of 1 preserves the sequential single-session model.
	BatchConcurrency int

	// EnrichEndpoint is the chat-completion style HTTP endpoint for the
	// AI categorization stage. Required when UseAICategorization is set.
	EnrichEndpoint string

	// EnrichAPIKey authenticates against the enrichment endpoint.
	EnrichAPIKey string

	// EnrichModel names the remote categorization model.
	EnrichModel string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// LogFile, when set, sends logs to a size-rotated file instead of stderr.
	LogFile string

	// ConfigFilePath is the explicit path to the YAML config file.
	// If empty, .leadscout is searched in the working and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory for the SQLite history database. When set,
	// completed batch results are persisted there.
	DBDir string

	// SaveToDB indicates whether to persist batch results.
	// Automatically true when DBDir is configured.
	SaveToDB bool

	// CSVReport, JSONReport, and MarkdownReport select the output format.
	// At most one may be set; the default is the CSV export.
	CSVReport      bool
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the output path for the report. Empty means stdout.
	ReportFile string

	// Seeds is the list of seed URLs to crawl.
	Seeds []string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		MaxDepth:            DefaultMaxDepth,
		MaxPages:            DefaultMaxPages,
		Delay:               DefaultDelay,
		Timeout:             DefaultTimeout,
		RespectRobots:       true,
		SkipImages:          true,
		SkipCSS:             true,
		SkipFonts:           true,
		SkipMedia:           true,
		CollectPersonalData: true,
		UserAgent:           DefaultUserAgent,
		MaxBodySize:         DefaultMaxBodySize,
		SettleDelay:         DefaultSettleDelay,
		BatchConcurrency:    1,
		DBDir:               DefaultDBDir(),
	}
}

// DefaultDBDir returns the XDG data directory for the history database.
func DefaultDBDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration for invalid values.
// It returns a sentinel error describing the first problem found so that
// callers can match with errors.Is.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if len(c.Seeds) > MaxBatchSeeds {
		return ErrTooManySeeds
	}
	if c.MaxDepth < 0 || c.MaxDepth > MaxDepthLimit {
		return ErrInvalidDepth
	}
	if c.MaxPages < 1 || c.MaxPages > MaxPagesLimit {
		return ErrInvalidMaxPages
	}
	if c.Delay < 0 || c.Delay > MaxDelay {
		return ErrInvalidDelay
	}
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchConcurrency < 1 {
		return ErrInvalidConcurrency
	}
	if moreThanOne(c.CSVReport, c.JSONReport, c.MarkdownReport) {
		return ErrConflictingReportFormats
	}
	if c.UseAICategorization && c.EnrichEndpoint == "" {
		return ErrMissingEnrichEndpoint
	}
	return nil
}

func moreThanOne(flags ...bool) bool {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n > 1
}

// SiteOverride returns the per-site configuration for the given host,
// or nil when the config file defines none.
func (c *Config) SiteOverride(host string) *SiteConfig {
	if c.SiteConfigs == nil {
		return nil
	}
	if sc, ok := c.SiteConfigs.Sites[host]; ok {
		return &sc
	}
	return nil
}
