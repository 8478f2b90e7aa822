package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/crawler"
	"github.com/patpij2/server-login-sub000/internal/database"
	"github.com/patpij2/server-login-sub000/internal/enrich"
	"github.com/patpij2/server-login-sub000/internal/extract"
	"github.com/patpij2/server-login-sub000/internal/metrics"
	"github.com/patpij2/server-login-sub000/internal/robots"
)

// CrawlStep runs the site spider for the job's seed and fills the
// result with the aggregated contact data.
type CrawlStep struct {
	// metrics receives crawl instrumentation. Nil is a no-op.
	metrics *metrics.Metrics

	// events receives progress notifications. Nil disables publishing.
	events chan<- crawler.Event

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlMetrics sets the Prometheus collectors for the crawl.
func WithCrawlMetrics(m *metrics.Metrics) CrawlStepOption {
	return func(s *CrawlStep) {
		s.metrics = m
	}
}

// WithCrawlEvents sets the progress event channel for the crawl.
func WithCrawlEvents(ch chan<- crawler.Event) CrawlStepOption {
	return func(s *CrawlStep) {
		s.events = ch
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates the crawl step.
func NewCrawlStep(opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		logger: slog.Default(),
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

// Do executes the crawl step. Per-site overrides from the config file
// are applied before the spider is built, so a host with a session
// cookie or a custom depth gets them without touching the job config
// other seeds see.
func (s *CrawlStep) Do(ctx context.Context, job *Job) error {
	cfg := job.Config
	var site *config.SiteConfig
	if u, err := url.Parse(job.Seed); err == nil {
		site = cfg.SiteOverride(u.Hostname())
	}
	cfg = site.Apply(cfg)

	client := &http.Client{Timeout: cfg.Timeout}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithSettleDelay(cfg.SettleDelay),
		crawler.WithBlockedTypes(blockedTypes(cfg)),
	}
	if site != nil {
		if site.Cookie != "" {
			fetcherOpts = append(fetcherOpts, crawler.WithCookie(site.Cookie))
		}
		if len(site.Headers) > 0 {
			fetcherOpts = append(fetcherOpts, crawler.WithHeaders(site.Headers))
		}
	}
	fetcher := crawler.NewHTTPFetcher(client, fetcherOpts...)

	gate := robots.NewGate(client,
		robots.WithEnabled(cfg.RespectRobots),
		robots.WithUserAgent(cfg.UserAgent),
		robots.WithLogger(s.logger),
	)

	extractor := extract.NewExtractor(
		extract.WithPersonalData(cfg.CollectPersonalData),
	)

	spider := crawler.NewSpider(fetcher, extractor,
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithDelay(cfg.Delay),
		crawler.WithRestrictToPath(cfg.RestrictToPath),
		crawler.WithPersonalData(cfg.CollectPersonalData),
		crawler.WithRobotsGate(gate),
		crawler.WithEvents(s.events),
		crawler.WithMetrics(s.metrics),
		crawler.WithLogger(s.logger),
	)

	crawlResult, err := spider.Crawl(ctx, job.Seed)
	if err != nil {
		return err
	}

	job.Crawl = crawlResult
	job.Result.Success = true
	job.Result.Emails = crawlResult.Data.Emails
	job.Result.TotalEmails = crawlResult.Data.TotalEmails()
	job.Result.PagesVisited = len(crawlResult.Pages)
	if cfg.CollectPersonalData {
		job.Result.PersonalData = crawlResult.Data.Records
	}
	job.Result.Timestamp = time.Now()

	return nil
}

// blockedTypes maps the skip flags to Content-Type prefixes.
func blockedTypes(cfg *config.Config) []string {
	var prefixes []string
	if cfg.SkipImages {
		prefixes = append(prefixes, "image/")
	}
	if cfg.SkipMedia {
		prefixes = append(prefixes, "video/", "audio/")
	}
	if cfg.SkipFonts {
		prefixes = append(prefixes, "font/")
	}
	if cfg.SkipCSS {
		prefixes = append(prefixes, "text/css")
	}
	return prefixes
}

// EnrichStep categorizes the job's personal data records through the
// configured AI endpoint. Enrichment failures never fail the job.
type EnrichStep struct {
	// client is an optional pre-built HTTP client, used by tests to
	// inject a mock transport. Nil means a fresh client per job.
	client *http.Client

	// logger for structured logging.
	logger *slog.Logger
}

// EnrichStepOption configures an EnrichStep.
type EnrichStepOption func(*EnrichStep)

// WithEnrichHTTPClient sets the HTTP client used for enrichment calls.
func WithEnrichHTTPClient(client *http.Client) EnrichStepOption {
	return func(s *EnrichStep) {
		s.client = client
	}
}

// WithEnrichLogger sets a custom logger for the enrich step.
func WithEnrichLogger(logger *slog.Logger) EnrichStepOption {
	return func(s *EnrichStep) {
		s.logger = logger
	}
}

// NewEnrichStep creates the enrichment step.
func NewEnrichStep(opts ...EnrichStepOption) *EnrichStep {
	s := &EnrichStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *EnrichStep) Name() string {
	return "enrich"
}

// Do executes the enrichment step.
func (s *EnrichStep) Do(ctx context.Context, job *Job) error {
	cfg := job.Config
	if !cfg.UseAICategorization || len(job.Result.PersonalData) == 0 {
		return nil
	}

	httpClient := s.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultEnrichTimeout}
	}

	clientOpts := []enrich.Option{
		enrich.WithAPIKey(cfg.EnrichAPIKey),
		enrich.WithLogger(s.logger),
	}
	if cfg.EnrichModel != "" {
		clientOpts = append(clientOpts, enrich.WithModel(cfg.EnrichModel))
	}
	client := enrich.NewClient(httpClient, cfg.EnrichEndpoint, clientOpts...)

	enriched := client.EnrichAll(ctx, job.Result.PersonalData)
	s.logger.Debug("enrichment finished",
		"seed", job.Seed,
		"records", len(job.Result.PersonalData),
		"enriched", enriched,
	)
	return nil
}

// StoreStep persists the job's fetched pages to the history database.
type StoreStep struct {
	// db is the history store. Nil disables persistence.
	db *database.LeadDB

	// logger for structured logging.
	logger *slog.Logger
}

// NewStoreStep creates the persistence step.
func NewStoreStep(db *database.LeadDB, logger *slog.Logger) *StoreStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *StoreStep) Name() string {
	return "store"
}

// Do executes the persistence step. Storage failures are soft: the
// result is already complete, so losing history must not fail the job.
func (s *StoreStep) Do(ctx context.Context, job *Job) error {
	if s.db == nil || job.Crawl == nil {
		return nil
	}

	if err := s.db.SavePages(ctx, job.Seed, job.Crawl.Pages); err != nil {
		s.logger.Warn("failed to persist crawl history",
			"seed", job.Seed,
			"error", err,
		)
	}
	return nil
}
