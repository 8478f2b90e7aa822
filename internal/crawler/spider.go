package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/patpij2/server-login-sub000/internal/extract"
	"github.com/patpij2/server-login-sub000/internal/metrics"
	"github.com/patpij2/server-login-sub000/internal/model"
	"github.com/patpij2/server-login-sub000/internal/robots"
)

// skippedExtensions are URL path suffixes that never contain crawlable
// HTML. Filtering them before the fetch saves a request; the fetcher's
// Content-Type blocking catches the rest.
var skippedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".ico": true, ".css": true, ".js": true, ".pdf": true,
	".zip": true, ".gz": true, ".tar": true, ".mp3": true, ".mp4": true,
	".avi": true, ".mov": true, ".woff": true, ".woff2": true, ".ttf": true,
	".eot": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// Spider crawls a single site breadth-first, extracting contact data
// from every page it visits.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher retrieves individual pages.
	fetcher Fetcher

	// extractor pulls contact data out of fetched pages.
	extractor *extract.Extractor

	// gate answers robots.txt questions. Nil means no compliance checks.
	gate *robots.Gate

	// maxDepth limits how deep to crawl from the seed URL.
	// 0 means only the seed page, 1 means one level of links, etc.
	maxDepth int

	// maxPages limits the total number of pages to crawl.
	// This prevents runaway crawling on large sites.
	maxPages int

	// delay is the time to wait between requests.
	// This is a politeness setting to avoid overwhelming servers.
	delay time.Duration

	// restrictToPath, if set, limits crawling to URLs whose path starts
	// with this literal prefix. The seed itself is exempt.
	restrictToPath string

	// collectPersonal controls whether per-email records are built in
	// addition to the plain email list.
	collectPersonal bool

	// events receives progress notifications. Nil disables publishing.
	events chan<- Event

	// metrics receives crawl instrumentation. Nil is a no-op.
	metrics *metrics.Metrics

	// logger records per-page progress and failures.
	logger *slog.Logger

	// visited tracks URLs already visited to avoid duplicates.
	visited map[string]bool

	// mutex protects concurrent access to visited and pageCount.
	mutex sync.Mutex

	// pageCount tracks pages crawled.
	pageCount int
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the seed page, 1 = seed page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithDelay sets the politeness delay between requests.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithRestrictToPath limits crawling to links under the given literal
// prefix. A full URL ("https://site.com/blog") is matched against the
// whole link; a bare path ("/blog") against the link path only. Empty
// disables the filter.
func WithRestrictToPath(prefix string) SpiderOption {
	return func(s *Spider) {
		s.restrictToPath = prefix
	}
}

// WithPersonalData enables building per-email personal data records.
func WithPersonalData(enabled bool) SpiderOption {
	return func(s *Spider) {
		s.collectPersonal = enabled
	}
}

// WithRobotsGate sets the robots.txt compliance gate.
func WithRobotsGate(gate *robots.Gate) SpiderOption {
	return func(s *Spider) {
		s.gate = gate
	}
}

// WithEvents sets the channel receiving progress events. Events are
// sent non-blocking; a full channel drops them.
func WithEvents(ch chan<- Event) SpiderOption {
	return func(s *Spider) {
		s.events = ch
	}
}

// WithMetrics sets the Prometheus collectors updated during the crawl.
func WithMetrics(m *metrics.Metrics) SpiderOption {
	return func(s *Spider) {
		s.metrics = m
	}
}

// WithLogger sets a custom logger for the spider.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider with the given fetcher and extractor.
//
// Design decision: We require an external fetcher because:
//  1. HTTP configuration (timeouts, headers, cookies) is handled by the
//     fetcher, per-site
//  2. Tests can inject a stub and run without a network
//  3. Consistent with the robots gate taking an injected client
func NewSpider(fetcher Fetcher, extractor *extract.Extractor, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:   fetcher,
		extractor: extractor,
		maxDepth:  2,
		maxPages:  50,
		delay:     1 * time.Second,
		logger:    slog.Default(),
		visited:   make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result holds everything a crawl produced.
type Result struct {
	// Pages are the successfully fetched pages in visit order.
	Pages []*model.Page

	// Data is the contact data aggregated across all pages.
	Data *extract.Aggregate
}

// Crawl starts crawling from the seed URL and returns the fetched pages
// and aggregated contact data. Individual page failures do not abort the
// crawl; only an invalid seed or a cancelled context does.
func (s *Spider) Crawl(ctx context.Context, seedURL string) (*Result, error) {
	start, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("invalid seed URL: unsupported scheme %q", start.Scheme)
	}
	if start.Host == "" {
		return nil, fmt.Errorf("invalid seed URL: missing host")
	}

	result := &Result{
		Pages: make([]*model.Page, 0),
		Data:  extract.NewAggregate(),
	}
	queue := []queueItem{{url: start.String(), depth: 0}}

	for len(queue) > 0 && s.currentCount() < s.maxPages {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		if s.isVisited(item.url) {
			continue
		}
		s.markVisited(item.url)

		if s.gate != nil && !s.gate.CanFetch(ctx, item.url) {
			s.logger.Debug("skipping robots-disallowed URL", "url", item.url)
			s.publish(EventRobotsBlocked, item.url, item.depth, 0, nil)
			s.metrics.RecordRobotsBlocked()
			continue
		}

		s.publish(EventPageStarted, item.url, item.depth, 0, nil)

		fetchStart := time.Now()
		page, err := s.fetcher.Fetch(ctx, item.url)
		if err != nil {
			// Log but continue - some pages will fail
			s.logger.Debug("page fetch failed", "url", item.url, "error", err)
			s.publish(EventPageError, item.url, item.depth, 0, err)
			s.metrics.RecordFetchError(fetchReason(err))
			continue
		}
		s.metrics.RecordPageFetched(time.Since(fetchStart))

		page.Depth = item.depth
		var links []string
		if page.IsHTML() {
			if parsed := s.parsePage(item.url, page); parsed != nil {
				page.Title = parsed.Title
				links = parsed.InternalLinks
			}
		}

		if page.StatusCode >= 200 && page.StatusCode < 300 {
			bundle := s.extractor.Extract(page)
			before := len(result.Data.Emails)
			result.Data.MergePage(page.URL, bundle, s.collectPersonal)
			if found := len(bundle.Emails); found > 0 {
				s.publish(EventEmailsFound, item.url, item.depth, found, nil)
				s.metrics.RecordEmails(found)
			}
			s.logger.Debug("page extracted",
				"url", item.url,
				"depth", item.depth,
				"emails_on_page", len(bundle.Emails),
				"new_emails", len(result.Data.Emails)-before,
			)
		}

		result.Pages = append(result.Pages, page)
		s.incrementCount()
		s.publish(EventPageCompleted, item.url, item.depth, 0, nil)

		if item.depth < s.maxDepth {
			for _, link := range links {
				if s.isVisited(link) {
					continue
				}
				if !s.shouldCrawl(start.Host, link) {
					s.publish(EventURLFiltered, link, item.depth+1, 0, nil)
					continue
				}
				queue = append(queue, queueItem{url: link, depth: item.depth + 1})
			}
		}

		// Politeness delay
		if s.delay > 0 && len(queue) > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return result, nil
}

// queueItem represents an item in the crawl queue.
type queueItem struct {
	url   string
	depth int
}

// parsePage extracts title and links from a fetched HTML page.
func (s *Spider) parsePage(pageURL string, page *model.Page) *ParseResult {
	parser, err := NewParser(pageURL)
	if err != nil {
		return nil
	}
	parsed, err := parser.Parse(bytes.NewReader(page.Raw))
	if err != nil {
		return nil
	}
	return parsed
}

// shouldCrawl reports whether a discovered link passes the same-host,
// path-restriction, and resource-extension filters.
func (s *Spider) shouldCrawl(seedHost, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	// Same-origin: exact host match, subdomains excluded.
	if !strings.EqualFold(u.Host, seedHost) {
		return false
	}

	if s.restrictToPath != "" && !underPrefix(u, s.restrictToPath) {
		return false
	}

	return !skippedExtensions[strings.ToLower(path.Ext(u.Path))]
}

// underPrefix reports whether a link falls under the restriction prefix.
// An absolute prefix ("https://site.com/a") is matched against the full
// link URL, so "https://site.com/a/b" passes. A bare path prefix ("/a")
// is matched against the link path only.
func underPrefix(u *url.URL, prefix string) bool {
	if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
		return strings.HasPrefix(u.String(), prefix)
	}
	return strings.HasPrefix(u.Path, prefix)
}

// isVisited checks if a URL has been visited.
func (s *Spider) isVisited(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visited[normalizeURL(pageURL)]
}

// markVisited marks a URL as visited.
func (s *Spider) markVisited(pageURL string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited[normalizeURL(pageURL)] = true
}

func (s *Spider) currentCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pageCount
}

func (s *Spider) incrementCount() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pageCount++
}

// Reset clears the spider's state, allowing it to be reused.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.pageCount = 0
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. Empty path and "/" are the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// fetchReason pulls the metrics label out of a fetch error.
func fetchReason(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonNetwork
}
