// Package robots implements the robots.txt compliance gate.
//
// The gate fetches and caches robots.txt once per host and answers
// CanFetch for individual URLs. It never returns an error: a failed
// robots.txt fetch (network error, 404) is treated as "allowed"
// (fail-open), logged but not blocking. When compliance is disabled the
// gate is bypassed entirely; this is an explicit caller-controlled escape
// hatch, not a bug.
package robots

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/temoto/robotstxt"
)

// cacheSize bounds the per-host cache. One entry per host is tiny, but an
// unbounded map would grow forever if the gate is shared across many jobs.
const cacheSize = 512

// maxRobotsBody caps the robots.txt response body read.
const maxRobotsBody = 512 * 1024

// Gate answers whether a URL may be fetched under robots.txt rules.
// A Gate may be shared by concurrent jobs: the cache is safe for
// concurrent use and verdict writes are idempotent (last-write-wins).
type Gate struct {
	client    *http.Client
	userAgent string
	enabled   bool
	logger    *slog.Logger

	// cache maps "scheme://host" to the parsed robots data for that host.
	// A nil entry value means robots.txt could not be fetched or parsed;
	// such hosts are always allowed.
	cache *lru.Cache[string, *robotstxt.RobotsData]
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets a custom logger for the gate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithUserAgent sets the agent name matched against robots.txt groups.
func WithUserAgent(ua string) Option {
	return func(g *Gate) {
		g.userAgent = ua
	}
}

// WithEnabled toggles robots.txt compliance. When disabled, CanFetch
// always returns true and no robots.txt is ever fetched.
func WithEnabled(enabled bool) Option {
	return func(g *Gate) {
		g.enabled = enabled
	}
}

// NewGate creates a Gate using the given HTTP client for robots.txt
// fetches. The client should carry the same timeout as page fetches.
func NewGate(client *http.Client, opts ...Option) *Gate {
	cache, _ := lru.New[string, *robotstxt.RobotsData](cacheSize)
	g := &Gate{
		client:    client,
		userAgent: "leadscout",
		enabled:   true,
		logger:    slog.Default(),
		cache:     cache,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanFetch reports whether the URL may be fetched. It never returns an
// error; malformed URLs and robots.txt failures fail open.
func (g *Gate) CanFetch(ctx context.Context, rawURL string) bool {
	if !g.enabled {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	key := u.Scheme + "://" + u.Host
	data, ok := g.cache.Get(key)
	if !ok {
		data = g.fetchRobots(ctx, u)
		g.cache.Add(key, data)
	}
	if data == nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, g.userAgent)
}

// fetchRobots retrieves and parses robots.txt for the URL's host.
// Any failure yields nil, which CanFetch treats as allowed.
func (g *Gate) fetchRobots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots.txt fetch failed, allowing host",
			"url", robotsURL,
			"error", err,
		)
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBody))
	if err != nil {
		g.logger.Debug("robots.txt read failed, allowing host",
			"url", robotsURL,
			"error", err,
		)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		g.logger.Debug("robots.txt parse failed, allowing host",
			"url", robotsURL,
			"error", err,
		)
		return nil
	}
	return data
}
