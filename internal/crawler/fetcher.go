package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// Fetch failure reasons reported in FetchError.Reason.
const (
	// ReasonTimeout means the request exceeded its deadline.
	ReasonTimeout = "timeout"

	// ReasonNetwork covers DNS failures, refused connections, and other
	// transport errors.
	ReasonNetwork = "network"

	// ReasonBlocked means the response was a resource class the fetcher
	// is configured to skip (images, media, fonts).
	ReasonBlocked = "blocked"
)

// FetchError describes a failed page fetch. The Reason field is a stable
// string suitable for metrics labels.
type FetchError struct {
	// URL is the page that failed to fetch.
	URL string

	// Reason is one of the Reason* constants.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves a single page.
//
// Design decision: We define an interface rather than using HTTPFetcher
// directly because:
//  1. The spider can be tested with a stub fetcher and no network
//  2. Alternative transports (headless browser, cache replay) can slot in
//  3. Consistent with how the robots gate takes an injected client
type Fetcher interface {
	// Fetch retrieves the page at the given URL. Failures are returned
	// as *FetchError with a classified reason.
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// HTTPFetcher fetches pages over plain HTTP(S).
type HTTPFetcher struct {
	// client performs the requests. Timeout is the client's.
	client *http.Client

	// userAgent is sent as the User-Agent header.
	userAgent string

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64

	// settleDelay is an optional pause after each fetch, giving
	// rate-limited servers breathing room beyond the crawl delay.
	settleDelay time.Duration

	// cookie, if set, is sent verbatim as the Cookie header.
	cookie string

	// headers are extra request headers, applied after the defaults.
	headers map[string]string

	// blockedTypes are Content-Type prefixes whose bodies are not read.
	blockedTypes []string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// WithSettleDelay sets a pause applied after each successful fetch.
func WithSettleDelay(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.settleDelay = d
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra request headers. They are applied after the
// defaults, so a caller can override Accept or Accept-Language.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithBlockedTypes sets the Content-Type prefixes to skip.
func WithBlockedTypes(prefixes []string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.blockedTypes = prefixes
	}
}

// NewHTTPFetcher creates an HTTPFetcher using the given client.
// The client carries the request timeout.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       client,
		userAgent:    "leadscout/1.0",
		maxBodySize:  model.MaxPageSize,
		blockedTypes: []string{"image/", "video/", "audio/", "font/"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves a single page. Non-2xx responses are not errors: the
// page is returned with its status code and the caller decides what to
// extract from it.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: ReasonNetwork, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: classifyReason(err), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	contentType := resp.Header.Get("Content-Type")
	for _, prefix := range f.blockedTypes {
		if strings.HasPrefix(contentType, prefix) {
			return nil, &FetchError{URL: pageURL, Reason: ReasonBlocked}
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: classifyReason(err), Err: err}
	}

	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: contentType,
		Raw:         body,
		Snapshot:    string(body),
		FetchedAt:   time.Now(),
	}
	page.ComputeHash()
	page.TruncateSnapshot()
	page.TruncateRaw()

	if f.settleDelay > 0 {
		select {
		case <-ctx.Done():
			return page, nil
		case <-time.After(f.settleDelay):
		}
	}

	return page, nil
}

// classifyReason maps a transport error to a stable fetch failure reason.
func classifyReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonNetwork
}
