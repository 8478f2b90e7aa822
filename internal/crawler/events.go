package crawler

import "time"

// EventType identifies a crawl progress event.
type EventType string

// Crawl progress event types.
const (
	// EventPageStarted fires when a page fetch begins.
	EventPageStarted EventType = "page_started"

	// EventPageCompleted fires when a page has been fetched and extracted.
	EventPageCompleted EventType = "page_completed"

	// EventEmailsFound fires when a page yields one or more emails.
	EventEmailsFound EventType = "emails_found"

	// EventPageError fires when a page fetch fails. The crawl continues.
	EventPageError EventType = "page_error"

	// EventRobotsBlocked fires when robots.txt rules skip a URL.
	EventRobotsBlocked EventType = "robots_blocked"

	// EventURLFiltered fires when a discovered link is rejected by the
	// host or path filters.
	EventURLFiltered EventType = "url_filtered"
)

// Event is a progress notification emitted during a crawl.
//
// Events are advisory: they are published with a non-blocking send, so a
// slow or absent consumer never stalls the crawl and never changes its
// results. A consumer that needs every event must drain the channel
// promptly or size it generously.
type Event struct {
	// Type identifies the event.
	Type EventType

	// URL is the page or link the event concerns.
	URL string

	// Depth is the crawl depth of the page, where the seed is 0.
	Depth int

	// Count carries a per-event quantity (emails found on the page for
	// EventEmailsFound, zero otherwise).
	Count int

	// Err is set for EventPageError.
	Err error

	// Timestamp records when the event was emitted.
	Timestamp time.Time
}

// publish sends an event without blocking. Dropped events are lost.
func (s *Spider) publish(t EventType, pageURL string, depth, count int, err error) {
	if s.events == nil {
		return
	}
	ev := Event{
		Type:      t,
		URL:       pageURL,
		Depth:     depth,
		Count:     count,
		Err:       err,
		Timestamp: time.Now(),
	}
	select {
	case s.events <- ev:
	default:
	}
}
