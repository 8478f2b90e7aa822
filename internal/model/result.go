package model

import "time"

// ScrapeResult is the outcome of one crawl job against one seed URL.
// A failed seed still yields a ScrapeResult with Success=false and the
// error message recorded; failure is data, not a transport-level error.
type ScrapeResult struct {
	// URL is the seed URL this result belongs to.
	URL string `json:"url"`

	// Success indicates whether the crawl ran to a budget boundary.
	// Budget exhaustion counts as success.
	Success bool `json:"success"`

	// Error holds the failure message when Success is false.
	Error string `json:"error,omitempty"`

	// Emails lists unique canonical addresses in first-seen order.
	Emails []string `json:"emails"`

	// TotalEmails is len(Emails), kept explicit for serialized output.
	TotalEmails int `json:"total_emails"`

	// PagesVisited is the number of pages actually fetched.
	PagesVisited int `json:"pages_visited"`

	// PersonalData maps each email to its accumulated record.
	// Nil unless personal-data collection was enabled.
	PersonalData map[string]*PersonalDataRecord `json:"personal_data,omitempty"`

	// Timestamp records when the crawl job finished.
	Timestamp time.Time `json:"timestamp"`
}

// NewScrapeResult creates an empty result for a seed URL.
func NewScrapeResult(seedURL string) *ScrapeResult {
	return &ScrapeResult{
		URL:    seedURL,
		Emails: make([]string, 0),
	}
}

// Fail marks the result as failed with the given error.
func (r *ScrapeResult) Fail(err error) *ScrapeResult {
	r.Success = false
	if err != nil {
		r.Error = err.Error()
	}
	r.Timestamp = time.Now()
	return r
}

// BatchResult aggregates the per-seed outcomes of one batch run.
// It is immutable once the batch completes; the report writers consume it.
type BatchResult struct {
	// TotalURLs is the number of seed URLs submitted.
	TotalURLs int `json:"total_urls"`

	// SuccessfulURLs is the number of seeds that completed.
	SuccessfulURLs int `json:"successful_urls"`

	// FailedURLs is the number of seeds that failed.
	FailedURLs int `json:"failed_urls"`

	// TotalEmails sums unique emails across successful seeds. The same
	// address on two different seeds counts twice: uniqueness is scoped
	// to one crawl job, not the batch.
	TotalEmails int `json:"total_emails"`

	// Results holds one entry per seed, in submission order.
	Results []*ScrapeResult `json:"results"`

	// Timestamp records when the batch completed.
	Timestamp time.Time `json:"timestamp"`
}

// NewBatchResult computes the aggregate counts over per-seed results.
// The results slice is kept in submission order.
func NewBatchResult(results []*ScrapeResult) *BatchResult {
	b := &BatchResult{
		TotalURLs: len(results),
		Results:   results,
		Timestamp: time.Now(),
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Success {
			b.SuccessfulURLs++
			b.TotalEmails += r.TotalEmails
		} else {
			b.FailedURLs++
		}
	}
	return b
}
