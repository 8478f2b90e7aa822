package report

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{
	"Email",
	"Source URL",
	"Names",
	"Job Titles",
	"Companies",
	"Keywords",
	"Addresses",
	"Social Media",
	"Industries",
	"Seniority",
	"Departments",
	"Scraped At",
}

// CSVWriter outputs batch results as CSV, one row per email per seed.
//
// Design decision: We flatten to one row per (email, seed) pair rather
// than one row per seed because:
//  1. CSV consumers (spreadsheets, CRM imports) want one contact per row
//  2. List fields compress naturally into "; "-joined cells
//  3. The same email found under two seeds is two genuinely separate
//     leads with different source context
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// countingWriter tracks bytes written so Write can report a total;
// encoding/csv does not expose one.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Write outputs the header followed by one row per extracted email.
// Failed seeds contribute no rows; their absence is visible in the
// JSON and Markdown reports instead.
func (w *CSVWriter) Write(batch *model.BatchResult) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, result := range batch.Results {
		if result == nil || !result.Success {
			continue
		}
		for _, email := range result.Emails {
			if err := cw.Write(csvRow(result, email)); err != nil {
				return counter.n, err
			}
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// csvRow renders one email from one seed result as a CSV record.
func csvRow(result *model.ScrapeResult, email string) []string {
	rec := result.PersonalData[email]
	if rec == nil {
		// Personal-data collection was off; the email still gets a row.
		rec = model.NewPersonalDataRecord(email, result.URL)
	}

	sourceURL := rec.SourceURL
	if sourceURL == "" {
		sourceURL = result.URL
	}

	return []string{
		email,
		sourceURL,
		joinList(rec.Names),
		joinList(rec.JobTitles),
		joinList(rec.Companies),
		joinList(rec.Keywords),
		joinList(rec.Addresses),
		renderSocial(rec.SocialMedia),
		joinList(rec.Industries),
		joinList(rec.Seniority),
		joinList(rec.Departments),
		result.Timestamp.Format(time.RFC3339),
	}
}
