package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// MarkdownWriter outputs batch results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// titleCaser renders social platform keys for display
	// (e.g. "linkedin" -> "Linkedin").
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titleCaser: cases.Title(language.English),
	}
}

// Write outputs the batch result in Markdown format.
func (w *MarkdownWriter) Write(batch *model.BatchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeSummary(md, batch)
	for _, result := range batch.Results {
		w.writeSeed(md, result)
	}

	return len(md.String()), md.Build()
}

// writeSummary writes the report header with batch-level counts.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, batch *model.BatchResult) {
	md.H1("LeadScout Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", strconv.Itoa(batch.TotalURLs)},
			{"Successful", strconv.Itoa(batch.SuccessfulURLs)},
			{"Failed", strconv.Itoa(batch.FailedURLs)},
			{"Total Emails", strconv.Itoa(batch.TotalEmails)},
			{"Completed", batch.Timestamp.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

// writeSeed writes one seed's section: status line plus a contact table.
func (w *MarkdownWriter) writeSeed(md *markdown.Markdown, result *model.ScrapeResult) {
	if result == nil {
		return
	}

	md.H2(result.URL)
	md.PlainText("")

	if !result.Success {
		md.PlainTextf("Crawl failed: %s", result.Error)
		md.PlainText("")
		return
	}

	md.PlainTextf("%d pages visited, %d unique emails.", result.PagesVisited, result.TotalEmails)
	md.PlainText("")

	if len(result.Emails) == 0 {
		return
	}

	rows := make([][]string, 0, len(result.Emails))
	for _, email := range result.Emails {
		rec := result.PersonalData[email]
		if rec == nil {
			rows = append(rows, []string{email, "", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			email,
			joinList(rec.Names),
			joinList(rec.JobTitles),
			joinList(rec.Companies),
			w.displaySocial(rec.SocialMedia),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Email", "Names", "Job Titles", "Companies", "Social"},
		Rows:   rows,
	})
	md.PlainText("")
}

// displaySocial renders the social map with title-cased platform names.
func (w *MarkdownWriter) displaySocial(social map[string][]string) string {
	if len(social) == 0 {
		return ""
	}
	display := make(map[string][]string, len(social))
	for platform, handles := range social {
		display[w.titleCaser.String(platform)] = handles
	}
	return renderSocial(display)
}
