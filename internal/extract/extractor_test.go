package extract

import (
	"reflect"
	"testing"
	"time"

	"github.com/patpij2/server-login-sub000/internal/model"
)

func htmlPage(url, body string) *model.Page {
	return &model.Page{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Snapshot:    body,
		FetchedAt:   time.Now(),
	}
}

func TestExtractorExtract(t *testing.T) {
	t.Parallel()

	t.Run("full bundle from contact page", func(t *testing.T) {
		t.Parallel()

		body := `<html><head><meta name="keywords" content="widgets, manufacturing"></head><body>
			<div class="team">
				<p>Jane Smith, Senior Director</p>
				<a href="mailto:jane@acme.com">Email Jane</a>
				<a href="https://www.linkedin.com/in/jane-smith">LinkedIn</a>
			</div>
			<footer>Acme Widgets, 123 Main St, Springfield, IL 62704</footer>
		</body></html>`

		ex := NewExtractor()
		bundle := ex.Extract(htmlPage("https://acme.com/contact", body))

		if !reflect.DeepEqual(bundle.Emails, []string{"jane@acme.com"}) {
			t.Errorf("unexpected emails %v", bundle.Emails)
		}
		if !contains(bundle.Names, "Jane Smith") {
			t.Errorf("expected Jane Smith in %v", bundle.Names)
		}
		if !contains(bundle.JobTitles, "Senior Director") {
			t.Errorf("expected Senior Director in %v", bundle.JobTitles)
		}
		if !contains(bundle.Addresses, "123 Main St, Springfield, IL 62704") {
			t.Errorf("expected address in %v", bundle.Addresses)
		}
		if !contains(bundle.Social["linkedin"], "jane-smith") {
			t.Errorf("expected linkedin handle in %v", bundle.Social)
		}
		if !contains(bundle.Keywords, "widgets") {
			t.Errorf("expected keyword in %v", bundle.Keywords)
		}
	})

	t.Run("emails only when personal data disabled", func(t *testing.T) {
		t.Parallel()

		ex := NewExtractor(WithPersonalData(false))
		bundle := ex.Extract(htmlPage("https://acme.com", `<p>Contact info@acme.com, Jane Smith, CEO</p>`))

		if len(bundle.Emails) != 1 {
			t.Errorf("expected one email, got %v", bundle.Emails)
		}
		if bundle.Names != nil || bundle.JobTitles != nil {
			t.Errorf("expected no personal data, got %+v", bundle)
		}
	})

	t.Run("non-html falls back to text scan", func(t *testing.T) {
		t.Parallel()

		page := &model.Page{
			URL:         "https://acme.com/contact.txt",
			ContentType: "text/plain",
			Snapshot:    "write to ops@acme.com",
		}
		bundle := NewExtractor().Extract(page)
		if !reflect.DeepEqual(bundle.Emails, []string{"ops@acme.com"}) {
			t.Errorf("unexpected emails %v", bundle.Emails)
		}
	})
}

func TestAggregateMergePage(t *testing.T) {
	t.Parallel()

	t.Run("union across pages keyed by email", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregate()
		agg.MergePage("https://acme.com/contact", &Bundle{
			Emails: []string{"jane@acme.com"},
			Names:  []string{"Jane Smith"},
			Social: map[string][]string{"linkedin": {"jane-smith"}},
		}, true)
		agg.MergePage("https://acme.com/about", &Bundle{
			Emails:    []string{"jane@acme.com", "bob@acme.com"},
			Names:     []string{"Jane Smith", "Bob Jones"},
			JobTitles: []string{"CEO"},
		}, true)

		if agg.TotalEmails() != 2 {
			t.Fatalf("expected 2 unique emails, got %d", agg.TotalEmails())
		}
		jane := agg.Records["jane@acme.com"]
		if jane == nil {
			t.Fatal("expected record for jane@acme.com")
		}
		if jane.SourceURL != "https://acme.com/contact" {
			t.Errorf("expected first-seen source URL, got %q", jane.SourceURL)
		}
		if !reflect.DeepEqual(jane.Names, []string{"Jane Smith", "Bob Jones"}) {
			t.Errorf("unexpected names %v", jane.Names)
		}
		if !contains(jane.JobTitles, "CEO") {
			t.Errorf("expected CEO merged from second page, got %v", jane.JobTitles)
		}
	})

	t.Run("idempotent under re-merge", func(t *testing.T) {
		t.Parallel()

		bundle := &Bundle{
			Emails:    []string{"a@b.com"},
			Names:     []string{"Ann Bell"},
			Addresses: []string{"123 Main St, Springfield, IL 62704"},
			Social:    map[string][]string{"twitter": {"annbell"}},
		}

		agg := NewAggregate()
		agg.MergePage("https://b.com", bundle, true)
		first := *agg.Records["a@b.com"]
		agg.MergePage("https://b.com", bundle, true)
		second := *agg.Records["a@b.com"]

		if !reflect.DeepEqual(first.Names, second.Names) ||
			!reflect.DeepEqual(first.Addresses, second.Addresses) ||
			!reflect.DeepEqual(first.SocialMedia, second.SocialMedia) {
			t.Errorf("re-merge changed the record: %+v vs %+v", first, second)
		}
		if agg.TotalEmails() != 1 {
			t.Errorf("expected 1 email after re-merge, got %d", agg.TotalEmails())
		}
	})

	t.Run("no records without personal data collection", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregate()
		agg.MergePage("https://b.com", &Bundle{Emails: []string{"a@b.com"}, Names: []string{"Ann Bell"}}, false)

		if agg.TotalEmails() != 1 {
			t.Errorf("expected email collected, got %d", agg.TotalEmails())
		}
		if len(agg.Records) != 0 {
			t.Errorf("expected no personal records, got %v", agg.Records)
		}
	})
}
