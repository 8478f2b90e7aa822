package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtractJobTitles(t *testing.T) {
	t.Parallel()

	t.Run("vocabulary scan over text", func(t *testing.T) {
		t.Parallel()

		text := "Jane Smith, Chief Executive Officer and Senior Marketing Director, founded the firm. Bob is a Software Engineer."
		got := ExtractJobTitles(nil, text)

		for _, want := range []string{"Senior Marketing Director", "Software Engineer"} {
			if !contains(got, want) {
				t.Errorf("expected %q in %v", want, got)
			}
		}
	})

	t.Run("class hinted elements", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<div class="job-title">VP</div>
			<div class="footer">nothing here</div>
		</body></html>`

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}

		got := ExtractJobTitles(doc, "")
		if !contains(got, "VP") {
			t.Errorf("expected VP from title-hinted element, got %v", got)
		}
	})
}

func TestExtractCompanies(t *testing.T) {
	t.Parallel()

	t.Run("role of company pattern", func(t *testing.T) {
		t.Parallel()

		text := "Alice Brown is the CEO of Acme Widgets and Bob serves as Director at Initech Systems."
		got := ExtractCompanies(nil, text)

		for _, want := range []string{"Acme Widgets", "Initech Systems"} {
			if !contains(got, want) {
				t.Errorf("expected %q in %v", want, got)
			}
		}
	})

	t.Run("empty result is acceptable", func(t *testing.T) {
		t.Parallel()

		if got := ExtractCompanies(nil, "a page with no organizational signals at all"); len(got) != 0 {
			t.Errorf("expected no companies, got %v", got)
		}
	})
}
