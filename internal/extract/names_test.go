package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestIsValidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"John Doe", true},
		{"John D. Smith", true},
		{"Mary Jane Watson Parker", true},
		{"About Us", false},
		{"Contact Us Today", false},
		{"Click Here", false},
		{"X", false},
		{"John", false},
		{"John Middle Extra Four Five", false},
		{"john doe", false},
		{"John lowercase", false},
		{"J John", false},
		{"John D0e", false},
		{"Privacy Policy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValidName(tt.name); got != tt.want {
				t.Errorf("IsValidName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExtractNames(t *testing.T) {
	t.Parallel()

	t.Run("pattern based candidates", func(t *testing.T) {
		t.Parallel()

		text := `Dr. Alice Johnson leads the practice. Contact Bob Smith for sales.
			Team members include "Carol Davis" and our advisor (Frank Miller).
			Robert Brown Jr. handles accounts. Visit our About Us page or Click Here.`

		got := ExtractNames(nil, text)

		for _, want := range []string{"Alice Johnson", "Bob Smith", "Carol Davis", "Frank Miller", "Robert Brown"} {
			if !contains(got, want) {
				t.Errorf("expected %q in %v", want, got)
			}
		}
		for _, reject := range []string{"About Us", "Click Here"} {
			if contains(got, reject) {
				t.Errorf("denylisted phrase %q leaked into %v", reject, got)
			}
		}
	})

	t.Run("context near email and titles", func(t *testing.T) {
		t.Parallel()

		text := `For inquiries email Grace Hopper at grace@example.com.
			Ada Lovelace, Chief Engineer, welcomes questions.`

		got := ExtractNames(nil, text)
		if !contains(got, "Grace Hopper") {
			t.Errorf("expected name adjacent to email, got %v", got)
		}
		if !contains(got, "Ada Lovelace") {
			t.Errorf("expected name adjacent to job title, got %v", got)
		}
	})

	t.Run("contact section pass", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<div class="team-grid"><span>Linus Pauling</span></div>
			<div class="unrelated"><span>ignore this text</span></div>
		</body></html>`

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}

		got := ExtractNames(doc, documentText(doc))
		if !contains(got, "Linus Pauling") {
			t.Errorf("expected team-section name, got %v", got)
		}
	})
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
