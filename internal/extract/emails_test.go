package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCleanEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "info@example.com", "info@example.com", true},
		{"uppercase", "Info@Example.COM", "info@example.com", true},
		{"surrounding space", "  info@example.com  ", "info@example.com", true},
		{"bracket obfuscation", "x[at]y[dot]com", "x@y.com", true},
		{"paren obfuscation", "x (at) y (dot) com", "x@y.com", true},
		{"spaced symbols", "x @ y . com", "x@y.com", true},
		{"mailto prefix", "mailto:sales@example.com", "sales@example.com", true},
		{"mailto with query", "mailto:sales@example.com?subject=Hi", "sales@example.com", true},
		{"number shortword tail", "help@mysite.ai.26.sms", "help@mysite.ai", true},
		{"shortword after tld", "help@mysite.ai.sms", "help@mysite.ai", true},
		{"trailing dot", "info@example.com.", "info@example.com", true},
		{"country tld kept", "info@example.co.uk", "info@example.co.uk", true},
		{"not an email", "not-an-email", "", false},
		{"missing tld", "user@host", "", false},
		{"one letter tld", "user@host.x", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := CleanEmail(tt.input)
			if ok != tt.ok {
				t.Fatalf("CleanEmail(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("CleanEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractEmails(t *testing.T) {
	t.Parallel()

	t.Run("unions all sources", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>Reach us at info@example.com or sales [at] example [dot] com.</p>
			<a href="mailto:support@example.com?subject=help">Support</a>
			<span data-email="hr@example.com"></span>
			<div data-contact="ceo(at)example(dot)com"></div>
		</body></html>`

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}

		got := ExtractEmails(doc, docTextForTest(t, page))
		want := []string{
			"info@example.com",
			"sales@example.com",
			"support@example.com",
			"hr@example.com",
			"ceo@example.com",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("deduplicates across sources", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<p>info@example.com</p>
			<a href="mailto:INFO@example.com">mail us</a>
		</body></html>`

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}

		got := ExtractEmails(doc, docTextForTest(t, page))
		if len(got) != 1 || got[0] != "info@example.com" {
			t.Errorf("expected single canonical email, got %v", got)
		}
	})

	t.Run("rejects invalid candidates silently", func(t *testing.T) {
		t.Parallel()

		got := ExtractEmails(nil, "this page has no contact data, just words at random.")
		if len(got) != 0 {
			t.Errorf("expected no emails, got %v", got)
		}
	})
}

// docTextForTest mirrors the extractor's text derivation for direct
// pass-level tests.
func docTextForTest(t *testing.T, page string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return documentText(doc)
}
