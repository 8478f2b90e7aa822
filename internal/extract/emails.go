package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Email candidate patterns, in priority order. All candidates from all
// patterns are unioned and then pushed through CleanEmail before acceptance.
//
// Design decision: We use a permissive candidate regex plus strict cleaning
// rather than strict RFC 5322 matching because:
//  1. Real-world pages obfuscate addresses ("info [at] example [dot] com")
//  2. False candidates are cheap: CleanEmail rejects them
//  3. Strict parsing would miss the addresses we most want
var (
	// emailRe matches plainly written addresses with word boundaries.
	emailRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)

	// obfuscatedEmailRe matches [at]/(at)/[dot]/(dot) obfuscation and
	// spaced "@" / "." variants.
	obfuscatedEmailRe = regexp.MustCompile(`(?i)\b[a-zA-Z0-9._%+\-]+\s*(?:\[\s*at\s*\]|\(\s*at\s*\)|@)\s*[a-zA-Z0-9\-]+(?:\s*(?:\[\s*dot\s*\]|\(\s*dot\s*\)|\.)\s*[a-zA-Z0-9\-]+)+\b`)

	// canonicalEmailRe is the final acceptance check after cleaning.
	canonicalEmailRe = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// dataEmailAttrs are HTML attributes commonly carrying contact addresses.
var dataEmailAttrs = []string{"data-email", "data-mail", "data-contact"}

// knownTLDs drives the trailing-suffix cleaning heuristic: when the
// second-to-last domain label is one of these, a short trailing label is
// treated as a tracking suffix and stripped. The list is intentionally
// conservative; see CleanEmail.
var knownTLDs = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"mil": true, "int": true, "io": true, "ai": true, "co": true,
	"us": true, "uk": true, "de": true, "fr": true, "ca": true,
	"au": true, "nl": true, "se": true, "no": true, "es": true,
	"it": true, "jp": true, "br": true, "in": true, "info": true,
	"biz": true, "dev": true, "app": true, "me": true, "tv": true,
}

// ExtractEmails gathers email candidates from page text, obfuscated text
// forms, mailto: link targets, and data-* attributes, then cleans and
// validates each. The result is deduplicated in first-seen order.
func ExtractEmails(doc *goquery.Document, text string) []string {
	candidates := make([]string, 0)
	candidates = append(candidates, emailRe.FindAllString(text, -1)...)
	candidates = append(candidates, obfuscatedEmailRe.FindAllString(text, -1)...)

	if doc != nil {
		doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				candidates = append(candidates, href)
			}
		})
		for _, attr := range dataEmailAttrs {
			doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
				if v, ok := s.Attr(attr); ok {
					candidates = append(candidates, v)
				}
			})
		}
	}

	seen := make(map[string]bool)
	emails := make([]string, 0)
	for _, c := range candidates {
		email, ok := CleanEmail(c)
		if !ok || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}

// CleanEmail normalizes a raw email candidate into canonical form.
// It lowercases, strips whitespace, collapses [at]/(at)/[dot]/(dot)
// obfuscation, removes mailto: prefixes and query strings, and strips
// spurious trailing suffixes. The second return value is false when the
// candidate does not survive as a valid address; rejected candidates are
// simply excluded from results, never treated as errors.
//
// Suffix stripping handles two tails seen in scraped markup:
//   - a ".<number>.<shortword>" tail ("help@mysite.ai.26.sms" -> "help@mysite.ai")
//   - a single short label (<=4 chars) following a recognized TLD
//     ("help@mysite.ai.sms" -> "help@mysite.ai")
//
// The recognized-TLD rule is heuristic and deliberately not generalized
// further: it already balances over- and under-correction on unusual but
// valid multi-level domains.
func CleanEmail(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "mailto:")
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}

	for _, repl := range [][2]string{
		{"[at]", "@"}, {"(at)", "@"},
		{"[dot]", "."}, {"(dot)", "."},
		{"[ at ]", "@"}, {"( at )", "@"},
		{"[ dot ]", "."}, {"( dot )", "."},
	} {
		s = strings.ReplaceAll(s, repl[0], repl[1])
	}
	s = whitespaceRe.ReplaceAllString(s, "")
	s = strings.Trim(s, ".,;:")

	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return "", false
	}

	labels := strings.Split(domain, ".")

	// ".<number>.<shortword>" tail
	if len(labels) >= 4 && isDigits(labels[len(labels)-2]) && len(labels[len(labels)-1]) <= 4 {
		labels = labels[:len(labels)-2]
	}

	// single short label after a recognized TLD; keep it when the trailing
	// label is itself a known TLD (e.g. example.co.uk)
	if len(labels) >= 3 {
		last := labels[len(labels)-1]
		if knownTLDs[labels[len(labels)-2]] && len(last) <= 4 && !knownTLDs[last] {
			labels = labels[:len(labels)-1]
		}
	}

	cleaned := local + "@" + strings.Join(labels, ".")
	if !canonicalEmailRe.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
