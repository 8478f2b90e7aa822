package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Name candidate patterns. Each pattern contributes candidates
// independently; every candidate must pass IsValidName before acceptance.
var (
	// honorificNameRe matches names preceded by a title (Mr., Dr., ...).
	honorificNameRe = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof|Rev)\.?\s+([A-Z][a-z]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][a-z]+){1,2})`)

	// fullNameRe matches a plain two-to-four word capitalized name with
	// an optional middle initial and an optional generational suffix.
	fullNameRe = regexp.MustCompile(`\b[A-Z][a-z'\-]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][a-z'\-]+){1,2}(?:,?\s+(?:Jr\.?|Sr\.?|II|III|IV))?\b`)

	// quotedNameRe and parenNameRe catch names set off by quotes or
	// parentheses, common in bylines and staff listings.
	quotedNameRe = regexp.MustCompile(`["\x{201C}]([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})["\x{201D}]`)
	parenNameRe  = regexp.MustCompile(`\(([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\)`)

	// nameSuffixRe strips generational suffixes before validation.
	nameSuffixRe = regexp.MustCompile(`,?\s+(?:Jr\.?|Sr\.?|II|III|IV)$`)
)

// nameDenylist contains UI and navigation phrases that the capitalized-words
// pattern routinely mistakes for person names. Matching is case-insensitive
// substring match over the candidate.
var nameDenylist = []string{
	"about us", "contact us", "click here", "read more", "learn more",
	"privacy policy", "terms of service", "terms and conditions",
	"sign up", "sign in", "log in", "log out", "get started",
	"our team", "our story", "all rights", "follow us", "home page",
	"free trial", "cookie policy", "frequently asked", "site map",
	"more info", "find out", "join us", "view all",
}

// nameStopwords are capitalized non-name words that the full-name pattern
// drags in at candidate edges ("Contact Bob Smith", "Meet Jane Doe").
// They are trimmed from both ends of a candidate before validation.
var nameStopwords = map[string]bool{
	"Contact": true, "About": true, "Email": true, "Meet": true,
	"Call": true, "Visit": true, "Our": true, "The": true, "Team": true,
	"Welcome": true, "From": true, "Dear": true, "Hello": true,
	"Regards": true, "Sincerely": true, "Thanks": true, "Join": true,
	"Ask": true, "Get": true, "New": true, "Why": true, "How": true,
	"Page": true, "Home": true, "Today": true, "Now": true,
}

// contactSectionSelector targets elements whose class or id hints at a
// contact, about, or team section. Names found inside these sections are
// extracted in a secondary pass with the same validation.
const contactSectionSelector = `[class*="contact"],[class*="about"],[class*="team"],[class*="staff"],[class*="author"],[id*="contact"],[id*="about"],[id*="team"]`

// contextWindow is the number of characters scanned on either side of an
// anchor (email address, job-title keyword) for adjacent names.
const contextWindow = 120

// ExtractNames runs the pattern-based pass over the full text and the
// context-based passes (near emails, near job-title keywords, inside
// contact-style sections), validates every candidate, and returns the
// deduplicated union in first-seen order.
func ExtractNames(doc *goquery.Document, text string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)

	add := func(candidates []string) {
		for _, c := range candidates {
			name := normalizeNameCandidate(c)
			if name == "" || seen[name] || !IsValidName(name) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	// Pattern-based pass over the whole text.
	for _, m := range honorificNameRe.FindAllStringSubmatch(text, -1) {
		add([]string{m[1]})
	}
	add(fullNameRe.FindAllString(text, -1))
	for _, m := range quotedNameRe.FindAllStringSubmatch(text, -1) {
		add([]string{m[1]})
	}
	for _, m := range parenNameRe.FindAllStringSubmatch(text, -1) {
		add([]string{m[1]})
	}

	// Context-based passes.
	add(namesNearPattern(text, emailRe))
	add(namesNearPattern(text, jobTitleKeywordRe))
	if doc != nil {
		doc.Find(contactSectionSelector).Each(func(_ int, s *goquery.Selection) {
			add(fullNameRe.FindAllString(s.Text(), -1))
		})
	}

	return names
}

// namesNearPattern scans a window of text around each match of the anchor
// pattern and collects full-name candidates from those windows.
func namesNearPattern(text string, anchor *regexp.Regexp) []string {
	var out []string
	for _, loc := range anchor.FindAllStringIndex(text, -1) {
		start := loc[0] - contextWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextWindow
		if end > len(text) {
			end = len(text)
		}
		out = append(out, fullNameRe.FindAllString(text[start:end], -1)...)
	}
	return out
}

// normalizeNameCandidate trims surrounding whitespace, strips a trailing
// generational suffix so "John Doe Jr." validates as "John Doe", and trims
// stopwords from the candidate's edges.
func normalizeNameCandidate(c string) string {
	c = strings.TrimSpace(c)
	c = nameSuffixRe.ReplaceAllString(c, "")

	words := strings.Fields(c)
	for len(words) > 0 && nameStopwords[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && nameStopwords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// IsValidName reports whether a candidate looks like a person's name:
// not a known UI phrase, 2-4 whitespace-delimited words, every word
// starting with an uppercase letter and 2-20 characters long (a bare
// initial like "D." counts as two characters).
func IsValidName(name string) bool {
	lower := strings.ToLower(name)
	for _, phrase := range nameDenylist {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 || len(w) > 20 {
			return false
		}
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if !unicode.IsLetter(r) && r != '\'' && r != '-' && r != '.' {
				return false
			}
		}
	}
	return true
}
