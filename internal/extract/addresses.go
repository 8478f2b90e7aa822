package extract

import (
	"regexp"
	"strings"
)

// Postal address patterns: US street-style and P.O. Box style.
// Matches are kept verbatim (trimmed) and deduplicated as literal strings;
// no normalization is attempted.
var (
	streetAddressRe = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Za-z0-9'.\-]+\s+){1,5}(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way|Circle|Cir|Parkway|Pkwy|Square|Sq|Terrace|Ter)\.?(?:,?\s*(?:Suite|Ste|Unit|Apt|Floor|Fl|#)\.?\s*[\w\-]+)?,\s*[A-Za-z .\-]+,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`)

	poBoxRe = regexp.MustCompile(`(?i)\bP\.?\s*O\.?\s*Box\s+\d+(?:\s*,\s*[A-Za-z .\-]+,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?)?`)
)

// ExtractAddresses returns the deduplicated union of street-style and
// P.O. Box matches from the page text, in first-seen order.
func ExtractAddresses(text string) []string {
	seen := make(map[string]bool)
	addresses := make([]string, 0)

	for _, re := range []*regexp.Regexp{streetAddressRe, poBoxRe} {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			addresses = append(addresses, m)
		}
	}
	return addresses
}
