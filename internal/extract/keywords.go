package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxKeywords caps how many meta keywords are carried per page; beyond
// this they are SEO stuffing, not signal.
const maxKeywords = 20

// ExtractKeywords collects page-level keywords from <meta name="keywords">
// tags. Keywords feed the enrichment bundle and the CSV Keywords column.
func ExtractKeywords(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0)

	doc.Find(`meta[name="keywords"]`).Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		for _, kw := range strings.Split(content, ",") {
			kw = strings.TrimSpace(kw)
			if kw == "" || seen[kw] || len(keywords) >= maxKeywords {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	})

	return keywords
}
