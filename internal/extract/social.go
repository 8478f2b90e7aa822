package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// socialPatterns maps a platform name to the URL patterns that identify a
// profile on it. The first capture group is the stored handle/path fragment.
var socialPatterns = map[string][]*regexp.Regexp{
	"linkedin": {
		regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_%\-]+)`),
		regexp.MustCompile(`(?i)linkedin\.com/company/([A-Za-z0-9_%\-]+)`),
	},
	"twitter": {
		regexp.MustCompile(`(?i)(?:twitter\.com|x\.com)/([A-Za-z0-9_]{1,15})(?:[/?#"']|\s|$)`),
	},
	"facebook": {
		regexp.MustCompile(`(?i)facebook\.com/([A-Za-z0-9.]+)(?:[/?#"']|\s|$)`),
		regexp.MustCompile(`(?i)fb\.com/([A-Za-z0-9.]+)(?:[/?#"']|\s|$)`),
	},
	"instagram": {
		regexp.MustCompile(`(?i)instagram\.com/([A-Za-z0-9_.]+)(?:[/?#"']|\s|$)`),
	},
	"youtube": {
		regexp.MustCompile(`(?i)youtube\.com/(?:channel/|c/|user/|@)([A-Za-z0-9_\-]+)`),
		regexp.MustCompile(`(?i)youtu\.be/([A-Za-z0-9_\-]+)`),
	},
}

// socialPathDenylist filters platform paths that are share widgets or site
// chrome rather than profiles.
var socialPathDenylist = map[string]bool{
	"share": true, "sharer": true, "intent": true, "search": true,
	"hashtag": true, "home": true, "login": true, "signup": true,
	"watch": true, "embed": true, "plugins": true, "privacy": true,
	"policies": true, "legal": true, "help": true, "events": true,
	"pages": true, "groups": true, "explore": true, "about": true,
	"tr": true, "p": true,
}

// ExtractSocial scans both the page text and every href attribute for
// social profile links and returns platform -> set of handles.
func ExtractSocial(doc *goquery.Document, text string) map[string][]string {
	sources := []string{text}
	if doc != nil {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				sources = append(sources, href)
			}
		})
	}

	found := make(map[string][]string)
	for platform, patterns := range socialPatterns {
		seen := make(map[string]bool)
		for _, re := range patterns {
			for _, src := range sources {
				for _, m := range re.FindAllStringSubmatch(src, -1) {
					handle := strings.TrimSpace(m[1])
					key := strings.ToLower(handle)
					if handle == "" || socialPathDenylist[key] || seen[key] {
						continue
					}
					seen[key] = true
					found[platform] = append(found[platform], handle)
				}
			}
		}
	}
	return found
}
