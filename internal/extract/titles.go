package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Job-title detection uses a fixed vocabulary of seniority and role
// keywords, scanned both across the page text and inside elements whose
// class or id hints at a title/position/company context.
var (
	// jobTitleKeywordRe matches the role vocabulary with optional
	// seniority and function modifiers.
	jobTitleKeywordRe = regexp.MustCompile(`\b(?:(?:Senior|Junior|Lead|Principal|Staff|Chief|Executive|Deputy|Associate|Assistant)\s+)?(?:(?:Executive|Marketing|Sales|Product|Software|Data|Operations|Finance|Engineering|Design|Technical|Creative|Managing|General|Regional|Account)\s+)?(?:CEO|CTO|CFO|COO|CMO|CIO|Founder|Co-Founder|Cofounder|President|Vice\s+President|VP|Director|Manager|Engineer|Developer|Designer|Architect|Analyst|Consultant|Specialist|Coordinator|Administrator|Officer|Scientist|Strategist|Recruiter|Partner|Owner)\b`)

	// companyAfterTitleRe catches "CEO of Acme Corp" style constructs.
	companyAfterTitleRe = regexp.MustCompile(`\b(?:CEO|CTO|CFO|COO|CMO|Founder|Co-Founder|President|Director|Manager|Owner|Partner)\s+(?:of|at)\s+([A-Z][A-Za-z0-9&'.\-]*(?:\s+[A-Z][A-Za-z0-9&'.\-]*){0,3})`)
)

// Element selectors whose class/id hints mark title and company contexts.
const (
	titleContextSelector   = `[class*="title"],[class*="position"],[class*="role"],[class*="job"],[id*="title"],[id*="position"]`
	companyContextSelector = `[class*="company"],[class*="organization"],[class*="employer"],[id*="company"],[itemprop="worksFor"]`
)

// ExtractJobTitles returns role phrases found in title-hinted elements and
// across the page text, deduplicated in first-seen order.
func ExtractJobTitles(doc *goquery.Document, text string) []string {
	seen := make(map[string]bool)
	titles := make([]string, 0)

	add := func(matches []string) {
		for _, m := range matches {
			m = strings.Join(strings.Fields(m), " ")
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			titles = append(titles, m)
		}
	}

	if doc != nil {
		doc.Find(titleContextSelector).Each(func(_ int, s *goquery.Selection) {
			add(jobTitleKeywordRe.FindAllString(s.Text(), -1))
		})
	}
	add(jobTitleKeywordRe.FindAllString(text, -1))

	return titles
}

// ExtractCompanies heuristically collects company names from
// company-hinted elements and "<role> of/at <Name>" constructs.
// Many pages yield nothing here; that is acceptable.
func ExtractCompanies(doc *goquery.Document, text string) []string {
	seen := make(map[string]bool)
	companies := make([]string, 0)

	add := func(c string) {
		c = strings.Join(strings.Fields(c), " ")
		c = strings.Trim(c, ".,;:")
		if !isPlausibleCompany(c) || seen[c] {
			return
		}
		seen[c] = true
		companies = append(companies, c)
	}

	if doc != nil {
		doc.Find(companyContextSelector).Each(func(_ int, s *goquery.Selection) {
			add(s.Text())
		})
	}
	for _, m := range companyAfterTitleRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return companies
}

// isPlausibleCompany filters context-element noise: a candidate must be
// short, start uppercase, and not collide with the job-title vocabulary.
func isPlausibleCompany(c string) bool {
	if len(c) < 2 || len(c) > 60 {
		return false
	}
	first := rune(c[0])
	if first < 'A' || first > 'Z' {
		return false
	}
	if jobTitleKeywordRe.MatchString(c) && len(strings.Fields(c)) <= 2 {
		return false
	}
	return true
}
