package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// Bundle holds everything extracted from a single page. All value sets are
// deduplicated (case-sensitive exact match) before the bundle is merged
// into the job-level aggregate.
type Bundle struct {
	// Emails lists cleaned, validated addresses in first-seen order.
	Emails []string

	// Names, Addresses, JobTitles, Companies, and Keywords are page-level
	// signals that attach to every email found on the same page.
	Names     []string
	Addresses []string
	JobTitles []string
	Companies []string
	Keywords  []string

	// Social maps platform -> set of profile handles.
	Social map[string][]string
}

// Extractor runs the extraction passes over fetched pages.
//
// Design decision: The extractor is a struct rather than free functions so
// the personal-data switch lives in one place; the individual passes stay
// pure package-level functions that tests exercise directly.
type Extractor struct {
	// collectPersonalData enables the non-email passes. When false only
	// emails are extracted, which is considerably cheaper.
	collectPersonalData bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithPersonalData toggles extraction of names, addresses, social handles,
// job titles, companies, and keywords.
func WithPersonalData(enabled bool) ExtractorOption {
	return func(e *Extractor) {
		e.collectPersonalData = enabled
	}
}

// NewExtractor creates an Extractor. Personal-data collection defaults on.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{collectPersonalData: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the page snapshot and runs every enabled extraction pass.
// A snapshot that fails to parse as HTML degrades to text-only extraction
// rather than erroring: partial signal beats none.
func (e *Extractor) Extract(page *model.Page) *Bundle {
	var doc *goquery.Document
	if page.IsHTML() {
		if parsed, err := goquery.NewDocumentFromReader(strings.NewReader(page.Snapshot)); err == nil {
			doc = parsed
		}
	}

	text := page.Snapshot
	if doc != nil {
		text = documentText(doc)
	}

	bundle := &Bundle{Emails: ExtractEmails(doc, text)}
	if e.collectPersonalData {
		bundle.Names = ExtractNames(doc, text)
		bundle.Addresses = ExtractAddresses(text)
		bundle.Social = ExtractSocial(doc, text)
		bundle.JobTitles = ExtractJobTitles(doc, text)
		bundle.Companies = ExtractCompanies(doc, text)
		bundle.Keywords = ExtractKeywords(doc)
	}
	return bundle
}

// documentText walks the DOM collecting text nodes separated by spaces.
// goquery's Text() concatenates adjacent nodes without separators, which
// would glue words across element boundaries and break regex scanning.
func documentText(doc *goquery.Document) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return b.String()
}

// Aggregate is the per-job accumulation of extraction results: the ordered
// set of unique emails plus a personal-data record per email. It is owned
// by a single crawl job and never shared across jobs.
type Aggregate struct {
	// Emails lists unique addresses in discovery order.
	Emails []string

	// Records maps email -> accumulated personal data. Nil values never
	// appear; records are created lazily on first sight of an email.
	Records map[string]*model.PersonalDataRecord

	seen map[string]bool
}

// NewAggregate creates an empty per-job aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Emails:  make([]string, 0),
		Records: make(map[string]*model.PersonalDataRecord),
		seen:    make(map[string]bool),
	}
}

// MergePage merges one page's bundle into the aggregate. Every email on
// the page receives the page's full signal set (set union), so an email
// reappearing on a later page accumulates that page's observations too.
// Merging the same bundle twice is a no-op.
func (a *Aggregate) MergePage(sourceURL string, b *Bundle, collectPersonal bool) {
	if b == nil {
		return
	}
	for _, email := range b.Emails {
		if !a.seen[email] {
			a.seen[email] = true
			a.Emails = append(a.Emails, email)
		}
		if !collectPersonal {
			continue
		}
		rec, ok := a.Records[email]
		if !ok {
			rec = model.NewPersonalDataRecord(email, sourceURL)
			a.Records[email] = rec
		}
		rec.Merge(&model.PersonalDataRecord{
			Names:       b.Names,
			Addresses:   b.Addresses,
			SocialMedia: b.Social,
			JobTitles:   b.JobTitles,
			Companies:   b.Companies,
			Keywords:    b.Keywords,
		})
	}
}

// TotalEmails returns the number of unique emails collected so far.
func (a *Aggregate) TotalEmails() int {
	return len(a.Emails)
}
