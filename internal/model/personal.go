package model

// PersonalDataRecord accumulates every signal observed for a single email
// address over the lifetime of one crawl job. Records are created lazily
// the first time an email is seen and merged (set union) each time the
// same email reappears on a later page. Records are never deleted within
// a job.
type PersonalDataRecord struct {
	// Email is the canonical, cleaned address this record is keyed by.
	Email string `json:"email"`

	// Names holds candidate person names found near the email or in
	// contact-style sections.
	Names []string `json:"names,omitempty"`

	// Addresses holds postal addresses matched verbatim on pages where
	// the email appeared.
	Addresses []string `json:"addresses,omitempty"`

	// SocialMedia maps a platform name (e.g. "linkedin") to the set of
	// profile handles discovered for it.
	SocialMedia map[string][]string `json:"social_media,omitempty"`

	// JobTitles holds role keywords detected in title/position contexts.
	JobTitles []string `json:"job_titles,omitempty"`

	// Companies holds heuristically detected company names. Often empty.
	Companies []string `json:"companies,omitempty"`

	// Keywords holds page-level keywords (meta tags) from source pages.
	Keywords []string `json:"keywords,omitempty"`

	// Industries, Seniority, and Departments are filled by the optional
	// AI categorization stage. They stay empty when enrichment is
	// disabled or fails.
	Industries  []string `json:"industries,omitempty"`
	Seniority   []string `json:"seniority,omitempty"`
	Departments []string `json:"departments,omitempty"`

	// Confidence is the enrichment confidence score in [0,1].
	// Zero when enrichment did not run.
	Confidence float64 `json:"confidence,omitempty"`

	// SourceURL is the URL where the email was first observed.
	SourceURL string `json:"source_url"`
}

// NewPersonalDataRecord creates an empty record for the given email,
// remembering the URL it was first observed on.
func NewPersonalDataRecord(email, sourceURL string) *PersonalDataRecord {
	return &PersonalDataRecord{
		Email:     email,
		SourceURL: sourceURL,
	}
}

// Merge unions the other record's observation sets into r. The receiver's
// Email and SourceURL are kept; merging is idempotent, so merging the same
// data twice yields the same record.
func (r *PersonalDataRecord) Merge(other *PersonalDataRecord) {
	if other == nil {
		return
	}
	r.Names = UnionStrings(r.Names, other.Names)
	r.Addresses = UnionStrings(r.Addresses, other.Addresses)
	r.SocialMedia = UnionSocial(r.SocialMedia, other.SocialMedia)
	r.JobTitles = UnionStrings(r.JobTitles, other.JobTitles)
	r.Companies = UnionStrings(r.Companies, other.Companies)
	r.Keywords = UnionStrings(r.Keywords, other.Keywords)
	r.Industries = UnionStrings(r.Industries, other.Industries)
	r.Seniority = UnionStrings(r.Seniority, other.Seniority)
	r.Departments = UnionStrings(r.Departments, other.Departments)
	if other.Confidence > r.Confidence {
		r.Confidence = other.Confidence
	}
}
