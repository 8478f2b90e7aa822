// Package enrich categorizes extracted contacts through an external
// chat-completion API.
//
// Enrichment is best-effort: every failure (network, bad status,
// unparseable reply) degrades to a neutral categorization so a crawl
// never fails because the model was down or chatty.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/patpij2/server-login-sub000/internal/model"
)

// maxResponseBody caps the API response read.
const maxResponseBody = 1 << 20

// systemPrompt instructs the model to answer with bare JSON.
const systemPrompt = `You classify business contacts. Reply with a single JSON object and nothing else, using exactly these keys: "keywords" (array of strings), "industries" (array of strings), "seniority" (array of strings), "departments" (array of strings), "confidence" (number between 0 and 1).`

// Categorization is the structured classification of one contact.
type Categorization struct {
	// Keywords are topical tags for the contact's likely interests.
	Keywords []string `json:"keywords"`

	// Industries the contact appears to work in.
	Industries []string `json:"industries"`

	// Seniority levels suggested by the contact's titles.
	Seniority []string `json:"seniority"`

	// Departments the contact likely belongs to.
	Departments []string `json:"departments"`

	// Confidence is the model's self-reported certainty in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Neutral returns the categorization used when enrichment fails:
// empty lists and zero confidence.
func Neutral() *Categorization {
	return &Categorization{
		Keywords:    []string{},
		Industries:  []string{},
		Seniority:   []string{},
		Departments: []string{},
	}
}

// Client calls a chat-completion endpoint to categorize contacts.
type Client struct {
	// client performs the HTTP requests. Its timeout bounds each call.
	client *http.Client

	// endpoint is the chat-completions URL.
	endpoint string

	// apiKey is sent as a Bearer token when set.
	apiKey string

	// model is the model name placed in the request body.
	model string

	// logger records soft failures.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with each request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the model name sent in the request body.
func WithModel(name string) Option {
	return func(c *Client) {
		c.model = name
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given chat-completion endpoint.
func NewClient(client *http.Client, endpoint string, opts ...Option) *Client {
	c := &Client{
		client:   client,
		endpoint: endpoint,
		model:    "gpt-4o-mini",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatRequest is the chat-completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completion response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Categorize classifies one contact. The returned error is informational:
// callers that want soft-fail semantics can ignore it and use the
// categorization, which is never nil.
func (c *Client) Categorize(ctx context.Context, rec *model.PersonalDataRecord) (*Categorization, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: contactPrompt(rec)},
		},
	})
	if err != nil {
		return Neutral(), fmt.Errorf("marshal enrich request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Neutral(), fmt.Errorf("build enrich request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Neutral(), fmt.Errorf("enrich request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Neutral(), fmt.Errorf("read enrich response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Neutral(), fmt.Errorf("enrich response status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Neutral(), fmt.Errorf("decode enrich response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Neutral(), fmt.Errorf("enrich response has no choices")
	}

	payload, ok := extractJSON(parsed.Choices[0].Message.Content)
	if !ok {
		return Neutral(), fmt.Errorf("no JSON object in model reply")
	}

	var cat Categorization
	if err := json.Unmarshal([]byte(payload), &cat); err != nil {
		return Neutral(), fmt.Errorf("decode categorization: %w", err)
	}
	return &cat, nil
}

// EnrichAll categorizes every record in place, merging the model's
// answer into each record's fields. Failures are logged and skipped;
// the return value is the number of records successfully enriched.
func (c *Client) EnrichAll(ctx context.Context, records map[string]*model.PersonalDataRecord) int {
	enriched := 0
	for email, rec := range records {
		cat, err := c.Categorize(ctx, rec)
		if err != nil {
			c.logger.Warn("enrichment failed, keeping record as-is",
				"email", email,
				"error", err,
			)
			continue
		}
		apply(rec, cat)
		enriched++
	}
	return enriched
}

// apply merges a categorization into a record. List fields union;
// confidence keeps the maximum.
func apply(rec *model.PersonalDataRecord, cat *Categorization) {
	rec.Keywords = model.UnionStrings(rec.Keywords, cat.Keywords)
	rec.Industries = model.UnionStrings(rec.Industries, cat.Industries)
	rec.Seniority = model.UnionStrings(rec.Seniority, cat.Seniority)
	rec.Departments = model.UnionStrings(rec.Departments, cat.Departments)
	if cat.Confidence > rec.Confidence {
		rec.Confidence = cat.Confidence
	}
}

// contactPrompt renders one record as the user message.
func contactPrompt(rec *model.PersonalDataRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email: %s\n", rec.Email)
	if len(rec.Names) > 0 {
		fmt.Fprintf(&b, "Names: %s\n", strings.Join(rec.Names, ", "))
	}
	if len(rec.JobTitles) > 0 {
		fmt.Fprintf(&b, "Job titles: %s\n", strings.Join(rec.JobTitles, ", "))
	}
	if len(rec.Companies) > 0 {
		fmt.Fprintf(&b, "Companies: %s\n", strings.Join(rec.Companies, ", "))
	}
	if len(rec.Keywords) > 0 {
		fmt.Fprintf(&b, "Page keywords: %s\n", strings.Join(rec.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Source URL: %s\n", rec.SourceURL)
	return b.String()
}

// extractJSON returns the first balanced JSON object in s. Models often
// wrap their answer in prose or markdown fences; scanning for balanced
// braces recovers the object without caring about the wrapping.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
