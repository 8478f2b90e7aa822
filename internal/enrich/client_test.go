package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/patpij2/server-login-sub000/internal/model"
)

const testEndpoint = "http://llm.test/v1/chat/completions"

// chatReply builds a chat-completion response whose message content is s.
func chatReply(s string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": s}},
		},
	})
	return string(body)
}

func testRecord() *model.PersonalDataRecord {
	rec := model.NewPersonalDataRecord("jane@acme.com", "http://acme.com/team")
	rec.Names = []string{"Jane Smith"}
	rec.JobTitles = []string{"Marketing Director"}
	return rec
}

func TestClientCategorize(t *testing.T) {
	t.Parallel()

	t.Run("parses clean JSON reply", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(200, chatReply(
				`{"keywords":["marketing"],"industries":["software"],"seniority":["director"],"departments":["marketing"],"confidence":0.9}`,
			)))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		cat, err := client.Categorize(context.Background(), testRecord())
		if err != nil {
			t.Fatalf("categorize failed: %v", err)
		}
		if cat.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %v", cat.Confidence)
		}
		if len(cat.Industries) != 1 || cat.Industries[0] != "software" {
			t.Errorf("unexpected industries: %v", cat.Industries)
		}
	})

	t.Run("recovers JSON wrapped in prose", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(200, chatReply(
				"Sure! Here is the classification:\n```json\n"+
					`{"keywords":["saas"],"industries":[],"seniority":[],"departments":[],"confidence":0.5}`+
					"\n```\nLet me know if you need anything else.",
			)))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		cat, err := client.Categorize(context.Background(), testRecord())
		if err != nil {
			t.Fatalf("categorize failed: %v", err)
		}
		if len(cat.Keywords) != 1 || cat.Keywords[0] != "saas" {
			t.Errorf("unexpected keywords: %v", cat.Keywords)
		}
	})

	t.Run("sends bearer token and model name", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			func(req *http.Request) (*http.Response, error) {
				if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
					t.Errorf("expected bearer token, got %q", got)
				}
				raw, _ := io.ReadAll(req.Body)
				var body chatRequest
				if err := json.Unmarshal(raw, &body); err != nil {
					t.Fatalf("unmarshal request: %v", err)
				}
				if body.Model != "test-model" {
					t.Errorf("expected model test-model, got %q", body.Model)
				}
				if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
					t.Errorf("expected system+user messages, got %+v", body.Messages)
				}
				return httpmock.NewStringResponse(200, chatReply(`{"confidence":0.1}`)), nil
			})

		client := NewClient(&http.Client{Transport: transport}, testEndpoint,
			WithAPIKey("sk-test"),
			WithModel("test-model"),
		)

		if _, err := client.Categorize(context.Background(), testRecord()); err != nil {
			t.Fatalf("categorize failed: %v", err)
		}
	})

	t.Run("falls back to neutral on bad status", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(500, "internal error"))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		cat, err := client.Categorize(context.Background(), testRecord())
		if err == nil {
			t.Error("expected error for 500 response")
		}
		if cat == nil || cat.Confidence != 0 || len(cat.Keywords) != 0 {
			t.Errorf("expected neutral categorization, got %+v", cat)
		}
	})

	t.Run("falls back to neutral on non-JSON reply", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(200, chatReply("I cannot classify this contact.")))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		cat, err := client.Categorize(context.Background(), testRecord())
		if err == nil {
			t.Error("expected error for non-JSON reply")
		}
		if cat == nil {
			t.Fatal("expected neutral categorization, got nil")
		}
	})
}

func TestClientEnrichAll(t *testing.T) {
	t.Parallel()

	t.Run("enriches records and counts successes", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(200, chatReply(
				`{"keywords":["b2b"],"industries":["software"],"seniority":["manager"],"departments":["sales"],"confidence":0.7}`,
			)))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		records := map[string]*model.PersonalDataRecord{
			"a@x.com": model.NewPersonalDataRecord("a@x.com", "http://x.com"),
			"b@x.com": model.NewPersonalDataRecord("b@x.com", "http://x.com"),
		}

		if got := client.EnrichAll(context.Background(), records); got != 2 {
			t.Errorf("expected 2 enriched, got %d", got)
		}
		for email, rec := range records {
			if rec.Confidence != 0.7 {
				t.Errorf("record %s: expected confidence 0.7, got %v", email, rec.Confidence)
			}
			if len(rec.Industries) != 1 {
				t.Errorf("record %s: expected industries merged, got %v", email, rec.Industries)
			}
		}
	})

	t.Run("keeps records intact on failure", func(t *testing.T) {
		t.Parallel()

		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, testEndpoint,
			httpmock.NewStringResponder(503, "unavailable"))

		client := NewClient(&http.Client{Transport: transport}, testEndpoint)

		rec := testRecord()
		records := map[string]*model.PersonalDataRecord{rec.Email: rec}

		if got := client.EnrichAll(context.Background(), records); got != 0 {
			t.Errorf("expected 0 enriched, got %d", got)
		}
		if len(rec.Names) != 1 || rec.Names[0] != "Jane Smith" {
			t.Errorf("record mutated on failure: %+v", rec)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "object in prose", in: `Here: {"a":1} done`, want: `{"a":1}`, ok: true},
		{name: "nested braces", in: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`, ok: true},
		{name: "brace inside string", in: `{"a":"}"}`, want: `{"a":"}"}`, ok: true},
		{name: "no object", in: "nothing here", want: "", ok: false},
		{name: "unbalanced", in: `{"a":1`, want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extractJSON(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("extractJSON(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
