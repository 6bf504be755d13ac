package genai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"sitegen/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func modelResponse(text string) *http.Response {
	body := `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func newTestClient(rt roundTripFunc) *Client {
	return NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestCompleteJSONExtractsFencedObject(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return modelResponse("Here you go:\n```json\n{\"tone_of_voice\": \"friendly\"}\n```\nHope that helps!"), nil
	})

	var out struct {
		Tone string `json:"tone_of_voice"`
	}
	if err := client.CompleteJSON(context.Background(), "analyze", &out); err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if out.Tone != "friendly" {
		t.Errorf("tone = %q, want friendly", out.Tone)
	}
}

func TestCompleteJSONRetriesOnceOnInvalidJSON(t *testing.T) {
	calls := 0
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return modelResponse("sorry, no json today"), nil
		}
		return modelResponse(`{"ok": true}`), nil
	})

	var out struct {
		OK bool `json:"ok"`
	}
	if err := client.CompleteJSON(context.Background(), "analyze", &out); err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !out.OK {
		t.Error("retry payload was not decoded")
	}
}

func TestCompleteJSONSurfacesInvalidJSONAfterRetry(t *testing.T) {
	calls := 0
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		return modelResponse("still not json"), nil
	})

	var out map[string]any
	err := client.CompleteJSON(context.Background(), "analyze", &out)
	if err == nil {
		t.Fatal("CompleteJSON succeeded on garbage output")
	}
	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != KindInvalidJSON {
		t.Fatalf("err = %v, want ModelError{invalid_json}", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want exactly one retry", calls)
	}
}

func TestCompleteDoesNotRetryQuota(t *testing.T) {
	calls := 0
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"Quota exceeded"}}`)),
		}, nil
	})

	var out map[string]any
	err := client.CompleteJSON(context.Background(), "analyze", &out)
	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != KindQuota {
		t.Fatalf("err = %v, want ModelError{quota}", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (quota must not be retried)", calls)
	}
}

func TestCompleteClassifiesTimeout(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})

	_, err := client.Complete(context.Background(), "analyze")
	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != KindTimeout {
		t.Fatalf("err = %v, want ModelError{timeout}", err)
	}
}

func TestModelErrorMatchesSentinels(t *testing.T) {
	cases := []struct {
		kind string
		want error
	}{
		{KindTimeout, domain.ErrModelTimeout},
		{KindInvalidJSON, domain.ErrInvalidJSON},
		{KindQuota, domain.ErrQuotaExceeded},
		{KindUnknown, domain.ErrProviderFailure},
	}
	for _, tc := range cases {
		err := error(&ModelError{Kind: tc.kind, Err: errors.New("boom")})
		if !errors.Is(err, tc.want) {
			t.Errorf("ModelError{%s} does not match %v", tc.kind, tc.want)
		}
		if !errors.Is(err, domain.ErrProviderFailure) {
			t.Errorf("ModelError{%s} must always match ErrProviderFailure", tc.kind)
		}
	}
	if errors.Is(error(&ModelError{Kind: KindQuota}), domain.ErrModelTimeout) {
		t.Error("quota error must not match ErrModelTimeout")
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	client := NewClient(Options{})
	if client.Configured() {
		t.Error("Configured() = true without key")
	}
	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("Complete succeeded without an api key")
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
		{"no object here", ""},
	}
	for _, tc := range cases {
		if got := extractJSONFragment(tc.in); got != tc.want {
			t.Errorf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
