package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sitegen/internal/domain"
	"sitegen/internal/infra"
)

// Error kinds surfaced by the model wrapper. The pipeline decides per stage
// whether a kind is fatal or degradable.
const (
	KindTimeout     = "timeout"
	KindInvalidJSON = "invalid_json"
	KindQuota       = "quota"
	KindUnknown     = "unknown"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultModel    = "gemini-2.5-flash-lite"
	defaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	temperature     = 0.3
	maxOutputTokens = 3000
	strictJSONRetry = "\n\nIMPORTANT: Your previous response was not valid JSON. Return ONLY a single valid JSON object. No prose, no markdown, no code fences."
)

// ModelError classifies a failed model invocation.
type ModelError struct {
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model error (%s)", e.Kind)
	}
	return fmt.Sprintf("model error (%s): %v", e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Is maps error kinds onto the domain sentinels so callers can branch with
// errors.Is without importing this package's kind strings.
func (e *ModelError) Is(target error) bool {
	switch target {
	case domain.ErrModelTimeout:
		return e.Kind == KindTimeout
	case domain.ErrInvalidJSON:
		return e.Kind == KindInvalidJSON
	case domain.ErrQuotaExceeded:
		return e.Kind == KindQuota
	case domain.ErrProviderFailure:
		return true
	}
	return false
}

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini generateContent REST API. The
// model is instructed to emit JSON; Client tolerates surrounding prose and
// code fences and extracts the first JSON object it can parse.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may pass
// a nil HTTP client; a reusable one with a request timeout is created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string { return c.model }

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete sends the prompt and returns the raw response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &ModelError{Kind: KindUnknown, Err: errors.New("gemini api key not configured")}
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      temperature,
			MaxOutputTokens:  maxOutputTokens,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}

	var out geminiResponse
	if err := c.invoke(ctx, payload, &out); err != nil {
		return "", err
	}

	text := extractText(out)
	if text == "" {
		return "", &ModelError{Kind: KindUnknown, Err: errors.New("empty model response")}
	}
	return text, nil
}

// CompleteJSON sends the prompt, extracts the first JSON object from the
// response, and decodes it into out. On invalid JSON it retries exactly once
// with a stricter instruction; quota and timeout failures surface immediately
// so the calling stage can apply its own fatal or degrade policy.
func (c *Client) CompleteJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}

	if decodeErr := decodeJSONPayload(text, out); decodeErr == nil {
		return nil
	}

	c.logger.Warn().
		Str("model", c.model).
		Msg("genai: response was not valid JSON; retrying with strict instruction")

	text, err = c.Complete(ctx, prompt+strictJSONRetry)
	if err != nil {
		return err
	}
	if decodeErr := decodeJSONPayload(text, out); decodeErr != nil {
		return &ModelError{Kind: KindInvalidJSON, Err: decodeErr}
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, payload geminiRequest, out *geminiResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ModelError{Kind: KindUnknown, Err: fmt.Errorf("marshal request: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &ModelError{Kind: KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ModelError{Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ModelError{Kind: KindUnknown, Err: fmt.Errorf("decode gemini response: %w", err)}
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	kind := KindUnknown
	if resp.StatusCode == http.StatusTooManyRequests {
		kind = KindQuota
	}

	var apiErr geminiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		msg := strings.ToLower(apiErr.Error.Message)
		if strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || apiErr.Error.Status == "RESOURCE_EXHAUSTED" {
			kind = KindQuota
		}
		return &ModelError{Kind: kind, Err: fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)}
	}

	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		return &ModelError{Kind: kind, Err: fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))}
	}
	return &ModelError{Kind: kind, Err: fmt.Errorf("gemini status %d", resp.StatusCode)}
}

func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnknown
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func decodeJSONPayload(raw string, out any) error {
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return errors.New("no json object in response")
	}
	return json.Unmarshal([]byte(fragment), out)
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
