package image

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"sitegen/internal/infra"
)

// Provider returns image URLs for a keyword. Implementations never return an
// empty slice: on any failure they degrade to deterministic placeholders.
type Provider interface {
	Search(ctx context.Context, keyword string, count int) []string
}

// Options configures the Unsplash-backed provider.
type Options struct {
	AccessKey  string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
	// RequestsPerSecond caps outbound search calls. Zero applies a default
	// that stays well under Unsplash's demo-tier allowance.
	RequestsPerSecond float64
}

// UnsplashProvider queries the Unsplash search API with a content-safety
// filter and falls back to stable picsum placeholder URLs whenever the API
// is unavailable, errors, or returns nothing.
type UnsplashProvider struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *infra.Logger
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// NewUnsplashProvider constructs the provider. An empty access key is valid:
// every search then resolves to placeholders.
func NewUnsplashProvider(opts Options) *UnsplashProvider {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &UnsplashProvider{
		accessKey:  strings.TrimSpace(opts.AccessKey),
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 2),
		logger:     logger,
	}
}

// Search returns count image URLs for the keyword, in order. The result is
// never empty; slots the API cannot fill degrade to placeholders.
func (p *UnsplashProvider) Search(ctx context.Context, keyword string, count int) []string {
	if count <= 0 {
		count = 1
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = "business"
	}

	if p.accessKey == "" {
		return PlaceholderURLs(keyword, count)
	}

	urls, err := p.remoteSearch(ctx, keyword, count)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("keyword", keyword).
			Msg("image: unsplash search failed; using placeholders")
		return PlaceholderURLs(keyword, count)
	}
	if len(urls) < count {
		urls = append(urls, PlaceholderURLs(keyword, count)[len(urls):]...)
	}
	return urls[:count]
}

func (p *UnsplashProvider) remoteSearch(ctx context.Context, keyword string, count int) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", keyword)
	q.Set("orientation", "landscape")
	q.Set("per_page", strconv.Itoa(count))
	// content_filter=high keeps sensitive results out of generated sites.
	q.Set("content_filter", "high")

	endpoint := p.baseURL + "/search/photos?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+p.accessKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search photos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var urls []string
	for _, result := range out.Results {
		if result.URLs.Regular != "" {
			urls = append(urls, result.URLs.Regular)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no results for %q", keyword)
	}
	return urls, nil
}

// PlaceholderURLs derives count stable picsum URLs from the keyword. Repeat
// calls with the same keyword produce the same list, which keeps retries and
// tests deterministic.
func PlaceholderURLs(keyword string, count int) []string {
	urls := make([]string, count)
	for i := range urls {
		urls[i] = placeholderURL(fmt.Sprintf("%s-%d", keyword, i))
	}
	return urls
}

func placeholderURL(key string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(key))))
	seed, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	return fmt.Sprintf("https://picsum.photos/seed/%d/1200/600", seed%1000)
}

var _ Provider = (*UnsplashProvider)(nil)
