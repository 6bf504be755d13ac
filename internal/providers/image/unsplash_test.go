package image

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestSearchWithoutKeyIsDeterministic(t *testing.T) {
	provider := NewUnsplashProvider(Options{})

	first := provider.Search(context.Background(), "artisan coffee", 3)
	second := provider.Search(context.Background(), "artisan coffee", 3)

	if len(first) != 3 {
		t.Fatalf("Search returned %d urls, want 3", len(first))
	}
	for i := range first {
		if first[i] == "" {
			t.Fatalf("url %d is empty", i)
		}
		if first[i] != second[i] {
			t.Errorf("url %d differs between calls: %q vs %q", i, first[i], second[i])
		}
	}
	if first[0] == first[1] {
		t.Error("distinct slots should get distinct placeholder urls")
	}
}

func TestSearchUsesSafeContentFilter(t *testing.T) {
	var captured *http.Request
	provider := NewUnsplashProvider(Options{
		AccessKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			body := `{"results":[{"urls":{"regular":"https://images.unsplash.com/photo-1"}}]}`
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
		})},
	})

	urls := provider.Search(context.Background(), "coffee shop", 1)
	if len(urls) != 1 || urls[0] != "https://images.unsplash.com/photo-1" {
		t.Fatalf("urls = %v", urls)
	}
	if captured == nil {
		t.Fatal("no request issued")
	}
	query := captured.URL.Query()
	if query.Get("content_filter") != "high" {
		t.Errorf("content_filter = %q, want high", query.Get("content_filter"))
	}
	if query.Get("orientation") != "landscape" {
		t.Errorf("orientation = %q, want landscape", query.Get("orientation"))
	}
	if got := captured.Header.Get("Authorization"); got != "Client-ID key" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestSearchFallsBackOnTransportError(t *testing.T) {
	provider := NewUnsplashProvider(Options{
		AccessKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})},
	})

	urls := provider.Search(context.Background(), "bakery", 2)
	if len(urls) != 2 {
		t.Fatalf("Search returned %d urls, want 2", len(urls))
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://picsum.photos/seed/") {
			t.Errorf("fallback url %q is not a placeholder", u)
		}
	}
}

func TestSearchTopsUpShortResults(t *testing.T) {
	provider := NewUnsplashProvider(Options{
		AccessKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			body := `{"results":[{"urls":{"regular":"https://images.unsplash.com/only-one"}}]}`
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
		})},
	})

	urls := provider.Search(context.Background(), "florist", 3)
	if len(urls) != 3 {
		t.Fatalf("Search returned %d urls, want 3", len(urls))
	}
	if urls[0] != "https://images.unsplash.com/only-one" {
		t.Errorf("urls[0] = %q", urls[0])
	}
	for _, u := range urls[1:] {
		if !strings.HasPrefix(u, "https://picsum.photos/seed/") {
			t.Errorf("topped-up url %q is not a placeholder", u)
		}
	}
}
