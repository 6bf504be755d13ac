package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSiteKey(t *testing.T) {
	key, err := SiteKey("coffee-haven-20240101120000")
	if err != nil {
		t.Fatalf("SiteKey: %v", err)
	}
	want := "generated-websites/coffee-haven-20240101120000/index.html"
	if key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}
}

func TestSiteKeyRejectsTraversal(t *testing.T) {
	for _, id := range []string{"", "../../etc", "..", "../..", "a/../../b", "/"} {
		if _, err := SiteKey(id); err == nil {
			t.Errorf("SiteKey(%q) must fail", id)
		}
	}
}

func TestFileStoreUploadAndPresign(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	res, err := store.Upload(ctx, "bakery-20240101120000", []byte("<html></html>"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(res.Key, "bakery-20240101120000/index.html") {
		t.Errorf("key = %q", res.Key)
	}
	if !strings.HasPrefix(res.WebsiteURL, "file://") {
		t.Errorf("url = %q", res.WebsiteURL)
	}

	url, err := store.Presign(ctx, "bakery-20240101120000", time.Hour)
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if url != res.WebsiteURL {
		t.Errorf("presigned url %q != upload url %q", url, res.WebsiteURL)
	}
}

func TestFileStorePresignMissingObject(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Presign(context.Background(), "never-uploaded", time.Hour); err == nil {
		t.Fatal("presign of missing object must fail")
	}
}
