package template

import (
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"sitegen/internal/domain"
)

func TestStoreListsCatalogInOrder(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	list := store.List()
	if len(list) != 5 {
		t.Fatalf("List returned %d templates, want 5", len(list))
	}
	if list[0].ID != "modern_glass" {
		t.Errorf("first template = %q, want modern_glass", list[0].ID)
	}
	for _, info := range list {
		if info.Name == "" || info.Description == "" || info.File == "" {
			t.Errorf("template %q has incomplete metadata: %+v", info.ID, info)
		}
	}
}

func TestStoreLoadsEveryCatalogTemplate(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	for _, info := range store.List() {
		tpl, err := store.Load(info.ID)
		if err != nil {
			t.Errorf("Load(%q) returned error: %v", info.ID, err)
			continue
		}
		if tpl.HTML == "" {
			t.Errorf("Load(%q) returned empty document", info.ID)
		}
		if missing := MissingTokens(tpl.HTML); len(missing) > 0 {
			t.Errorf("template %q missing required tokens %v", info.ID, missing)
		}
	}
}

func TestStoreLoadUnknownID(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	_, err = store.Load("does_not_exist")
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("Load(does_not_exist) err = %v, want ErrTemplateNotFound", err)
	}
	if store.Has("does_not_exist") {
		t.Error("Has(does_not_exist) = true")
	}
}

func TestStoreRejectsDocumentMissingTokens(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/template_config.json": &fstest.MapFile{Data: []byte(`{"templates":[{"id":"broken","name":"Broken","description":"x","file":"broken.html"}]}`)},
		"templates/broken.html":          &fstest.MapFile{Data: []byte(`<html><body>${business_name}</body></html>`)},
	}
	store, err := newStore(fsys, "templates")
	if err != nil {
		t.Fatalf("newStore returned error: %v", err)
	}
	_, err = store.Load("broken")
	if !errors.Is(err, domain.ErrTemplateInvalid) {
		t.Fatalf("Load(broken) err = %v, want ErrTemplateInvalid", err)
	}
}

func TestStoreLoadIsCachedAndConcurrencySafe(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Template, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tpl, err := store.Load("modern_glass")
			if err != nil {
				t.Errorf("concurrent Load returned error: %v", err)
				return
			}
			results[i] = tpl
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent loads returned distinct template values; cache population is not at-most-once")
		}
	}
}

func TestTokensFindsMarkersOnce(t *testing.T) {
	html := `<h1>${hero_headline}</h1><p>${hero_headline} ${footer_text}</p> body { color: red; }`
	got := Tokens(html)
	if len(got) != 2 || got[0] != "hero_headline" || got[1] != "footer_text" {
		t.Errorf("Tokens = %v", got)
	}
}
