package template

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"

	"sitegen/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// RequiredTokens is the versioned set of placeholder tokens every template
// document must contain. Validation is structural: a plain containment check
// on the `${name}` markers, nothing semantic.
var RequiredTokens = []string{
	"business_name",
	"hero_headline",
	"hero_subtext",
	"services_html",
	"contact_section",
	"primary_color",
}

var tokenPattern = regexp.MustCompile(`\$\{([a-z0-9_]+)\}`)

// Info describes one catalog entry.
type Info struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Features    []string `json:"features,omitempty"`
	BestFor     []string `json:"best_for,omitempty"`
}

// Template is a loaded, validated catalog document. Values are shared
// read-only across concurrent requests.
type Template struct {
	Info Info
	HTML string
}

type catalogFile struct {
	Templates []Info `json:"templates"`
}

// Store serves the fixed template catalog. Documents are loaded from the
// embedded filesystem lazily and cached; population is at-most-once per id
// even under concurrent cold-start traffic.
type Store struct {
	fsys    fs.FS
	order   []Info
	catalog map[string]Info

	mu    sync.RWMutex
	cache map[string]*Template
	group singleflight.Group
}

// NewStore builds a Store over the embedded catalog.
func NewStore() (*Store, error) {
	return newStore(templatesFS, "templates")
}

func newStore(fsys fs.FS, dir string) (*Store, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("template: open catalog dir: %w", err)
	}

	raw, err := fs.ReadFile(sub, "template_config.json")
	if err != nil {
		return nil, fmt.Errorf("template: read catalog config: %w", err)
	}

	var cfg catalogFile
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("template: parse catalog config: %w", err)
	}

	catalog := make(map[string]Info, len(cfg.Templates))
	for _, info := range cfg.Templates {
		catalog[info.ID] = info
	}

	return &Store{
		fsys:    sub,
		order:   cfg.Templates,
		catalog: catalog,
		cache:   make(map[string]*Template),
	}, nil
}

// List returns catalog metadata in configuration order.
func (s *Store) List() []Info {
	out := make([]Info, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether id names a catalog entry.
func (s *Store) Has(id string) bool {
	_, ok := s.catalog[id]
	return ok
}

// Load returns the validated template for id. Unknown ids fail with
// domain.ErrTemplateNotFound; documents missing a required token fail with
// domain.ErrTemplateInvalid.
func (s *Store) Load(id string) (*Template, error) {
	s.mu.RLock()
	cached, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(id, func() (any, error) {
		info, ok := s.catalog[id]
		if !ok {
			return nil, fmt.Errorf("template %q: %w", id, domain.ErrTemplateNotFound)
		}

		raw, err := fs.ReadFile(s.fsys, info.File)
		if err != nil {
			return nil, fmt.Errorf("template %q: read %s: %w", id, info.File, domain.ErrTemplateNotFound)
		}

		html := string(raw)
		if missing := MissingTokens(html); len(missing) > 0 {
			return nil, fmt.Errorf("template %q missing tokens %v: %w", id, missing, domain.ErrTemplateInvalid)
		}

		tpl := &Template{Info: info, HTML: html}
		s.mu.Lock()
		s.cache[id] = tpl
		s.mu.Unlock()
		return tpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// MissingTokens returns the required tokens absent from the document.
func MissingTokens(html string) []string {
	present := make(map[string]struct{})
	for _, match := range tokenPattern.FindAllStringSubmatch(html, -1) {
		present[match[1]] = struct{}{}
	}
	var missing []string
	for _, token := range RequiredTokens {
		if _, ok := present[token]; !ok {
			missing = append(missing, token)
		}
	}
	return missing
}

// Tokens lists every `${name}` marker found in the document, in order of
// first appearance.
func Tokens(html string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, match := range tokenPattern.FindAllStringSubmatch(html, -1) {
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		out = append(out, match[1])
	}
	return out
}
