// Package pipeline orchestrates the five-stage site generation flow:
// analysis, design, content, images, assembly. Stages run strictly in order
// because each feeds the next; only the per-slot image lookups inside the
// image stage fan out concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sitegen/internal/assemble"
	"sitegen/internal/domain"
	"sitegen/internal/infra"
	"sitegen/internal/providers/image"
	"sitegen/internal/storage"
	"sitegen/internal/template"
)

const presignTTL = time.Hour

// ContentModel produces schema-shaped JSON from a prompt.
type ContentModel interface {
	CompleteJSON(ctx context.Context, prompt string, out any) error
}

// Options wires the pipeline's collaborators. Model, Images and Templates
// are required; Uploader may be nil when hosting is disabled.
type Options struct {
	Model           ContentModel
	Images          image.Provider
	Templates       *template.Store
	Uploader        storage.Uploader
	DefaultTemplate string
	Logger          *infra.Logger
	Now             func() time.Time
}

// Pipeline generates complete websites from validated business input. It is
// stateless per request and safe for concurrent use.
type Pipeline struct {
	model           ContentModel
	images          image.Provider
	templates       *template.Store
	uploader        storage.Uploader
	defaultTemplate string
	logger          *infra.Logger
	now             func() time.Time
}

// New constructs a Pipeline from its collaborators.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		model:           opts.Model,
		images:          opts.Images,
		templates:       opts.Templates,
		uploader:        opts.Uploader,
		defaultTemplate: opts.DefaultTemplate,
		logger:          logger,
		now:             now,
	}
}

// Generate runs the full pipeline for one request. Analysis and content
// failures abort the request; design failures degrade to a fixed token set
// and image or upload failures never abort.
func (p *Pipeline) Generate(ctx context.Context, info domain.BusinessInfo) (*domain.GeneratedSite, error) {
	sessionID := p.sessionID(info.BusinessName)
	log := p.logger.With().Str("session_id", sessionID).Logger()

	analysis, err := p.analyze(ctx, info)
	if err != nil {
		return nil, domain.NewGenerationError(domain.StageAnalysis, err)
	}
	log.Info().Str("tone", analysis.ToneOfVoice).Msg("business analysis complete")

	design := p.design(ctx, &log, info, analysis)

	content, err := p.content(ctx, info, analysis)
	if err != nil {
		return nil, domain.NewGenerationError(domain.StageContent, err)
	}
	content.PadServices(info.ServiceList())
	log.Info().Int("services", len(content.ServiceItems)).Msg("content generation complete")

	images := p.fetchImages(ctx, info, content)

	templateID := strings.TrimSpace(info.TemplateID)
	if templateID == "" {
		templateID = p.defaultTemplate
	}
	tpl, err := p.templates.Load(templateID)
	if err != nil {
		return nil, domain.NewGenerationError(domain.StageTemplate, err)
	}

	html := assemble.Render(tpl, info, design, content, images)
	if leftover := template.Tokens(html); len(leftover) > 0 {
		return nil, domain.NewGenerationError(domain.StageAssemble,
			fmt.Errorf("unresolved placeholder tokens: %s", strings.Join(leftover, ", ")))
	}

	site := &domain.GeneratedSite{
		SessionID: sessionID,
		Filename:  sessionID + ".html",
		HTML:      html,
		Analysis:  analysis,
		Design:    design,
		Content:   content,
		Images:    images,
	}
	p.upload(ctx, &log, site)

	log.Info().Str("template", templateID).Bool("hosted", site.WebsiteURL != "").Msg("site generated")
	return site, nil
}

func (p *Pipeline) analyze(ctx context.Context, info domain.BusinessInfo) (domain.AnalysisResult, error) {
	var analysis domain.AnalysisResult
	if err := p.model.CompleteJSON(ctx, analysisPrompt(info), &analysis); err != nil {
		return domain.AnalysisResult{}, err
	}
	return analysis, nil
}

// design falls back to the fixed token set whenever the model fails or
// returns an incomplete set. The fallback is all-or-nothing: partial model
// output is never merged with fallback values.
func (p *Pipeline) design(ctx context.Context, log *infra.Logger, info domain.BusinessInfo, analysis domain.AnalysisResult) domain.DesignTokens {
	var design domain.DesignTokens
	if err := p.model.CompleteJSON(ctx, designPrompt(info, analysis), &design); err != nil {
		log.Warn().Err(err).Msg("design stage degraded to fallback tokens")
		return domain.FallbackDesign()
	}
	if !design.Complete() {
		log.Warn().Msg("design tokens incomplete, using fallback set")
		return domain.FallbackDesign()
	}
	return design
}

func (p *Pipeline) content(ctx context.Context, info domain.BusinessInfo, analysis domain.AnalysisResult) (domain.ContentBlock, error) {
	var content domain.ContentBlock
	if err := p.model.CompleteJSON(ctx, contentPrompt(info, analysis), &content); err != nil {
		return domain.ContentBlock{}, err
	}
	if !content.Usable() {
		return domain.ContentBlock{}, errors.New("model returned no usable copy")
	}
	return content, nil
}

// fetchImages issues the per-slot lookups concurrently and recombines the
// results by slot name. It cannot fail: the provider degrades to
// deterministic placeholders on its own.
func (p *Pipeline) fetchImages(ctx context.Context, info domain.BusinessInfo, content domain.ContentBlock) domain.ImageSet {
	queries := map[string]string{
		domain.SlotHero:  extractKeywords(info.Description, info.BusinessName),
		domain.SlotAbout: info.BusinessName + " team professional",
		domain.SlotCTA:   info.BusinessName + " call to action",
	}
	serviceSlots := []string{domain.SlotService1, domain.SlotService2, domain.SlotService3}
	for i, slot := range serviceSlots {
		if i < len(content.ServiceItems) && strings.TrimSpace(content.ServiceItems[i].Name) != "" {
			queries[slot] = content.ServiceItems[i].Name
		} else {
			queries[slot] = info.BusinessName + " service"
		}
	}

	results := make(map[string]string, len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for slot, query := range queries {
		slot, query := slot, query
		g.Go(func() error {
			urls := p.images.Search(gctx, query, 1)
			mu.Lock()
			results[slot] = urls[0]
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // lookups degrade internally and never return errors

	return domain.ImageSet(results)
}

// upload persists the document when hosting is configured. Failure is
// reported in logs only; the generated HTML still reaches the caller.
func (p *Pipeline) upload(ctx context.Context, log *infra.Logger, site *domain.GeneratedSite) {
	if p.uploader == nil {
		log.Debug().Msg("hosting disabled, returning html only")
		return
	}
	res, err := p.uploader.Upload(ctx, site.SessionID, []byte(site.HTML))
	if err != nil {
		log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)).Msg("site upload failed, returning html only")
		return
	}
	site.WebsiteURL = res.WebsiteURL

	download, err := p.uploader.Presign(ctx, site.SessionID, presignTTL)
	if err != nil {
		log.Warn().Err(err).Msg("presign failed")
		return
	}
	site.DownloadURL = download
}

func (p *Pipeline) sessionID(businessName string) string {
	slug := slugify(businessName)
	if slug == "" {
		slug = "site"
	}
	return slug + "-" + p.now().UTC().Format("20060102150405")
}
