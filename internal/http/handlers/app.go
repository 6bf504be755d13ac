package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"sitegen/internal/domain"
	"sitegen/internal/infra"
	"sitegen/internal/storage"
	"sitegen/internal/template"
)

// Generator runs the full site generation pipeline for one request.
type Generator interface {
	Generate(ctx context.Context, info domain.BusinessInfo) (*domain.GeneratedSite, error)
}

// App holds the handler dependencies injected at startup.
type App struct {
	Pipeline        Generator
	Templates       *template.Store
	Uploader        storage.Uploader
	ModelConfigured bool
	Logger          *infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
