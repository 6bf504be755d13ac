package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sitegen/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

type generateResponse struct {
	Success        bool                   `json:"success"`
	Message        string                 `json:"message,omitempty"`
	SessionID      string                 `json:"session_id,omitempty"`
	Filename       string                 `json:"filename,omitempty"`
	HTML           string                 `json:"html,omitempty"`
	WebsiteURL     string                 `json:"website_url,omitempty"`
	S3URL          string                 `json:"s3_url,omitempty"`
	DownloadURL    string                 `json:"download_url,omitempty"`
	Analysis       *domain.AnalysisResult `json:"analysis,omitempty"`
	Design         *domain.DesignTokens   `json:"design,omitempty"`
	Content        *domain.ContentBlock   `json:"content,omitempty"`
	GenerationTime float64                `json:"generation_time,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// Generate accepts business details and responds with the generated site,
// its hosting URLs when upload succeeded, and the per-stage intermediates.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var info domain.BusinessInfo
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		a.json(w, http.StatusBadRequest, generateResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := info.Validate(); err != nil {
		a.json(w, http.StatusBadRequest, generateResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	site, err := a.Pipeline.Generate(r.Context(), info)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrTemplateNotFound) {
			status = http.StatusBadRequest
		}
		a.Logger.Error().Err(err).Str("business", info.BusinessName).Msg("generation failed")
		a.json(w, status, generateResponse{Error: err.Error()})
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Success:        true,
		Message:        "Website generated successfully!",
		SessionID:      site.SessionID,
		Filename:       site.Filename,
		HTML:           site.HTML,
		WebsiteURL:     site.WebsiteURL,
		S3URL:          site.WebsiteURL,
		DownloadURL:    site.DownloadURL,
		Analysis:       &site.Analysis,
		Design:         &site.Design,
		Content:        &site.Content,
		GenerationTime: time.Since(start).Seconds(),
	})
}
