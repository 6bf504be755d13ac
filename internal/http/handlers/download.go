package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const downloadLinkTTL = time.Hour

// Download redirects to a time-limited link for a previously generated site.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if a.Uploader == nil {
		a.json(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "hosting is not configured",
		})
		return
	}

	url, err := a.Uploader.Presign(r.Context(), sessionID, downloadLinkTTL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", sessionID).Msg("download link unavailable")
		a.json(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "file not found",
		})
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
