package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"message":          "API is running",
		"model_configured": a.ModelConfigured,
	})
}
