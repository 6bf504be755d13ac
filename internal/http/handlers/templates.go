package handlers

import (
	"net/http"
)

// ListTemplates returns the fixed template catalog.
func (a *App) ListTemplates(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"templates": a.Templates.List(),
	})
}
