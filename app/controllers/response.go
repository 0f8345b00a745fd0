package controllers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"folio/app/content"
	"folio/app/middleware"
	"folio/app/views"
)

// layout carries the data every page template needs.
type layout struct {
	Site        content.Site
	Title       string
	Description string
	Preview     bool
}

// notFoundPage is rendered for unknown slugs and routes.
type notFoundPage struct {
	layout
	Message string
}

// wantsJSON reports whether r should be answered with JSON.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

// isPreview reports whether r is served in preview mode.
func isPreview(r *http.Request, processWide bool) bool {
	return processWide || middleware.PreviewFromContext(r.Context())
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

// renderPage executes the named template inside the layout. The page is
// buffered so a template error still yields a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, templates map[string]*template.Template, name string, status int, data interface{}, logger *zap.Logger) {
	t, ok := templates[name]
	if !ok {
		logger.Error("Template missing", zap.String("template", name))
		sendError(w, r, "Template error: "+name+" not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("Template failed", zap.String("template", name), zap.Error(err))
		sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderNotFound answers with a 404 page or JSON error.
func renderNotFound(w http.ResponseWriter, r *http.Request, templates map[string]*template.Template, page layout, message string, logger *zap.Logger) {
	if wantsJSON(r) {
		sendError(w, r, message, http.StatusNotFound)
		return
	}
	page.Title = "Not found"
	renderPage(w, r, templates, views.NotFound, http.StatusNotFound, notFoundPage{layout: page, Message: message}, logger)
}
