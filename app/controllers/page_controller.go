package controllers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"folio/app/content"
	"folio/app/logging"
	"folio/app/views"
)

// PageController serves the static informational pages.
type PageController struct {
	pages     *content.Pages
	preview   bool
	templates map[string]*template.Template
	logger    *zap.Logger
}

// NewPageController creates a new PageController. preview is the process-wide
// preview flag, shown in the layout banner.
func NewPageController(pages *content.Pages, preview bool, templates map[string]*template.Template, logger *zap.Logger) *PageController {
	return &PageController{
		pages:     pages,
		preview:   preview,
		templates: templates,
		logger:    logging.OrNop(logger),
	}
}

type staticPage struct {
	layout
	Page content.Page
}

func (pc *PageController) layout(r *http.Request) layout {
	return layout{Site: pc.pages.Site, Preview: isPreview(r, pc.preview)}
}

// Show returns a handler rendering the named page.
func (pc *PageController) Show(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := pc.pages.Page(name)
		if !ok {
			pc.NotFound(w, r)
			return
		}

		data := staticPage{layout: pc.layout(r), Page: page}
		data.Title = page.Title
		data.Description = page.Description
		renderPage(w, r, pc.templates, views.Page, http.StatusOK, data, pc.logger)
	}
}

// NotFound handles unknown routes.
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, pc.templates, pc.layout(r), "Page not found", pc.logger)
}
