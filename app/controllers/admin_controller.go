package controllers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"folio/app/content"
	"folio/app/logging"
	"folio/app/models"
	"folio/app/services"
	"folio/app/views"
)

// recentChecks is the number of connectivity checks shown on the admin page.
const recentChecks = 10

// AdminController serves the environment status page and connectivity checks.
type AdminController struct {
	diagnostics    *services.DiagnosticsService
	blogService    *services.BlogService
	previewService *services.PreviewService
	site           content.Site
	templates      map[string]*template.Template
	logger         *zap.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	diagnostics *services.DiagnosticsService,
	blogService *services.BlogService,
	previewService *services.PreviewService,
	site content.Site,
	templates map[string]*template.Template,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		diagnostics:    diagnostics,
		blogService:    blogService,
		previewService: previewService,
		site:           site,
		templates:      templates,
		logger:         logging.OrNop(logger),
	}
}

type adminPage struct {
	layout
	Variables         map[string]string
	Status            services.ContentStatus
	PreviewConfigured bool
	Checks            []*models.ConnectivityCheck
	ContentModel      string
}

// Dashboard renders the admin page.
func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	preview := isPreview(r, ac.blogService.PreviewDefault())

	checks, err := ac.diagnostics.RecentChecks(recentChecks)
	if err != nil {
		ac.logger.Warn("Failed to load connectivity checks", zap.Error(err))
	}

	data := adminPage{
		layout:            layout{Site: ac.site, Title: "Admin", Preview: preview},
		Variables:         ac.diagnostics.Variables(),
		Status:            services.StatusOf(ac.blogService.GetBlogPosts(r.Context(), preview)),
		PreviewConfigured: ac.previewService.Configured(),
		Checks:            checks,
		ContentModel:      content.ContentModel(),
	}
	renderPage(w, r, ac.templates, views.Admin, http.StatusOK, data, ac.logger)
}

// Check runs a connectivity check and reports it. Probe failures are part of
// the report.
func (ac *AdminController) Check(w http.ResponseWriter, r *http.Request) {
	check, err := ac.diagnostics.RunCheck(r.Context())
	if err != nil {
		ac.logger.Error("Connectivity check failed", zap.Error(err))
		sendError(w, r, "Failed to record connectivity check", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, check)
}
