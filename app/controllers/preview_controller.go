package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"folio/app/logging"
	"folio/app/middleware"
	"folio/app/services"
)

const (
	debugMessage   = "Diagnostic information"
	debugNote      = "This endpoint is for debugging purposes only"
	invalidMessage = "Invalid token. Preview mode not enabled."
	invalidNote    = "To enable preview mode, use the correct secret token"
	disabledNote   = "Preview mode is disabled until a preview secret is configured"
)

// PreviewController exposes the diagnostic endpoint and toggles preview mode.
type PreviewController struct {
	previewService *services.PreviewService
	diagnostics    *services.DiagnosticsService
	cookies        *middleware.PreviewCookies
	logger         *zap.Logger
}

// NewPreviewController creates a new PreviewController
func NewPreviewController(previewService *services.PreviewService, diagnostics *services.DiagnosticsService, cookies *middleware.PreviewCookies, logger *zap.Logger) *PreviewController {
	return &PreviewController{
		previewService: previewService,
		diagnostics:    diagnostics,
		cookies:        cookies,
		logger:         logging.OrNop(logger),
	}
}

// Debug reports the environment and the inspected request.
func (pc *PreviewController) Debug(w http.ResponseWriter, r *http.Request) {
	active := middleware.PreviewFromContext(r.Context())
	sendJSON(w, http.StatusOK, pc.diagnostics.Report(r, active, debugMessage, debugNote))
}

// Enable turns on preview mode when the secret matches and redirects to the
// requested local path.
func (pc *PreviewController) Enable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	active := middleware.PreviewFromContext(r.Context())

	if !pc.previewService.Authorize(query.Get("secret")) {
		note := invalidNote
		if !pc.previewService.Configured() {
			note = disabledNote
		}
		pc.logger.Warn("Rejected preview request", zap.String("remote_addr", r.RemoteAddr))
		report := pc.diagnostics.Report(r, active, invalidMessage, note)
		report.Environment.URL = redactSecret(r.URL)
		sendJSON(w, http.StatusUnauthorized, report)
		return
	}

	session, err := pc.previewService.StartSession(r.RemoteAddr)
	if err != nil {
		pc.logger.Error("Failed to start preview session", zap.Error(err))
		sendError(w, r, "Failed to enable preview mode", http.StatusInternalServerError)
		return
	}
	if err := pc.cookies.Save(w, r, session.ID); err != nil {
		pc.logger.Error("Failed to set preview cookie", zap.Error(err))
		sendError(w, r, "Failed to enable preview mode", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Preview-Mode", "enabled")
	w.Header().Set("X-Environment", pc.diagnostics.EnvironmentName())
	http.Redirect(w, r, localPath(query.Get("path")), http.StatusTemporaryRedirect)
}

// Disable clears the preview cookie, revokes the session and redirects home.
func (pc *PreviewController) Disable(w http.ResponseWriter, r *http.Request) {
	if id := pc.cookies.SessionID(r); id != "" {
		if err := pc.previewService.EndSession(id); err != nil {
			pc.logger.Warn("Failed to revoke preview session", zap.Error(err))
		}
	}
	if err := pc.cookies.Clear(w, r); err != nil {
		pc.logger.Error("Failed to clear preview cookie", zap.Error(err))
		sendError(w, r, "Failed to disable preview mode", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// localPath returns p when it is an absolute path on this site, else "/".
func localPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return p
}

// redactSecret hides the secret query parameter of u.
func redactSecret(u *url.URL) string {
	redacted := *u
	query := redacted.Query()
	if query.Has("secret") {
		query.Set("secret", "redacted")
		redacted.RawQuery = query.Encode()
	}
	return redacted.String()
}
