package services

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"folio/app/cms"
	"folio/app/config"
	"folio/app/logging"
	"folio/app/models"
	"folio/app/repositories"
)

const notSet = "not set"

// Request headers that are never echoed back.
var redactedHeaders = map[string]bool{
	"Authorization":       true,
	"Cookie":              true,
	"Proxy-Authorization": true,
}

// DiagnosticsService reports CMS configuration and probes CMS connectivity.
// It never discloses secret values, only whether they are set.
type DiagnosticsService struct {
	cfg     *config.Config
	clients *cms.Clients
	checks  repositories.CheckRepository
	lookup  config.LookupFunc
	logger  *zap.Logger
	now     func() time.Time
}

// NewDiagnosticsService creates a new DiagnosticsService. lookup reads the
// non-secret platform variables; nil disables them.
func NewDiagnosticsService(cfg *config.Config, clients *cms.Clients, checks repositories.CheckRepository, lookup config.LookupFunc, logger *zap.Logger) *DiagnosticsService {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &DiagnosticsService{
		cfg:     cfg,
		clients: clients,
		checks:  checks,
		lookup:  lookup,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// EnvironmentInfo describes the runtime environment and the inspected request.
type EnvironmentInfo struct {
	Variables   map[string]string `json:"variables"`
	Host        string            `json:"host"`
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	Headers     map[string]string `json:"headers"`
	Cookies     []string          `json:"cookies"`
	IsPreview   bool              `json:"isPreview"`
	PreviewMode string            `json:"previewMode"`
}

// DebugReport is the payload of the diagnostic endpoint.
type DebugReport struct {
	Message     string          `json:"message"`
	Environment EnvironmentInfo `json:"environment"`
	Timestamp   time.Time       `json:"timestamp"`
	Note        string          `json:"note"`
}

// Variables returns presence flags for the CMS variables and the names of the
// non-secret environment indicators.
func (s *DiagnosticsService) Variables() map[string]string {
	vars := s.cfg.Presence()
	vars[config.EnvAppEnv] = s.cfg.Server.Environment
	for _, key := range []string{config.EnvVercelEnv, config.EnvPublicVercelEnv, config.EnvPreviewMode} {
		vars[key] = notSet
		if v, ok := s.lookup(key); ok && v != "" {
			vars[key] = v
		}
	}
	return vars
}

// EnvironmentName is the deployment environment: the hosting platform's
// name when set, else the app environment.
func (s *DiagnosticsService) EnvironmentName() string {
	if v, ok := s.lookup(config.EnvVercelEnv); ok && v != "" {
		return v
	}
	return s.cfg.Server.Environment
}

// Environment inspects r. previewActive reports whether r carries a live
// preview session.
func (s *DiagnosticsService) Environment(r *http.Request, previewActive bool) EnvironmentInfo {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if redactedHeaders[http.CanonicalHeaderKey(name)] {
			continue
		}
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}

	cookies := []string{}
	for _, c := range r.Cookies() {
		cookies = append(cookies, c.Name)
	}
	sort.Strings(cookies)

	host := r.Host
	if host == "" {
		host = "unknown"
	}

	previewMode := notSet
	if previewActive {
		previewMode = "enabled"
	}

	return EnvironmentInfo{
		Variables:   s.Variables(),
		Host:        host,
		URL:         r.URL.String(),
		Method:      r.Method,
		Headers:     headers,
		Cookies:     cookies,
		IsPreview:   s.cfg.Preview.Enabled,
		PreviewMode: previewMode,
	}
}

// Report builds a diagnostic report for r.
func (s *DiagnosticsService) Report(r *http.Request, previewActive bool, message, note string) DebugReport {
	return DebugReport{
		Message:     message,
		Environment: s.Environment(r, previewActive),
		Timestamp:   s.now().UTC(),
		Note:        note,
	}
}

// RunCheck probes the delivery and preview APIs concurrently and records the
// outcome. Probe failures are part of the result, not errors.
func (s *DiagnosticsService) RunCheck(ctx context.Context) (*models.ConnectivityCheck, error) {
	modes := []cms.Mode{cms.ModeDelivery, cms.ModePreview}
	probes := make([]models.Probe, len(modes))

	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		g.Go(func() error {
			probes[i] = s.probe(gctx, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	check := &models.ConnectivityCheck{CheckedAt: s.now(), Probes: probes}
	if s.checks != nil {
		if err := s.checks.Create(check); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Connectivity check finished",
		zap.Int("check_id", check.ID),
		zap.Bool("healthy", check.Healthy()))
	return check, nil
}

func (s *DiagnosticsService) probe(ctx context.Context, mode cms.Mode) models.Probe {
	p := models.Probe{Mode: string(mode)}

	client := s.clients.Client(mode)
	if client == nil {
		err := s.clients.Err(mode)
		if err == nil {
			err = cms.NewError(cms.KindConfigMissing, "services.probe", nil)
		}
		p.Kind = err.Kind.String()
		p.Error = err.Error()
		return p
	}

	start := time.Now()
	collection, err := client.Entries(ctx, cms.Query{
		ContentType: cms.PostContentType,
		Limit:       1,
		Exists:      []string{"sys.publishedAt"},
	})
	p.Latency = time.Since(start)
	if err != nil {
		cmsErr := cms.AsError(err, "services.probe")
		p.Kind = cmsErr.Kind.String()
		p.Error = cmsErr.Error()
		s.logger.Warn("Connectivity probe failed", zap.String("mode", string(mode)), zap.Error(err))
		return p
	}

	p.OK = true
	p.Entries = collection.Total
	return p
}

// RecentChecks returns the latest recorded checks, newest first.
func (s *DiagnosticsService) RecentChecks(limit int) ([]*models.ConnectivityCheck, error) {
	if s.checks == nil {
		return nil, nil
	}
	return s.checks.List(limit)
}

// ClearChecks drops the check history.
func (s *DiagnosticsService) ClearChecks() error {
	if s.checks == nil {
		return nil
	}
	return s.checks.Clear()
}
