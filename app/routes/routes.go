// Package routes wires the controllers into the HTTP router.
package routes

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/config"
	"folio/app/content"
	"folio/app/controllers"
	"folio/app/logging"
	"folio/app/middleware"
	"folio/app/repositories"
	"folio/app/services"
	"folio/app/views"
)

const shutdownTimeout = 10 * time.Second

// Dependencies holds everything the router needs.
type Dependencies struct {
	Config      *config.Config
	Blog        *services.BlogService
	Preview     *services.PreviewService
	Diagnostics *services.DiagnosticsService
	Pages       *content.Pages
	Templates   map[string]*template.Template
	Cookies     *middleware.PreviewCookies
	Logger      *zap.Logger
}

// NewDependencies builds the services on top of the CMS clients and the
// badger database.
func NewDependencies(cfg *config.Config, clients *cms.Clients, db *badger.DB, logger *zap.Logger) (*Dependencies, error) {
	logger = logging.OrNop(logger)

	templates, err := views.Templates()
	if err != nil {
		return nil, err
	}
	pages, err := content.StaticPages()
	if err != nil {
		return nil, err
	}

	sessionRepo := repositories.NewBadgerPreviewSessionRepository(db)
	checkRepo := repositories.NewBadgerCheckRepository(db)

	fetcher := cms.NewFetcher(clients, logger.Named("cms"))
	return &Dependencies{
		Config:      cfg,
		Blog:        services.NewBlogService(fetcher, cfg.Preview.Enabled, logger.Named("blog")),
		Preview:     services.NewPreviewService(cfg.Preview, sessionRepo, logger.Named("preview")),
		Diagnostics: services.NewDiagnosticsService(cfg, clients, checkRepo, os.LookupEnv, logger.Named("diagnostics")),
		Pages:       pages,
		Templates:   templates,
		Cookies:     middleware.NewPreviewCookies(cfg.Preview.SessionSecret, cfg.IsProduction(), cfg.Preview.TTL),
		Logger:      logger,
	}, nil
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps *Dependencies) *mux.Router {
	logger := logging.OrNop(deps.Logger)
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(middleware.Recoverer(logger.Named("http")))
	router.Use(middleware.Preview(deps.Cookies, deps.Preview, logger.Named("preview")))

	site := deps.Pages.Site
	preview := deps.Config.Preview.Enabled

	blogController := controllers.NewBlogController(deps.Blog, site, deps.Templates, logger)
	pageController := controllers.NewPageController(deps.Pages, preview, deps.Templates, logger)
	adminController := controllers.NewAdminController(deps.Diagnostics, deps.Blog, deps.Preview, site, deps.Templates, logger)
	previewController := controllers.NewPreviewController(deps.Preview, deps.Diagnostics, deps.Cookies, logger)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Web routes
	router.HandleFunc("/", blogController.Index).Methods("GET")
	router.HandleFunc("/blog/{slug}", blogController.Show).Methods("GET")
	router.HandleFunc("/about", pageController.Show("about")).Methods("GET")
	router.HandleFunc("/recommendations", pageController.Show("recommendations")).Methods("GET")
	router.HandleFunc("/admin", adminController.Dashboard).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	api.HandleFunc("/debug", previewController.Debug).Methods("GET")
	api.HandleFunc("/preview", previewController.Enable).Methods("GET")
	api.HandleFunc("/preview", previewController.Disable).Methods("POST")
	api.HandleFunc("/preview/clear", previewController.Disable).Methods("GET", "POST")
	api.HandleFunc("/posts", blogController.Index).Methods("GET")
	api.HandleFunc("/posts/{slug}", blogController.Show).Methods("GET")
	api.HandleFunc("/admin/check", adminController.Check).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(pageController.NotFound)

	return router
}

// StartServer serves router on addr until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, addr string, router http.Handler, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
