package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/content"
	"folio/app/logging"
	"folio/app/models"
	"folio/app/services"
	"folio/app/views"
)

// BlogController handles HTTP requests for blog posts
type BlogController struct {
	blogService *services.BlogService
	site        content.Site
	templates   map[string]*template.Template
	logger      *zap.Logger
}

// NewBlogController creates a new BlogController
func NewBlogController(blogService *services.BlogService, site content.Site, templates map[string]*template.Template, logger *zap.Logger) *BlogController {
	return &BlogController{
		blogService: blogService,
		site:        site,
		templates:   templates,
		logger:      logging.OrNop(logger),
	}
}

// SetService sets the blog service for testing
func (bc *BlogController) SetService(service *services.BlogService) {
	bc.blogService = service
}

type postListResponse struct {
	Posts   []models.Post          `json:"posts"`
	Status  services.ContentStatus `json:"status"`
	Message string                 `json:"message"`
	Preview bool                   `json:"preview"`
}

type homePage struct {
	layout
	Posts  []models.Post
	Status services.ContentStatus
}

type postPage struct {
	layout
	Post *models.Post
}

// Index handles listing all posts
func (bc *BlogController) Index(w http.ResponseWriter, r *http.Request) {
	preview := isPreview(r, bc.blogService.PreviewDefault())
	posts := bc.blogService.GetBlogPosts(r.Context(), preview)
	status := services.StatusOf(posts)

	if wantsJSON(r) {
		sendJSON(w, http.StatusOK, postListResponse{
			Posts:   posts,
			Status:  status,
			Message: status.Message(),
			Preview: preview,
		})
		return
	}

	data := homePage{
		layout: layout{Site: bc.site, Description: bc.site.Tagline, Preview: preview},
		Posts:  posts,
		Status: status,
	}
	renderPage(w, r, bc.templates, views.Home, http.StatusOK, data, bc.logger)
}

// Show handles displaying a single post
func (bc *BlogController) Show(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	preview := isPreview(r, bc.blogService.PreviewDefault())

	post, err := bc.blogService.GetPost(r.Context(), slug, preview)
	if err != nil {
		if !errors.Is(err, cms.ErrNotFound) {
			bc.logger.Error("Failed to load post", zap.String("slug", slug), zap.Error(err))
		}
		renderNotFound(w, r, bc.templates, layout{Site: bc.site, Preview: preview}, "Post not found", bc.logger)
		return
	}

	if wantsJSON(r) {
		sendJSON(w, http.StatusOK, post)
		return
	}

	data := postPage{
		layout: layout{Site: bc.site, Title: post.Title, Description: post.Excerpt, Preview: preview},
		Post:   post,
	}
	renderPage(w, r, bc.templates, views.Post, http.StatusOK, data, bc.logger)
}
