package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/content"
	"folio/app/logging"
	"folio/app/models"
)

// PostSource provides raw post entries. Implementations never fail; missing
// data is reported as an empty list or nil entry.
type PostSource interface {
	ListPosts(ctx context.Context, preview bool) []models.Entry
	GetPostBySlug(ctx context.Context, slug string, preview bool) *models.Entry
}

// Ensure the fetcher satisfies PostSource.
var _ PostSource = (*cms.Fetcher)(nil)

// BlogService turns CMS entries into posts and falls back to the demo posts
// whenever the CMS has nothing valid to offer.
type BlogService struct {
	source  PostSource
	preview bool
	logger  *zap.Logger
}

// NewBlogService creates a new BlogService. preview is the process-wide
// preview flag; a nil source behaves like an empty CMS.
func NewBlogService(source PostSource, preview bool, logger *zap.Logger) *BlogService {
	return &BlogService{
		source:  source,
		preview: preview,
		logger:  logging.OrNop(logger),
	}
}

// PreviewDefault reports the process-wide preview flag.
func (s *BlogService) PreviewDefault() bool {
	return s.preview
}

// GetBlogPosts returns the published posts, newest first. A request is served
// in preview mode when the process runs in preview or the caller asks for it.
func (s *BlogService) GetBlogPosts(ctx context.Context, preview bool) []models.Post {
	preview = s.preview || preview

	var entries []models.Entry
	if s.source != nil {
		entries = s.source.ListPosts(ctx, preview)
	}

	posts := content.MapEntries(entries, s.skipInvalid)
	if len(posts) == 0 {
		s.logger.Debug("Serving fallback posts", zap.Bool("preview", preview), zap.Int("entries", len(entries)))
		return content.FallbackPosts()
	}

	content.SortByDate(posts)
	return posts
}

// GetPost returns the post with slug from the CMS, else from the fallback
// posts. A slug found in neither yields a not-found error.
func (s *BlogService) GetPost(ctx context.Context, slug string, preview bool) (*models.Post, error) {
	preview = s.preview || preview

	if s.source != nil {
		if entry := s.source.GetPostBySlug(ctx, slug, preview); entry != nil {
			if err := content.Validate(entry); err != nil {
				s.skipInvalid(entry, err)
			} else {
				post := content.MapToPost(entry)
				return &post, nil
			}
		}
	}

	if post, ok := content.FallbackPost(slug); ok {
		return &post, nil
	}
	return nil, cms.NewError(cms.KindNotFound, "services.get_post", fmt.Errorf("post %q not found", slug))
}

func (s *BlogService) skipInvalid(entry *models.Entry, err error) {
	s.logger.Debug("Skipping invalid entry", zap.String("entry_id", entry.Sys.ID), zap.Error(err))
}

// ContentStatus summarizes where the listed posts came from.
type ContentStatus struct {
	Source models.Source `json:"source"`
	Count  int           `json:"count"`
}

// StatusOf derives the content status of a post listing.
func StatusOf(posts []models.Post) ContentStatus {
	status := ContentStatus{Source: models.SourceFallback, Count: len(posts)}
	if len(posts) > 0 && posts[0].Source == models.SourceCMS {
		status.Source = models.SourceCMS
	}
	return status
}

// FromCMS reports whether the posts were loaded from the CMS.
func (c ContentStatus) FromCMS() bool {
	return c.Source == models.SourceCMS
}

// Message is the status line shown to visitors.
func (c ContentStatus) Message() string {
	if c.FromCMS() {
		return fmt.Sprintf("Contentful: %d posts loaded", c.Count)
	}
	return fmt.Sprintf("Fallback: %d demo posts", c.Count)
}
