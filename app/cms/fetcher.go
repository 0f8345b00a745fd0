package cms

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"folio/app/logging"
	"folio/app/models"
)

const (
	// PostContentType is the content type id of blog posts.
	PostContentType = "blogPost"
	// PostPageSize caps a post listing.
	PostPageSize = 100
)

// Fetcher queries blog post entries. Failures never escape as errors from
// ListPosts or GetPostBySlug; they are logged and reported as no data.
type Fetcher struct {
	clients *Clients
	logger  *zap.Logger
}

// NewFetcher creates a Fetcher over clients.
func NewFetcher(clients *Clients, logger *zap.Logger) *Fetcher {
	return &Fetcher{clients: clients, logger: logging.OrNop(logger)}
}

func postQuery() Query {
	return Query{
		ContentType: PostContentType,
		Limit:       PostPageSize,
		Order:       []string{"-fields.publishedDate", "-sys.createdAt"},
		Exists:      []string{"sys.publishedAt"},
	}
}

// FetchPosts lists published posts in the requested mode.
func (f *Fetcher) FetchPosts(ctx context.Context, preview bool) Result[[]models.Entry] {
	const op = "cms.fetch_posts"

	client, mode := f.clients.Select(preview)
	if client == nil {
		return Fail[[]models.Entry](f.unavailable(op, mode))
	}

	collection, err := client.Entries(ctx, postQuery())
	if err != nil {
		return Fail[[]models.Entry](AsError(err, op))
	}
	if collection.Items == nil {
		return Ok([]models.Entry{})
	}
	return Ok(collection.Items)
}

// FetchPostBySlug looks up a single published post by slug.
func (f *Fetcher) FetchPostBySlug(ctx context.Context, slug string, preview bool) Result[*models.Entry] {
	const op = "cms.fetch_post_by_slug"

	if strings.TrimSpace(slug) == "" {
		return Fail[*models.Entry](NewError(KindNotFound, op, nil))
	}

	client, mode := f.clients.Select(preview)
	if client == nil {
		return Fail[*models.Entry](f.unavailable(op, mode))
	}

	q := postQuery()
	q.Limit = 1
	q.Equals = map[string]string{"fields.slug": slug}

	collection, err := client.Entries(ctx, q)
	if err != nil {
		return Fail[*models.Entry](AsError(err, op))
	}
	if len(collection.Items) == 0 {
		return Fail[*models.Entry](NewError(KindNotFound, op, nil))
	}
	entry := collection.Items[0]
	return Ok(&entry)
}

// ListPosts returns published post entries, or an empty list on any failure.
func (f *Fetcher) ListPosts(ctx context.Context, preview bool) []models.Entry {
	res := f.FetchPosts(ctx, preview)
	if !res.OK() {
		f.logFailure(res.Err, zap.Bool("preview", preview))
		return []models.Entry{}
	}
	return res.Value
}

// GetPostBySlug returns the entry for slug, or nil when it is missing or the
// lookup failed.
func (f *Fetcher) GetPostBySlug(ctx context.Context, slug string, preview bool) *models.Entry {
	res := f.FetchPostBySlug(ctx, slug, preview)
	if !res.OK() {
		f.logFailure(res.Err, zap.String("slug", slug), zap.Bool("preview", preview))
		return nil
	}
	return res.Value
}

func (f *Fetcher) unavailable(op string, mode Mode) *Error {
	if err := f.clients.Err(mode); err != nil {
		return NewError(KindConfigMissing, op, err)
	}
	return NewError(KindConfigMissing, op, nil)
}

func (f *Fetcher) logFailure(err *Error, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", err.Kind.String()), zap.Error(err))
	switch err.Kind {
	case KindTransportFailure:
		f.logger.Warn("Contentful request failed", fields...)
	default:
		f.logger.Debug("No Contentful data", fields...)
	}
}
