package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio/app/cms"
	"folio/app/config"
	"folio/app/content"
	"folio/app/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockSource is an in-memory PostSource.
type mockSource struct {
	entries      []models.Entry
	lastPreview  bool
	listCalls    int
	slugRequests []string
}

func (m *mockSource) ListPosts(ctx context.Context, preview bool) []models.Entry {
	m.listCalls++
	m.lastPreview = preview
	return m.entries
}

func (m *mockSource) GetPostBySlug(ctx context.Context, slug string, preview bool) *models.Entry {
	m.slugRequests = append(m.slugRequests, slug)
	m.lastPreview = preview
	for i := range m.entries {
		if s, _ := m.entries[i].StringField("slug"); s == slug {
			return &m.entries[i]
		}
	}
	return nil
}

func makeEntry(t *testing.T, slug, title, date string, published bool) models.Entry {
	t.Helper()
	fields := map[string]any{
		"slug":    slug,
		"title":   title,
		"content": map[string]any{"nodeType": "document", "content": []any{}},
	}
	if date != "" {
		fields["publishedDate"] = date
	}

	raw := map[string]json.RawMessage{}
	for k, v := range fields {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		raw[k] = b
	}

	entry := models.Entry{
		Sys:    models.Sys{ID: "id-" + slug, CreatedAt: time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)},
		Fields: raw,
	}
	if published {
		at := time.Date(2023, 6, 2, 8, 0, 0, 0, time.UTC)
		entry.Sys.PublishedAt = &at
	}
	return entry
}

func slugsOf(posts []models.Post) []string {
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func TestGetBlogPosts(t *testing.T) {
	t.Run("cms posts sorted by date", func(t *testing.T) {
		source := &mockSource{entries: []models.Entry{
			makeEntry(t, "old", "Old", "2024-01-01", true),
			makeEntry(t, "new", "New", "2024-03-01T10:00:00Z", true),
			makeEntry(t, "mid", "Mid", "2024-02-01", true),
		}}
		service := NewBlogService(source, false, nil)

		posts := service.GetBlogPosts(context.Background(), false)
		assert.Equal(t, []string{"new", "mid", "old"}, slugsOf(posts))
		for _, p := range posts {
			assert.Equal(t, models.SourceCMS, p.Source)
			assert.True(t, p.Published)
		}
	})

	t.Run("invalid entries are excluded", func(t *testing.T) {
		source := &mockSource{entries: []models.Entry{
			makeEntry(t, "good", "Good", "2024-01-01", true),
			makeEntry(t, "draft", "Draft", "2024-05-01", false),
			makeEntry(t, "untitled", "  ", "2024-05-01", true),
		}}
		posts := NewBlogService(source, false, nil).GetBlogPosts(context.Background(), false)
		assert.Equal(t, []string{"good"}, slugsOf(posts))
	})

	t.Run("no valid entries falls back", func(t *testing.T) {
		source := &mockSource{entries: []models.Entry{
			makeEntry(t, "draft", "Draft", "2024-05-01", false),
		}}
		posts := NewBlogService(source, false, nil).GetBlogPosts(context.Background(), false)
		assert.Equal(t, content.FallbackPosts(), posts)
	})

	t.Run("empty cms falls back", func(t *testing.T) {
		posts := NewBlogService(&mockSource{}, false, nil).GetBlogPosts(context.Background(), false)
		assert.Equal(t, []string{"getting-started-with-nextjs", "the-art-of-minimalist-design"}, slugsOf(posts))
	})

	t.Run("nil source falls back", func(t *testing.T) {
		posts := NewBlogService(nil, false, nil).GetBlogPosts(context.Background(), false)
		assert.Len(t, posts, 2)
	})

	t.Run("preview flag", func(t *testing.T) {
		source := &mockSource{}
		NewBlogService(source, false, nil).GetBlogPosts(context.Background(), true)
		assert.True(t, source.lastPreview)

		NewBlogService(source, true, nil).GetBlogPosts(context.Background(), false)
		assert.True(t, source.lastPreview)

		NewBlogService(source, false, nil).GetBlogPosts(context.Background(), false)
		assert.False(t, source.lastPreview)
	})
}

func TestGetBlogPostsWithoutCredentials(t *testing.T) {
	clients := cms.NewClients(config.ContentfulConfig{}, nil)
	service := NewBlogService(cms.NewFetcher(clients, nil), false, nil)

	posts := service.GetBlogPosts(context.Background(), false)
	require.Len(t, posts, 2)
	assert.Equal(t, "2024-01-15", posts[0].DateString())
	assert.Equal(t, "2024-01-10", posts[1].DateString())

	post, err := service.GetPost(context.Background(), "the-art-of-minimalist-design", false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, post.Source)
}

func TestGetPost(t *testing.T) {
	source := &mockSource{entries: []models.Entry{
		makeEntry(t, "hello", "Hello", "", true),
		makeEntry(t, "draft", "Draft", "", false),
	}}
	service := NewBlogService(source, false, nil)

	tests := []struct {
		name       string
		slug       string
		wantSource models.Source
		wantErr    bool
	}{
		{name: "cms post", slug: "hello", wantSource: models.SourceCMS},
		{name: "fallback post", slug: "getting-started-with-nextjs", wantSource: models.SourceFallback},
		{name: "invalid cms post", slug: "draft", wantErr: true},
		{name: "unknown slug", slug: "nope", wantErr: true},
		{name: "slug match is exact", slug: "Getting-Started-With-Nextjs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := service.GetPost(context.Background(), tt.slug, false)
			if tt.wantErr {
				assert.Nil(t, post)
				assert.ErrorIs(t, err, cms.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, post.Slug)
			assert.Equal(t, tt.wantSource, post.Source)
		})
	}

	t.Run("cms post defaults", func(t *testing.T) {
		post, err := service.GetPost(context.Background(), "hello", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), post.Date)
		assert.Equal(t, content.ExcerptPlaceholder, post.Excerpt)
		assert.Equal(t, []string{}, post.Tags)
	})
}

func TestContentStatus(t *testing.T) {
	fallback := StatusOf(content.FallbackPosts())
	assert.False(t, fallback.FromCMS())
	assert.Equal(t, "Fallback: 2 demo posts", fallback.Message())

	cmsStatus := StatusOf([]models.Post{{Source: models.SourceCMS}, {Source: models.SourceCMS}, {Source: models.SourceCMS}})
	assert.True(t, cmsStatus.FromCMS())
	assert.Equal(t, "Contentful: 3 posts loaded", cmsStatus.Message())

	assert.Equal(t, 0, StatusOf(nil).Count)
}
