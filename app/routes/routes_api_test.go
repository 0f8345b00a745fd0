package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/app/middleware"
	"folio/app/models"
	"folio/app/services"
)

type postsResponse struct {
	Posts   []models.Post `json:"posts"`
	Message string        `json:"message"`
	Preview bool          `json:"preview"`
}

func decodePosts(t *testing.T, w *httptest.ResponseRecorder) postsResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var res postsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestAPIRoutes(t *testing.T) {
	fake := newFakeContentful(t)
	fake.addPost("e1", "hello-api", "Hello API", "2024-02-01")
	router := setupTestRouter(t, setupTestDB(t), testConfig(fake))

	t.Run("GET /api/posts", func(t *testing.T) {
		res := decodePosts(t, serve(router, httptest.NewRequest("GET", "/api/posts", nil)))

		require.Len(t, res.Posts, 1)
		post := res.Posts[0]
		assert.Equal(t, "hello-api", post.Slug)
		assert.Equal(t, "Hello API", post.Title)
		assert.Equal(t, "Excerpt of Hello API", post.Excerpt)
		assert.Equal(t, []string{"go"}, post.Tags)
		assert.Equal(t, models.SourceCMS, post.Source)
		assert.Equal(t, "e1", post.EntryID)
		assert.True(t, post.Content.IsDocument())
		assert.Equal(t, "Contentful: 1 posts loaded", res.Message)
		assert.False(t, res.Preview)
	})

	t.Run("GET /api/posts/{slug}", func(t *testing.T) {
		w := serve(router, httptest.NewRequest("GET", "/api/posts/hello-api", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, "Hello API", post.Title)
		assert.Equal(t, "2024-02-01", post.DateString())
	})

	t.Run("GET /api/posts/{slug} unknown", func(t *testing.T) {
		w := serve(router, httptest.NewRequest("GET", "/api/posts/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Post not found"}`, w.Body.String())
	})

	t.Run("GET /api/debug", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/debug", nil)
		req.Header.Set("Cookie", "theme=dark")
		w := serve(router, req)

		require.Equal(t, http.StatusOK, w.Code)
		var report services.DebugReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "set", report.Environment.Variables["CONTENTFUL_SPACE_ID"])
		assert.Equal(t, "set", report.Environment.Variables["CONTENTFUL_PREVIEW_ACCESS_TOKEN"])
		assert.Equal(t, []string{"theme"}, report.Environment.Cookies)
		assert.NotContains(t, w.Body.String(), "dark")
		assert.NotContains(t, w.Body.String(), "delivery-token")
		assert.NotContains(t, w.Body.String(), testPreviewSecret)
	})

	t.Run("GET /api/admin/check", func(t *testing.T) {
		w := serve(router, httptest.NewRequest("GET", "/api/admin/check", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var check models.ConnectivityCheck
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
		assert.True(t, check.Healthy())
		require.Len(t, check.Probes, 2)
		assert.Equal(t, 1, check.Probes[0].Entries)

		page := serve(router, httptest.NewRequest("GET", "/admin", nil))
		assert.Contains(t, page.Body.String(), "<td>delivery</td>")
		assert.Contains(t, page.Body.String(), "<td>preview</td>")
	})
}

func TestPreviewFlow(t *testing.T) {
	fake := newFakeContentful(t)
	fake.addPost("e1", "draft-post", "Draft Post", "2024-02-01")
	router := setupTestRouter(t, setupTestDB(t), testConfig(fake))

	t.Run("wrong secret is rejected", func(t *testing.T) {
		w := serve(router, httptest.NewRequest("GET", "/api/preview?secret=guess", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Result().Cookies())
	})

	w := serve(router, httptest.NewRequest("GET", "/api/preview?secret="+testPreviewSecret+"&path=/blog/draft-post", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/blog/draft-post", w.Header().Get("Location"))
	assert.Equal(t, "enabled", w.Header().Get("X-Preview-Mode"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.PreviewCookieName, cookie.Name)
	assert.Equal(t, 3600, cookie.MaxAge)

	t.Run("preview requests use the preview api", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/posts", nil)
		req.AddCookie(cookie)
		res := decodePosts(t, serve(router, req))

		assert.True(t, res.Preview)
		assert.Equal(t, "preview-token", fake.lastToken())
	})

	t.Run("debug reports the session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/debug", nil)
		req.AddCookie(cookie)
		var report services.DebugReport
		require.NoError(t, json.Unmarshal(serve(router, req).Body.Bytes(), &report))
		assert.Equal(t, "enabled", report.Environment.PreviewMode)
	})

	t.Run("clear disables preview", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/preview/clear", nil)
		req.AddCookie(cookie)
		w := serve(router, req)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		req = httptest.NewRequest("GET", "/api/posts", nil)
		req.AddCookie(cookie)
		res := decodePosts(t, serve(router, req))
		assert.False(t, res.Preview)
		assert.Equal(t, "delivery-token", fake.lastToken())
	})
}

func TestPreviewDisabledWithoutSecret(t *testing.T) {
	cfg := testConfig(nil)
	cfg.Preview.Secret = ""
	router := setupTestRouter(t, setupTestDB(t), cfg)

	w := serve(router, httptest.NewRequest("GET", "/api/preview?secret=", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var report services.DebugReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Contains(t, report.Note, "preview secret is configured")
}

func TestProcessWidePreview(t *testing.T) {
	fake := newFakeContentful(t)
	fake.addPost("e1", "draft-post", "Draft Post", "2024-02-01")
	cfg := testConfig(fake)
	cfg.Preview.Enabled = true
	router := setupTestRouter(t, setupTestDB(t), cfg)

	res := decodePosts(t, serve(router, httptest.NewRequest("GET", "/api/posts", nil)))
	assert.True(t, res.Preview)
	assert.Equal(t, "preview-token", fake.lastToken())
}
