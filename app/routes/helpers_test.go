package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/config"
)

const testPreviewSecret = "let-me-in"

// fakeContentful serves a fixed set of blog post entries.
type fakeContentful struct {
	server   *httptest.Server
	entries  []map[string]any
	requests atomic.Int32
	fail     atomic.Bool

	mu     sync.Mutex
	tokens []string
}

func newFakeContentful(t *testing.T) *fakeContentful {
	t.Helper()
	f := &fakeContentful{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeContentful) addPost(id, slug, title, date string) {
	f.entries = append(f.entries, map[string]any{
		"sys": map[string]any{
			"id":          id,
			"type":        "Entry",
			"createdAt":   "2024-01-20T10:00:00Z",
			"updatedAt":   "2024-01-20T10:00:00Z",
			"publishedAt": "2024-01-20T10:00:00Z",
			"contentType": map[string]any{"sys": map[string]any{"id": "blogPost", "type": "Link", "linkType": "ContentType"}},
		},
		"fields": map[string]any{
			"title":         title,
			"slug":          slug,
			"excerpt":       "Excerpt of " + title,
			"publishedDate": date,
			"tags":          []string{"go", "cms"},
			"content": map[string]any{
				"nodeType": "document",
				"content": []any{
					map[string]any{
						"nodeType": "heading-2",
						"content":  []any{map[string]any{"nodeType": "text", "value": "Section", "marks": []any{}}},
					},
					map[string]any{
						"nodeType": "paragraph",
						"content": []any{
							map[string]any{"nodeType": "text", "value": "Written in ", "marks": []any{}},
							map[string]any{"nodeType": "text", "value": "Contentful", "marks": []any{map[string]any{"type": "bold"}}},
						},
					},
				},
			},
		},
	})
}

// lastToken returns the access token of the latest request.
func (f *fakeContentful) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		return ""
	}
	return f.tokens[len(f.tokens)-1]
}

func (f *fakeContentful) serve(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.mu.Lock()
	f.tokens = append(f.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	f.mu.Unlock()

	if f.fail.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"sys":     map[string]any{"type": "Error", "id": "ServiceUnavailable"},
			"message": "maintenance",
		})
		return
	}

	items := f.entries
	if slug := r.URL.Query().Get("fields.slug"); slug != "" {
		items = nil
		for _, e := range f.entries {
			if e["fields"].(map[string]any)["slug"] == slug {
				items = append(items, e)
			}
		}
	}
	if items == nil {
		items = []map[string]any{}
	}

	w.Header().Set("Content-Type", "application/vnd.contentful.delivery.v1+json")
	json.NewEncoder(w).Encode(map[string]any{
		"total": len(items),
		"skip":  0,
		"limit": 100,
		"items": items,
	})
}

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// testConfig points the CMS at fake when it is not nil.
func testConfig(fake *fakeContentful) *config.Config {
	cfg := config.Default()
	cfg.Preview.Secret = testPreviewSecret
	cfg.Preview.SessionSecret = "0123456789abcdef0123456789abcdef"
	if fake != nil {
		cfg.Contentful.SpaceID = "space"
		cfg.Contentful.AccessToken = "delivery-token"
		cfg.Contentful.PreviewAccessToken = "preview-token"
		cfg.Contentful.Host = fake.server.URL
		cfg.Contentful.PreviewHost = fake.server.URL
	}
	return cfg
}

func setupTestRouter(t *testing.T, db *badger.DB, cfg *config.Config) *mux.Router {
	t.Helper()
	logger := zap.NewNop()
	clients := cms.NewClients(cfg.Contentful, logger)
	deps, err := NewDependencies(cfg, clients, db, logger)
	require.NoError(t, err)
	return SetupRoutes(deps)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
