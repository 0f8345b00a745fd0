package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"folio/app/logging"
)

// PreviewCookieName is the name of the signed preview-mode cookie.
const PreviewCookieName = "preview-mode"

const sessionIDKey = "session_id"

type contextKey int

const (
	previewKey contextKey = iota
	previewSessionKey
)

// SessionChecker reports whether a preview session is still live.
type SessionChecker interface {
	IsActive(id string) bool
}

// PreviewCookies reads and writes the signed preview-mode cookie.
type PreviewCookies struct {
	store *sessions.CookieStore
}

// NewPreviewCookies creates a cookie store signed with secret. An empty secret
// gets a random key, so cookies do not survive a restart.
func NewPreviewCookies(secret string, secure bool, ttl time.Duration) *PreviewCookies {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return &PreviewCookies{store: store}
}

// SessionID returns the preview session id carried by r, if any.
func (p *PreviewCookies) SessionID(r *http.Request) string {
	session, err := p.store.Get(r, PreviewCookieName)
	if err != nil {
		return ""
	}
	id, _ := session.Values[sessionIDKey].(string)
	return id
}

// Save writes a cookie naming the session id.
func (p *PreviewCookies) Save(w http.ResponseWriter, r *http.Request, id string) error {
	session, _ := p.store.Get(r, PreviewCookieName)
	session.Values[sessionIDKey] = id
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save preview cookie: %w", err)
	}
	return nil
}

// Clear expires the cookie.
func (p *PreviewCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := p.store.Get(r, PreviewCookieName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear preview cookie: %w", err)
	}
	return nil
}

// Preview marks requests that carry a live preview session.
func Preview(cookies *PreviewCookies, checker SessionChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookies.SessionID(r)
			if id != "" && checker != nil && checker.IsActive(id) {
				logger.Debug("Preview session active", zap.String("session_id", id))
				ctx := context.WithValue(r.Context(), previewKey, true)
				ctx = context.WithValue(ctx, previewSessionKey, id)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PreviewFromContext reports whether the request runs in preview mode.
func PreviewFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(previewKey).(bool)
	return v
}

// PreviewSessionFromContext returns the live preview session id, if any.
func PreviewSessionFromContext(ctx context.Context) string {
	v, _ := ctx.Value(previewSessionKey).(string)
	return v
}
