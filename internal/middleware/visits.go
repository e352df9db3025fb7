package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/miguelgnzalez28/ultimate-kits/internal/auth"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/repository"
)

// sessionCookieMaxAge keeps anonymous session identity stable for 30 days.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// insertTimeout bounds the fire-and-forget visit write. Detached from the
// request context on purpose: the response must not wait for, or fail on,
// tracking.
const insertTimeout = 5 * time.Second

// VisitTracker records page views.
//
// Only GET requests outside the /api namespace qualify. Each qualifying
// request yields exactly one Visit: the session_id cookie identifies the
// visitor (generated and set once, then reused), and a bearer token, when
// present and decodable, attributes the visit to a user. Token decode
// failures are ignored, attribution is best-effort.
type VisitTracker struct {
	visits repository.VisitRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewVisitTracker(visits repository.VisitRepository, tokens *auth.TokenService, logger *slog.Logger) *VisitTracker {
	return &VisitTracker{visits: visits, tokens: tokens, logger: logger}
}

// Middleware wraps a handler with visit tracking. With a nil repository
// (degraded mode, store down at boot) it is a pass-through.
func (t *VisitTracker) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t.visits == nil || r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, "/api") {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := t.sessionID(w, r)

			// Best-effort user attribution from the bearer token.
			var userID string
			if tokenStr := auth.BearerToken(r); tokenStr != "" {
				userID = t.tokens.SubjectOf(tokenStr)
			}

			visit := &model.Visit{
				ID:        xid.New().String(),
				SessionID: sessionID,
				Page:      r.URL.Path,
				Timestamp: time.Now().UTC(),
				UserID:    userID,
			}

			// Fire and forget: the write runs on its own goroutine with a
			// detached context so it survives the response being sent and
			// its failure never reaches the client.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
				defer cancel()
				if err := t.visits.Insert(ctx, visit); err != nil {
					t.logger.Warn("visit tracking failed",
						slog.String("page", visit.Page),
						slog.String("error", err.Error()),
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// sessionID returns the visitor's session id, setting the cookie on first
// contact. A client that already carries the cookie never gets a new one.
func (t *VisitTracker) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie("session_id"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
