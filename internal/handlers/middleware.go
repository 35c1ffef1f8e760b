package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"guessgame/internal/metrics"
	"guessgame/internal/models"
	"guessgame/internal/security"
	"guessgame/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	SessionContextKey   ContextKey = "session"
	RequestIDContextKey ContextKey = "request_id"
)

// RequestIDHeader carries the request id back to the client
const RequestIDHeader = "X-Request-ID"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions *service.SessionService
	csrf     *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessions *service.SessionService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		sessions: sessions,
		csrf:     csrf,
	}
}

// RequireSession resolves the session cookie and extends its validity.
// Without a usable session the player is sent to / where a new one is issued.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		}

		session, err := m.sessions.Resolve(r.Context(), token)
		if errors.Is(err, service.ErrSessionNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to resolve session", err)
			return
		}
		if err := m.sessions.Touch(r.Context(), session); err != nil {
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to refresh session", err)
			return
		}
		http.SetCookie(w, security.CreateTokenCookie(r, SessionCookieName, session.Token, session.ExpiresAt))

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// RequireCSRF rejects form posts whose csrf_token was not minted for the
// current session. Must run inside RequireSession.
func (m *Middleware) RequireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil || !m.csrf.Valid(session.Token, r.PostFormValue(security.CSRFFieldName)) {
			zerolog.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Rejected form post with invalid CSRF token")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging middleware tags each request with an id, logs it with zerolog and
// records it in metrics (which may be nil).
func Logging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			logger := log.With().Str("request_id", requestID).Logger()
			ctx := logger.WithContext(r.Context())
			ctx = context.WithValue(ctx, RequestIDContextKey, requestID)
			req := r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, req)

			route := req.Pattern
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			m.ObserveRequest(route, r.Method, rec.status, elapsed)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// GetRequestID returns the id Logging attached to the request, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
