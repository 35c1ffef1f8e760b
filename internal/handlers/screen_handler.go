package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"guessgame/internal/i18n"
	"guessgame/internal/metrics"
	"guessgame/internal/models"
	"guessgame/internal/render"
	"guessgame/internal/security"
	"guessgame/internal/service"
)

// ScreenHandler serves every screen of the game. It keeps no per-player state;
// everything is read back from storage through the services on each request.
type ScreenHandler struct {
	sessions *service.SessionService
	games    *service.GameService
	ledger   *service.LedgerService
	catalog  *i18n.Catalog
	renderer *render.Renderer
	csrf     *security.CSRFGenerator
	metrics  *metrics.Metrics
}

// NewScreenHandler creates a new screen handler. m may be nil.
func NewScreenHandler(
	sessions *service.SessionService,
	games *service.GameService,
	ledger *service.LedgerService,
	catalog *i18n.Catalog,
	renderer *render.Renderer,
	csrf *security.CSRFGenerator,
	m *metrics.Metrics,
) *ScreenHandler {
	return &ScreenHandler{
		sessions: sessions,
		games:    games,
		ledger:   ledger,
		catalog:  catalog,
		renderer: renderer,
		csrf:     csrf,
		metrics:  m,
	}
}

// screen starts a page description in the session's language with its form token
func (h *ScreenHandler) screen(session *models.Session, inputID, label string, lines ...string) render.Screen {
	return render.Screen{
		Lang:      session.Language,
		Lines:     lines,
		InputID:   inputID,
		Label:     label,
		CSRFToken: h.csrf.Token(session.Token),
	}
}

func (h *ScreenHandler) text(session *models.Session, key string, args ...any) string {
	return h.catalog.Text(session.Language, key, args...)
}

func (h *ScreenHandler) render(w http.ResponseWriter, r *http.Request, s render.Screen) {
	if err := h.renderer.Render(w, http.StatusOK, s); err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to render screen", err)
	}
}

// Index shows the main menu. It is the only route that issues a session when
// the cookie is missing or stale, and it extends the session's validity.
func (h *ScreenHandler) Index(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		token = cookie.Value
	}

	session, created, err := h.sessions.ResolveOrCreate(r.Context(), token)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to resolve session", err)
		return
	}
	if created {
		h.metrics.SessionCreated()
		zerolog.Ctx(r.Context()).Debug().Int64("session_id", session.ID).Msg("Issued new session")
	} else if err := h.sessions.Touch(r.Context(), session); err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to refresh session", err)
		return
	}

	http.SetCookie(w, security.CreateTokenCookie(r, SessionCookieName, session.Token, session.ExpiresAt))

	s := h.screen(session, ScreenIndex, h.text(session, "hello.label"))
	s.Lines = h.catalog.Lines(session.Language, "hello.text")
	h.render(w, r, s)
}
