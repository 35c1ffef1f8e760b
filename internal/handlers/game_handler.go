package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"guessgame/internal/models"
	"guessgame/internal/security"
	"guessgame/internal/service"
)

// StartGame begins a new round and hands its token to the client
func (h *ScreenHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	game, err := h.games.Start(r.Context(), session)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to start game", err)
		return
	}
	h.metrics.GameStarted()

	http.SetCookie(w, security.CreateTokenCookie(r, GameCookieName, game.Token, game.ExpiresAt))

	h.render(w, r, h.screen(session, ScreenGame,
		h.text(session, "game.label", game.RangeMax),
		h.text(session, "game.guesses", game.GuessCount, game.MaxGuesses),
	))
}

// resolveGame returns the round named by the game cookie, provided it
// belongs to the current session
func (h *ScreenHandler) resolveGame(r *http.Request, session *models.Session) (*models.Game, error) {
	var token string
	if cookie, err := r.Cookie(GameCookieName); err == nil {
		token = cookie.Value
	}

	game, err := h.games.Resolve(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if game.SessionID != session.ID {
		return nil, service.ErrGameNotFound
	}
	return game, nil
}

// SubmitGuess evaluates the guess replayed from /input and shows the result
func (h *ScreenHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	game, err := h.resolveGame(r, session)
	if errors.Is(err, service.ErrGameNotFound) {
		http.SetCookie(w, security.CreateDeleteCookie(r, GameCookieName))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to resolve game", err)
		return
	}

	outcome, err := h.games.SubmitGuess(r.Context(), game, r.PostFormValue(InputFieldName))
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to submit guess", err)
		return
	}
	if !outcome.Repeated {
		h.metrics.GuessEvaluated(outcome.Kind.String())
	}
	zerolog.Ctx(r.Context()).Debug().
		Int64("game_id", game.ID).
		Stringer("outcome", outcome.Kind).
		Bool("repeated", outcome.Repeated).
		Int("guess_count", outcome.GuessCount).
		Msg("Guess evaluated")

	switch outcome.Kind {
	case models.OutcomeWon:
		h.render(w, r, h.screen(session, ScreenWinner,
			h.text(session, "game.name"),
			h.text(session, "game.success"),
		))

	case models.OutcomeExhausted:
		http.SetCookie(w, security.CreateDeleteCookie(r, GameCookieName))
		h.render(w, r, h.screen(session, ScreenPlayAgain,
			h.text(session, "game.playagain"),
			h.text(session, "game.fail", outcome.Secret),
		))

	default:
		lines := []string{h.text(session, "game.guesses", outcome.GuessCount, outcome.MaxGuesses), ""}
		switch outcome.Hint {
		case models.HintHigher:
			lines = append(lines, h.text(session, "game.hint.higher"))
		case models.HintLower:
			lines = append(lines, h.text(session, "game.hint.lower"))
		}
		h.render(w, r, h.screen(session, ScreenGame, h.text(session, "game.label", game.RangeMax), lines...))
	}
}
