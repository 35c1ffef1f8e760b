package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"guessgame/internal/security"
	"guessgame/internal/service"
)

// Input applies one transition for the screen named in ?id= and either
// redirects to the next screen or, after a win is recorded, renders it.
func (h *ScreenHandler) Input(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	ctx := r.Context()
	languages := h.catalog.Languages()

	t := Route(r.URL.Query().Get("id"), r.PostFormValue(InputFieldName), len(languages))

	switch t.Action {
	case ActionIncrementGuess:
		game, err := h.resolveGame(r, session)
		if errors.Is(err, service.ErrGameNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to resolve game", err)
			return
		}
		if err := h.games.IncrementGuess(ctx, game); err != nil {
			if errors.Is(err, service.ErrGameNotFound) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to count guess", err)
			return
		}
		h.metrics.GuessCounted()

	case ActionToggleHardMode:
		if err := h.sessions.ToggleHardMode(ctx, session); err != nil {
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to toggle difficulty", err)
			return
		}

	case ActionSetRange:
		if err := h.sessions.SetRange(ctx, session, t.Range); err != nil {
			if errors.Is(err, service.ErrInvalidRange) {
				http.Redirect(w, r, "/settings?id=range", http.StatusTemporaryRedirect)
				return
			}
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to set range", err)
			return
		}

	case ActionSetLanguage:
		if err := h.sessions.SetLanguage(ctx, session, languages[t.LanguageIndex].Code); err != nil {
			if errors.Is(err, service.ErrInvalidLanguage) {
				http.Redirect(w, r, "/settings?id=lang", http.StatusTemporaryRedirect)
				return
			}
			respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to set language", err)
			return
		}

	case ActionRecordResult:
		h.recordResult(w, r, t.Input)
		return
	}

	http.Redirect(w, r, t.Target, t.Status)
}

// recordResult stores the winner's name and shows the rank message with the
// play-again prompt
func (h *ScreenHandler) recordResult(w http.ResponseWriter, r *http.Request, playerName string) {
	session := GetSessionFromContext(r.Context())
	ctx := r.Context()

	game, err := h.resolveGame(r, session)
	if errors.Is(err, service.ErrGameNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to resolve game", err)
		return
	}

	result, err := h.ledger.Record(ctx, game, playerName)
	if errors.Is(err, service.ErrGameNotWon) || errors.Is(err, service.ErrGameNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to record result", err)
		return
	}
	h.metrics.ResultRecorded()

	rank, err := h.ledger.RankOf(ctx, game.ID)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to compute rank", err)
		return
	}
	zerolog.Ctx(ctx).Info().
		Int64("game_id", game.ID).
		Str("player", result.PlayerName).
		Int("guesses", result.GuessCount).
		Int("rank", rank).
		Msg("Result recorded")

	http.SetCookie(w, security.CreateDeleteCookie(r, GameCookieName))

	var lines []string
	if key := service.RankMessage(rank); key != "" {
		lines = append(lines, h.text(session, key))
	}
	h.render(w, r, h.screen(session, ScreenPlayAgain, h.text(session, "game.playagain"), lines...))
}
