package handlers

import (
	"net/http"
	"strconv"
)

// Highscores shows the top ten, or an explicit empty state
func (h *ScreenHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	top, err := h.ledger.TopTen(r.Context())
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Failed to load highscores", err)
		return
	}

	label := h.text(session, "highscores.label")
	if len(top) == 0 {
		h.render(w, r, h.screen(session, ScreenNoHighscores, label, h.text(session, "highscores.empty")))
		return
	}

	s := h.screen(session, ScreenHighscores, label)
	s.Table = append(s.Table, []string{
		h.text(session, "highscores.player"),
		h.text(session, "highscores.date"),
		h.text(session, "highscores.guess"),
		h.text(session, "highscores.mode"),
	})
	for _, res := range top {
		s.Table = append(s.Table, []string{
			res.PlayerName,
			res.Timestamp.Format(dateFormat),
			strconv.Itoa(res.GuessCount),
			res.Mode(),
		})
	}
	h.render(w, r, s)
}
