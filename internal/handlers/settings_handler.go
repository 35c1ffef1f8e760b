package handlers

import (
	"fmt"
	"net/http"
)

// Settings shows the settings menu with the current range and difficulty
func (h *ScreenHandler) Settings(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	difficulty := "EASY"
	if session.HardMode {
		difficulty = "HARD"
	}

	s := h.screen(session, ScreenSettings, h.text(session, "settings.label"))
	s.Lines = append(s.Lines, h.catalog.Lines(session.Language, "settings.choices")...)
	s.Lines = append(s.Lines, "",
		h.text(session, "settings.range", session.RangeMax),
		h.text(session, "settings.diff", difficulty),
	)
	h.render(w, r, s)
}

// SettingsPrompt shows the range or language prompt; it is reached by a
// replayed POST from the settings menu or from a rejected answer
func (h *ScreenHandler) SettingsPrompt(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	switch r.URL.Query().Get("id") {
	case "range":
		h.render(w, r, h.screen(session, ScreenSettingsRange, h.text(session, "settings.ranges")))
	case "lang":
		s := h.screen(session, ScreenSettingsLang, h.text(session, "settings.lang"))
		for i, lang := range h.catalog.Languages() {
			s.Lines = append(s.Lines, fmt.Sprintf("%c) %s", 'A'+i, lang.Name))
		}
		h.render(w, r, s)
	default:
		http.Redirect(w, r, "/settings", http.StatusFound)
	}
}
