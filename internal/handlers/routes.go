package handlers

import (
	"net/http"

	"guessgame/internal/metrics"
	"guessgame/internal/render"
)

// NewRouter registers every route on a ServeMux and wraps it with the
// logging middleware. m may be nil, in which case /metrics is not served.
func NewRouter(h *ScreenHandler, mw *Middleware, db Pinger, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(render.Static())))

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /game", mw.RequireSession(h.StartGame))
	mux.HandleFunc("POST /game", mw.RequireSession(mw.RequireCSRF(h.SubmitGuess)))
	mux.HandleFunc("GET /highscores", mw.RequireSession(h.Highscores))
	mux.HandleFunc("GET /settings", mw.RequireSession(h.Settings))
	mux.HandleFunc("POST /settings", mw.RequireSession(mw.RequireCSRF(h.SettingsPrompt)))
	mux.HandleFunc("POST /input", mw.RequireSession(mw.RequireCSRF(h.Input)))

	mux.HandleFunc("GET /healthz", Health(db))
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return Logging(m)(mux)
}
