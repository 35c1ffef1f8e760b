package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
)

// respondWithError logs err against the request logger and sends userMsg.
// The raw error never reaches the player.
func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg(logMsg)
	}

	http.Error(w, userMsg, status)
}
