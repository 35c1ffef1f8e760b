package handlers

const (
	SessionCookieName = "session"
	GameCookieName    = "game"

	// InputFieldName is the single text field every screen submits
	InputFieldName = "user-input"

	ErrInternalServerError = "Internal server error"
	ErrServiceUnavailable  = "Service unavailable"

	dateFormat = "02.01.2006"
)
