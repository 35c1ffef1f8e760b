package service

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotWon      = errors.New("game has not been won")
	ErrInvalidRange    = errors.New("range must be a positive number")
	ErrInvalidLanguage = errors.New("unsupported language")
)

func utcNow() time.Time {
	return time.Now().UTC()
}
