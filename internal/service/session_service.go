package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"

	"guessgame/internal/models"
	"guessgame/internal/repository"
	"guessgame/internal/security"
)

// SessionService resolves, creates and mutates player sessions
type SessionService struct {
	repo     *repository.SessionRepository
	defaults models.SessionDefaults
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a session service. defaults is copied and never
// changes for the lifetime of the service.
func NewSessionService(repo *repository.SessionRepository, defaults models.SessionDefaults, ttl time.Duration) *SessionService {
	return &SessionService{
		repo:     repo,
		defaults: defaults,
		ttl:      ttl,
		now:      utcNow,
	}
}

// Resolve looks a session up by its raw token. An empty, unknown or expired
// token is ErrSessionNotFound; storage failures are returned wrapped.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.repo.GetByTokenHash(ctx, security.HashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session.IsExpiredAt(s.now()) {
		return nil, ErrSessionNotFound
	}

	session.Token = token
	return session, nil
}

// Create allocates a fresh token and persists a session with the default settings
func (s *SessionService) Create(ctx context.Context) (*models.Session, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		RangeMax:  s.defaults.RangeMax,
		HardMode:  s.defaults.HardMode,
		Language:  s.defaults.Language,
		ExpiresAt: security.ExpiresAt(now, s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, security.HashToken(token), session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveOrCreate resolves token and falls back to a new session only when the
// token is not found. The bool reports whether a session was created.
func (s *SessionService) ResolveOrCreate(ctx context.Context, token string) (*models.Session, bool, error) {
	session, err := s.Resolve(ctx, token)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, false, err
	}

	session, err = s.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Update persists range_max, hard_mode, language and expires_at
func (s *SessionService) Update(ctx context.Context, session *models.Session) error {
	err := s.repo.Update(ctx, session)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// Touch extends the validity window of the session from now
func (s *SessionService) Touch(ctx context.Context, session *models.Session) error {
	session.ExpiresAt = security.ExpiresAt(s.now(), s.ttl)
	return s.Update(ctx, session)
}

// ToggleHardMode flips the difficulty for future rounds
func (s *SessionService) ToggleHardMode(ctx context.Context, session *models.Session) error {
	session.HardMode = !session.HardMode
	if err := s.Update(ctx, session); err != nil {
		session.HardMode = !session.HardMode
		return err
	}
	return nil
}

// SetRange changes the upper bound of the secret number for future rounds
func (s *SessionService) SetRange(ctx context.Context, session *models.Session, rangeMax int) error {
	if rangeMax < 1 || rangeMax > math.MaxInt32 {
		return ErrInvalidRange
	}
	prev := session.RangeMax
	session.RangeMax = rangeMax
	if err := s.Update(ctx, session); err != nil {
		session.RangeMax = prev
		return err
	}
	return nil
}

// SetLanguage changes the display language. code must be a valid BCP 47 tag.
func (s *SessionService) SetLanguage(ctx context.Context, session *models.Session, code string) error {
	tag, err := language.Parse(code)
	if err != nil || code == "" {
		return ErrInvalidLanguage
	}
	prev := session.Language
	session.Language = tag.String()
	if err := s.Update(ctx, session); err != nil {
		session.Language = prev
		return err
	}
	return nil
}
