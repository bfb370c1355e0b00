package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2exd/suit-streak-server/internal/dependencies/clock"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/storage"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Session is a bearer-token session tying a client to its identity.
// The identity itself (and its login state) lives in storage; the
// session only proves which user id a request speaks for.
type Session struct {
	Token     string
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service is the identity store: it owns user identities and the
// sessions that reference them.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the identity service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new identity Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Create generates a fresh identity with a new permanent user id and
// an empty username (not logged in yet), and opens a session for it.
// This is the "first app load" path.
func (s *Service) Create(ctx context.Context) (*Session, *model.Identity, error) {
	now := s.clock.Now()

	identity := &model.Identity{
		UserID:    model.UserID(uuid.NewString()),
		Username:  "",
		LastLogin: now,
		CreatedAt: now,
	}

	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		return nil, nil, err
	}

	s.logger.Info("identity created", slog.String("user_id", string(identity.UserID)))

	session := s.createSession(identity.UserID)
	return session, identity, nil
}

// Resume opens a new session for an existing identity. The user id is
// the permanent identifier, so a client that kept it can come back
// after its previous session expired.
func (s *Service) Resume(ctx context.Context, userID model.UserID) (*Session, *model.Identity, error) {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	identity.LastLogin = s.clock.Now()
	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		return nil, nil, err
	}

	session := s.createSession(identity.UserID)
	return session, identity, nil
}

// Get returns the identity for a user id.
func (s *Service) Get(ctx context.Context, userID model.UserID) (*model.Identity, error) {
	return s.storage.GetIdentity(ctx, userID)
}

// SetUsername validates and stores a display name, logging the user in.
// The name is trimmed; it must be 2-10 runes long. On rejection nothing
// is mutated and model.ErrInvalidUsername is returned.
func (s *Service) SetUsername(ctx context.Context, userID model.UserID, name string) (*model.Identity, error) {
	trimmed, ok := model.ValidUsername(name)
	if !ok {
		return nil, model.ErrInvalidUsername
	}

	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	identity.Username = trimmed
	identity.LastLogin = s.clock.Now()
	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", string(userID)),
		slog.String("username", trimmed),
	)
	return identity, nil
}

// ClearUser logs the user out: username and avatar are reset while the
// user id is retained as the permanent identifier.
func (s *Service) ClearUser(ctx context.Context, userID model.UserID) error {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return err
	}

	identity.Username = ""
	identity.Avatar = ""
	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		return err
	}

	s.logger.Info("user logged out", slog.String("user_id", string(userID)))
	return nil
}

// IsLoggedIn reports whether the user currently has a username set.
func (s *Service) IsLoggedIn(ctx context.Context, userID model.UserID) (bool, error) {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return false, err
	}
	return identity.IsLoggedIn(), nil
}

// SetAvatar stores an avatar URL for the user.
func (s *Service) SetAvatar(ctx context.Context, userID model.UserID, url string) error {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return err
	}

	identity.Avatar = url
	return s.storage.SaveIdentity(ctx, identity)
}

// GenerateDefaultAvatar derives a placeholder avatar from the username's
// first rune and the user id, and stores it. No-op when not logged in.
func (s *Service) GenerateDefaultAvatar(ctx context.Context, userID model.UserID) error {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return err
	}
	if !identity.IsLoggedIn() {
		return nil
	}

	first := []rune(identity.Username)[0]
	identity.Avatar = fmt.Sprintf("https://picsum.photos/seed/%c%s/200", first, identity.UserID)
	return s.storage.SaveIdentity(ctx, identity)
}

// Touch updates the identity's last-login timestamp.
func (s *Service) Touch(ctx context.Context, userID model.UserID) error {
	identity, err := s.storage.GetIdentity(ctx, userID)
	if err != nil {
		return err
	}

	identity.LastLogin = s.clock.Now()
	return s.storage.SaveIdentity(ctx, identity)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// createSession registers a new session for a user id
func (s *Service) createSession(userID model.UserID) *Session {
	now := s.clock.Now()

	session := &Session{
		Token:     generateToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
