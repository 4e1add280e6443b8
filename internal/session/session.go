package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ikit-news/internal/model"
	"ikit-news/internal/store"

	"go.uber.org/zap"
)

// State is the authentication state of a session.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Manager loads sessions and owns their durable mirror.
type Manager struct {
	store  store.Store
	auth   Authenticator
	logger *zap.Logger
}

// NewManager wires a Manager to its store and authenticator.
func NewManager(st store.Store, auth Authenticator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: st, auth: auth, logger: logger}
}

// Key returns the store key mirroring the user of session sid.
func Key(sid string) string {
	return "user:" + sid
}

// Load restores the session identified by sid. A missing or unreadable
// mirror yields an anonymous session.
func (m *Manager) Load(ctx context.Context, sid string) *Session {
	s := &Session{ID: sid, m: m}
	logger := m.logger.With(zap.String("sid", sid))

	data, err := m.store.Get(ctx, Key(sid))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("Failed to load session", zap.Error(err))
		}
		return s
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		logger.Warn("Discarding unparsable session", zap.Error(err))
		return s
	}
	s.user = &u
	return s
}

// Session is the per-request view of one browser's authenticated user.
// Every mutation writes through to the manager's store.
type Session struct {
	ID   string
	user *model.User
	m    *Manager
}

// User returns a copy of the current user.
func (s *Session) User() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// State reports whether a user is signed in.
func (s *Session) State() State {
	if s.user == nil {
		return Anonymous
	}
	return Authenticated
}

// Can reports whether the current user may perform action.
// Anonymous sessions may do nothing gated.
func (s *Session) Can(action model.Action) bool {
	if s.user == nil {
		return false
	}
	return model.CanPerform(s.user.Role, action)
}

// Login authenticates and replaces the current user.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.m.auth.Authenticate(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.persist(ctx, &u); err != nil {
		return model.User{}, err
	}
	s.m.logger.Info("User logged in", zap.String("sid", s.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Register enrolls a new account and signs it in.
func (s *Session) Register(ctx context.Context, username, email, password string) (model.User, error) {
	u, err := s.m.auth.Enroll(ctx, username, email, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.persist(ctx, &u); err != nil {
		return model.User{}, err
	}
	s.m.logger.Info("User registered", zap.String("sid", s.ID), zap.String("user_id", u.ID))
	return u, nil
}

// Logout removes the durable copy and then clears the user. On failure
// the session stays signed in.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.m.store.Delete(ctx, Key(s.ID)); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	s.user = nil
	return nil
}

// UpdateUser merges patch into the current user. It returns false without
// touching the store when nobody is signed in.
func (s *Session) UpdateUser(ctx context.Context, patch model.UserPatch) (bool, error) {
	if s.user == nil {
		return false, nil
	}
	updated := *s.user
	patch.Apply(&updated)
	if err := s.persist(ctx, &updated); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) persist(ctx context.Context, u *model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.m.store.Set(ctx, Key(s.ID), data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.user = u
	return nil
}
