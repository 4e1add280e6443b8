package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ikit-news/internal/model"
)

var (
	// ErrInvalidCredentials is returned when an Authenticator rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator verifies credentials and creates accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	Enroll(ctx context.Context, username, email, password string) (model.User, error)
}

// MockAuthenticator accepts any credentials. There is no account database:
// every login yields the built-in administrator and every registration
// yields a fresh plain user.
type MockAuthenticator struct {
	// Now is the clock used to mint registration ids. Defaults to time.Now.
	Now func() time.Time
}

// AdminUsername is the display name every mock login receives.
const AdminUsername = "Администратор"

func (m MockAuthenticator) Authenticate(_ context.Context, email, _ string) (model.User, error) {
	return model.User{
		ID:       "1",
		Username: AdminUsername,
		Email:    email,
		Role:     model.RoleAdmin,
	}, nil
}

func (m MockAuthenticator) Enroll(_ context.Context, username, email, _ string) (model.User, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return model.User{
		ID:       strconv.FormatInt(now().UnixMilli(), 10),
		Username: username,
		Email:    email,
		Role:     model.RoleUser,
	}, nil
}
