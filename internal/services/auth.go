package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/harari-inventory/apiserver/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPasswordMismatch   = errors.New("current password does not match")
)

// CredentialRepository defines persistence operations for credentials.
type CredentialRepository interface {
	VerifyLogin(ctx context.Context, name, password string) (types.Credential, error)
	FindByToken(ctx context.Context, token string) (types.Credential, error)
	UpdateToken(ctx context.Context, row int, token string) error
	UpdateLastLogin(ctx context.Context, row int, at time.Time) error
	UpdatePassword(ctx context.Context, row int, password string) error
	UpdatePasswordChanged(ctx context.Context, row int, value string) error
}

// LoginResult carries the issued session token and the logged-in user.
type LoginResult struct {
	Token string
	User  types.Credential
}

// AuthService encapsulates login and password rotation.
type AuthService struct {
	repo     CredentialRepository
	now      func() time.Time
	newToken func() (string, error)
}

func NewAuthService(repo CredentialRepository) *AuthService {
	return &AuthService{
		repo:     repo,
		now:      time.Now,
		newToken: store.IssueToken,
	}
}

// Login checks the name/password pair, then stores a fresh token and the
// login time on the user's row.
func (s *AuthService) Login(ctx context.Context, name, password string) (LoginResult, error) {
	cred, err := s.repo.VerifyLogin(ctx, name, password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("verify login: %w", err)
	}

	token, err := s.newToken()
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.repo.UpdateToken(ctx, cred.Row, token); err != nil {
		return LoginResult{}, fmt.Errorf("store token: %w", err)
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, cred.Row, now); err != nil {
		return LoginResult{}, fmt.Errorf("store last login: %w", err)
	}

	cred.Token = token
	cred.LastLogin = store.FormatLoginTime(now)
	return LoginResult{Token: token, User: cred}, nil
}

// Verify resolves a session token to its user.
func (s *AuthService) Verify(ctx context.Context, token string) (types.Credential, error) {
	cred, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Credential{}, ErrInvalidToken
		}
		return types.Credential{}, fmt.Errorf("find token: %w", err)
	}
	return cred, nil
}

// ChangePassword replaces the password of the token's owner and marks the
// rotation as done.
func (s *AuthService) ChangePassword(ctx context.Context, token, current, next string) error {
	cred, err := s.Verify(ctx, token)
	if err != nil {
		return err
	}
	if cred.Password != current {
		return ErrPasswordMismatch
	}

	if err := s.repo.UpdatePassword(ctx, cred.Row, next); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	if err := s.repo.UpdatePasswordChanged(ctx, cred.Row, types.PasswordChanged); err != nil {
		return fmt.Errorf("store password flag: %w", err)
	}
	return nil
}
