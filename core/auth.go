package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	// It deliberately does not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is returned when a register/login request is structurally invalid.
	ErrValidation = errors.New("invalid request")
)

// User is the identity returned to clients after registration. It carries no
// credential material.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the transient artifact handed to a client on login. Nothing is
// kept server-side; validity is entirely signature plus expiry.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService orchestrates register/login/refresh over the credential store
// and the token service. It holds no per-call state.
type AuthService struct {
	users  UserRepository
	tokens *TokenService
}

func NewAuthService(users UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user with a bcrypt-hashed credential. It never
// issues tokens. A duplicate username fails with ErrUsernameTaken without
// mutating the store.
func (s *AuthService) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	rec, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	return &User{ID: rec.ID, Username: rec.Username, CreatedAt: rec.CreatedAt}, nil
}

// Login verifies the presented password against the stored bcrypt hash and,
// on match, issues an access/refresh token pair for the username. Unknown
// user and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccess(u.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(u.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. Access
// tokens are rejected here; the refresh token itself stays valid until its
// own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(claims.Subject)
}
