package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memUserRepo is an in-memory UserRepository for tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*UserRecord
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*UserRecord)}
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Create(_ context.Context, username, passwordHash string) (*UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return nil, ErrUsernameTaken
	}
	u := &UserRecord{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.users[username] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func newTestAuthService() (*AuthService, *memUserRepo, *TokenService) {
	repo := newMemUserRepo()
	tokens := newTestTokenService()
	return NewAuthService(repo, tokens), repo, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.False(t, user.CreatedAt.IsZero())

	pair, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob", "anything")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.Equal(t, 1, repo.count())
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "   ", "pw")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "alice", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDoesNotStorePlaintext(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	rec, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", rec.PasswordHash)
	require.NotEmpty(t, rec.PasswordHash)
}

func TestRefreshExchange(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := tokens.Verify(access, TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)

	// The refresh token is not rotated: a second exchange still works.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Refresh(context.Background(), "definitely-not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestLoginFailsClosedWithoutSecret(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, NewTokenService(nil, time.Hour, time.Hour))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "pw1")
	require.ErrorIs(t, err, ErrSecretUnavailable)
}
