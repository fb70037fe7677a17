package core

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSecretStore(t *testing.T) *RedisSecretStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSecretStore(client)
}

func TestSecretStoreRoundTrip(t *testing.T) {
	store := newTestSecretStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, SecretStoreKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, SecretStoreKey, "s3cret"))

	val, ok, err := store.Get(ctx, SecretStoreKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "s3cret", val)
}

func TestProvisionSigningSecretOperatorValueWins(t *testing.T) {
	store := newTestSecretStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, SecretStoreKey, "old"))
	require.NoError(t, ProvisionSigningSecret(ctx, store, Config{JWTSecret: "operator-supplied"}))

	secret, err := LoadSigningSecret(ctx, store)
	require.NoError(t, err)
	require.Equal(t, []byte("operator-supplied"), secret)
}

func TestProvisionSigningSecretReusesStored(t *testing.T) {
	store := newTestSecretStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, SecretStoreKey, "already-there"))
	require.NoError(t, ProvisionSigningSecret(ctx, store, Config{}))

	secret, err := LoadSigningSecret(ctx, store)
	require.NoError(t, err)
	require.Equal(t, []byte("already-there"), secret)
}

func TestProvisionSigningSecretGeneratesWhenAbsent(t *testing.T) {
	store := newTestSecretStore(t)
	ctx := context.Background()

	require.NoError(t, ProvisionSigningSecret(ctx, store, Config{}))

	secret, err := LoadSigningSecret(ctx, store)
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	// Provisioning again keeps the generated value stable.
	require.NoError(t, ProvisionSigningSecret(ctx, store, Config{}))
	again, err := LoadSigningSecret(ctx, store)
	require.NoError(t, err)
	require.Equal(t, secret, again)
}

func TestLoadSigningSecretFailsClosed(t *testing.T) {
	store := newTestSecretStore(t)

	_, err := LoadSigningSecret(context.Background(), store)
	require.ErrorIs(t, err, ErrSecretUnavailable)
}
