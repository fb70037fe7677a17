package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
)

// ProvisionSigningSecret ensures the signing secret exists in the store before
// the service accepts traffic. It is idempotent: an operator-supplied value
// (cfg.JWTSecret) always wins and is written through; otherwise a previously
// stored value is reused; otherwise a fresh random secret is generated and
// persisted so restarts keep verifying tokens issued earlier.
func ProvisionSigningSecret(ctx context.Context, store SecretStore, cfg Config) error {
	if cfg.JWTSecret != "" {
		return store.Set(ctx, SecretStoreKey, cfg.JWTSecret)
	}

	_, ok, err := store.Get(ctx, SecretStoreKey)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	secret, err := generateSecret(48)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, SecretStoreKey, secret); err != nil {
		return err
	}
	log.Printf("no JWT_SECRET supplied; generated signing secret and stored it under %s", SecretStoreKey)
	return nil
}

// LoadSigningSecret reads the provisioned secret. A missing or empty value is
// a configuration fault; every token operation must fail closed without it.
func LoadSigningSecret(ctx context.Context, store SecretStore) ([]byte, error) {
	val, ok, err := store.Get(ctx, SecretStoreKey)
	if err != nil {
		return nil, err
	}
	if !ok || val == "" {
		return nil, ErrSecretUnavailable
	}
	return []byte(val), nil
}

func generateSecret(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
