package core

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim. The gate accepts only access
// tokens; the refresh exchange accepts only refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrTokenMalformed is returned when a token cannot be parsed at all.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrBadSignature is returned when the token signature does not verify.
	ErrBadSignature = errors.New("bad token signature")
	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrWrongTokenType is returned when a valid token of the wrong kind is presented.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrSecretUnavailable is returned when the signing secret is not provisioned.
	// This is a configuration fault; token operations fail closed.
	ErrSecretUnavailable = errors.New("signing secret unavailable")
)

// Claims is the signed payload carried by both token kinds: the authenticated
// subject, an expiry, and a type discriminant.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed tokens with a single symmetric key.
// The secret is fixed at construction and never mutated afterwards, so the
// service is safe for concurrent use.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue builds and signs Claims{subject, now+ttl, tokenType} with HS256.
func (s *TokenService) Issue(subject, tokenType string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSecretUnavailable
	}
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueAccess mints a short-lived access token for subject.
func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, TokenTypeAccess, s.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for subject.
func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.Issue(subject, TokenTypeRefresh, s.refreshTTL)
}

// Verify parses tokenString, checks signature and expiry against the service
// secret, and requires the "typ" claim to equal wantType. Callers treat every
// failure the same way (reject); the distinct errors exist for logs and tests.
func (s *TokenService) Verify(tokenString, wantType string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretUnavailable
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
