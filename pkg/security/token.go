package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenManager issues and verifies the stateless HS256 bearer tokens.
// Access and refresh tokens share the subject and signing scheme and
// differ only in their lifetime. There is no revocation list; a token
// stays valid until its natural expiry.
type TokenManager struct {
	secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Issue signs a token with sub/iat/exp claims for the given subject.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return t.SignedString(m.secret)
}

// IssuePair returns a fresh access and refresh token for the subject.
func (m *TokenManager) IssuePair(subject string) (access, refresh string, err error) {
	access, err = m.Issue(subject, m.AccessTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err = m.Issue(subject, m.RefreshTTL)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Verify checks the signature and expiry of a token and returns its
// subject. Expired tokens report ErrTokenExpired, anything else wrong
// with the token reports ErrTokenInvalid, so callers can surface
// different failure codes for the two cases.
func (m *TokenManager) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
