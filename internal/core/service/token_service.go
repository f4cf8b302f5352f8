package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clubconnect/auth-service/internal/core/domain"
	"github.com/clubconnect/auth-service/internal/core/ports"
)

const defaultTokenTTL = 10 * time.Hour

// SessionClaims is the claim set carried by every session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and checks HS256 session tokens. Tokens are
// self-contained: nothing is persisted server-side, so validation is pure
// in-memory work except for the account-existence check during Refresh.
type TokenService struct {
	repo   ports.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewTokenService(repo ports.UserRepository, secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{repo: repo, secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for subject with a fresh issued-at and expiry.
func (s *TokenService) Issue(subject, role string) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ParseSubject decodes the subject claim without verifying signature or
// expiry. Used to find the refresh context before full validation runs.
func (s *TokenService) ParseSubject(token string) (string, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", domain.ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}

// Validate fails closed: any parse error, signature mismatch, expired
// token, or subject mismatch yields false. Signature comparison inside
// jwt/v5 HMAC verification is constant-time.
func (s *TokenService) Validate(token, expectedSubject string) bool {
	claims, err := s.parseVerified(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

// Refresh issues a brand-new token for the subject of a currently valid
// token. The old token stays usable until its own expiry; expired tokens
// cannot be refreshed.
func (s *TokenService) Refresh(ctx context.Context, oldToken string) (string, error) {
	subject, err := s.ParseSubject(oldToken)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	account, err := s.repo.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}

	if !s.Validate(oldToken, subject) {
		return "", domain.ErrInvalidToken
	}

	return s.Issue(subject, account.Role)
}

func (s *TokenService) parseVerified(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
