package ports

import "context"

// TokenService issues and checks signed session tokens.
type TokenService interface {
	// Issue mints a token asserting subject with the given role claim.
	Issue(subject, role string) (string, error)
	// ParseSubject extracts the subject claim without verifying the
	// signature or expiry. Returns domain.ErrMalformedToken when the
	// compact form cannot be decoded.
	ParseSubject(token string) (string, error)
	// Validate reports whether token carries a valid signature, has not
	// expired, and asserts expectedSubject. It never returns an error:
	// any failure yields false.
	Validate(token, expectedSubject string) bool
	// Refresh validates oldToken, confirms its subject still resolves to
	// an account, and issues a fresh token for the same subject. Returns
	// domain.ErrInvalidToken when the old token is unusable.
	Refresh(ctx context.Context, oldToken string) (string, error)
}
