package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/api/metrics"
	"github.com/clubconnect/auth-service/internal/core/domain"
)

// gateRule maps a path prefix to its access requirement. Public rules
// pass every request through; rules with roles require a valid token
// carrying one of those roles.
type gateRule struct {
	prefix string
	public bool
	roles  []string
}

// gateRules is evaluated top to bottom; the first matching prefix wins.
// Paths matching no rule require any validated token.
var gateRules = []gateRule{
	{prefix: "/api/auth", public: true},
	{prefix: "/api/admin", roles: []string{domain.RoleAdmin}},
	{prefix: "/api/private", roles: []string{domain.RoleUser, domain.RoleAdmin}},
	{prefix: "/health", public: true},
	{prefix: "/metrics", public: true},
}

// Gate is the request-level authorization gate. It resolves the first
// matching path rule and rejects the request before routing delivers it
// to a handler when the token is missing, invalid, or carries an
// insufficient role. Validated claims are placed into context so
// downstream handlers can read them.
//
// Routes under the public auth namespace that still need a token (refresh,
// event membership, admin registration) attach Auth and RBAC explicitly in
// the router; the gate stays out of their way.
func Gate(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule := matchRule(c.Request().URL.Path)
			if rule != nil && rule.public {
				return next(c)
			}

			token, ok := bearerToken(c)
			if !ok {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := verifyToken(token, jwtSecret)
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setClaims(c, claims)

			if rule != nil && !roleAllowed(rule.roles, claims["role"]) {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}

			return next(c)
		}
	}
}

func matchRule(path string) *gateRule {
	for i := range gateRules {
		if strings.HasPrefix(path, gateRules[i].prefix) {
			return &gateRules[i]
		}
	}
	return nil
}

func roleAllowed(allowed []string, claim any) bool {
	role, _ := claim.(string)
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
