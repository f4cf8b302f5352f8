package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// username proves the middleware did not run (or the token carried no
// subject); reject with 401 before any service call.
func ctxClaims(c echo.Context) (username, role string, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return username, role, nil
}

// requireOwnerOrAdmin enforces that the caller either is the named user or
// holds the ADMIN role.
func requireOwnerOrAdmin(c echo.Context, username string) error {
	caller, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if caller != username && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
