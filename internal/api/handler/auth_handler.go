package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/api/metrics"
	"github.com/clubconnect/auth-service/internal/core/domain"
	"github.com/clubconnect/auth-service/internal/core/ports"
)

// AuthHandler handles registration, login, and token refresh.
type AuthHandler struct {
	accounts ports.AccountService
	tokens   ports.TokenService
}

func NewAuthHandler(accounts ports.AccountService, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// Register creates a USER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, domain.RoleUser, "user registered successfully")
}

// RegisterAdmin creates an ADMIN account. The route sits behind
// Auth + RBAC(ADMIN): only an existing admin can mint another.
//
// @Summary      Register a new admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, domain.RoleAdmin, "admin registered successfully")
}

func (h *AuthHandler) register(c echo.Context, role, successMsg string) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.accounts.Register(c.Request().Context(), req.Username, req.Email, req.Password, role); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: successMsg})
}

// Login verifies credentials and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.accounts.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Refresh issues a fresh token for the subject of the presented one. The
// old token must still be valid: expired tokens cannot be refreshed, and
// any unusable token maps to 403.
//
// @Summary      Refresh a session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  tokenResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	old, ok := rawBearer(c)
	if !ok {
		return domain.ErrInvalidToken
	}

	token, err := h.tokens.Refresh(c.Request().Context(), old)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// rawBearer returns the compact token from the Authorization header.
func rawBearer(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
