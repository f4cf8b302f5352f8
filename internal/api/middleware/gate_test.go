package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

func TestGate_RuleTable(t *testing.T) {
	const secret = "secret"

	userToken := signToken(t, secret, "alice", domain.RoleUser, time.Hour)
	adminToken := signToken(t, secret, "root", domain.RoleAdmin, time.Hour)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int // 0 means the request must reach the handler
	}{
		{name: "auth namespace is public", path: "/api/auth/login", token: ""},
		{name: "auth namespace ignores bad tokens", path: "/api/auth/register", token: "garbage"},
		{name: "admin namespace needs a token", path: "/api/admin/data", token: "", wantCode: http.StatusUnauthorized},
		{name: "admin namespace rejects USER", path: "/api/admin/data", token: userToken, wantCode: http.StatusForbidden},
		{name: "admin namespace allows ADMIN", path: "/api/admin/data", token: adminToken},
		{name: "private namespace allows USER", path: "/api/private/data", token: userToken},
		{name: "private namespace allows ADMIN", path: "/api/private/data", token: adminToken},
		{name: "private namespace needs a token", path: "/api/private/data", token: "", wantCode: http.StatusUnauthorized},
		{name: "unlisted path needs any valid token", path: "/api/other/thing", token: "", wantCode: http.StatusUnauthorized},
		{name: "unlisted path allows USER", path: "/api/other/thing", token: userToken},
		{name: "unlisted path allows ADMIN", path: "/api/other/thing", token: adminToken},
		{name: "unlisted path rejects invalid token", path: "/api/other/thing", token: "garbage", wantCode: http.StatusUnauthorized},
		{name: "health is public", path: "/health", token: ""},
		{name: "metrics is public", path: "/metrics", token: ""},
	}

	e := echo.New()
	mw := Gate(secret)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			reached := false
			handler := mw(func(c echo.Context) error {
				reached = true
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tc.wantCode == 0 {
				if err != nil {
					t.Fatalf("expected request to pass, got %v", err)
				}
				if !reached {
					t.Fatalf("handler not reached")
				}
				return
			}

			if reached {
				t.Fatalf("handler reached despite expected rejection")
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("expected echo.HTTPError, got %v", err)
			}
			if he.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, he.Code)
			}
		})
	}
}

func TestGate_InjectsClaims(t *testing.T) {
	const secret = "secret"
	token := signToken(t, secret, "alice", domain.RoleUser, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/private/data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Gate(secret)(func(c echo.Context) error {
		if c.Get("username") != "alice" {
			t.Fatalf("username claim not injected")
		}
		if c.Get("role") != domain.RoleUser {
			t.Fatalf("role claim not injected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
