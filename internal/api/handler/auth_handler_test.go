package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, username, email, password, role string) (*domain.Account, error)
	authenticateFn func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAccountService) Register(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
	return s.registerFn(ctx, username, email, password, role)
}

func (s *stubAccountService) Authenticate(ctx context.Context, username, password string) (string, error) {
	return s.authenticateFn(ctx, username, password)
}

type stubTokenService struct {
	refreshFn func(ctx context.Context, oldToken string) (string, error)
}

func (s *stubTokenService) Issue(subject, role string) (string, error) { return "issued", nil }
func (s *stubTokenService) ParseSubject(token string) (string, error)  { return "", nil }
func (s *stubTokenService) Validate(token, expectedSubject string) bool {
	return false
}
func (s *stubTokenService) Refresh(ctx context.Context, oldToken string) (string, error) {
	return s.refreshFn(ctx, oldToken)
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
			if username != "alice" || email != "alice@x.com" || role != domain.RoleUser {
				t.Fatalf("unexpected args: %s %s %s", username, email, role)
			}
			return &domain.Account{Username: username, Email: email, Role: role}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{})

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@x.com","password":"password1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_RegisterAdmin_UsesAdminRole(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
			if role != domain.RoleAdmin {
				t.Fatalf("expected ADMIN role, got %s", role)
			}
			return &domain.Account{Username: username, Role: role}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{})

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/register-admin",
		`{"username":"root","email":"root@x.com","password":"password1"}`)

	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@x.com","password":"password1"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{}, &stubTokenService{})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"short"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		authenticateFn: func(ctx context.Context, username, password string) (string, error) {
			if username != "alice" || password != "password1" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return "signed-token", nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{})

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"password1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["token"] != "signed-token" {
		t.Fatalf("expected token in response, got %v", body)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	stub := &stubAccountService{
		authenticateFn: func(ctx context.Context, username, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	tokens := &stubTokenService{
		refreshFn: func(ctx context.Context, oldToken string) (string, error) {
			if oldToken != "old-token" {
				t.Fatalf("unexpected old token: %s", oldToken)
			}
			return "new-token", nil
		},
	}
	h := NewAuthHandler(&stubAccountService{}, tokens)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/refresh-token", "")
	c.Request().Header.Set("Authorization", "Bearer old-token")

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["token"] != "new-token" {
		t.Fatalf("expected refreshed token, got %v", body)
	}
}

func TestAuthHandler_Refresh_MissingHeader(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{}, &stubTokenService{})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/refresh-token", "")

	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Refresh_Rejected(t *testing.T) {
	tokens := &stubTokenService{
		refreshFn: func(ctx context.Context, oldToken string) (string, error) {
			return "", domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(&stubAccountService{}, tokens)

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/refresh-token", "")
	c.Request().Header.Set("Authorization", "Bearer stale-token")

	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
