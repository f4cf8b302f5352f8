package ports

import (
	"context"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

// AccountService implements registration and login.
type AccountService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.Account, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
}
