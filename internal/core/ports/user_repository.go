package ports

import (
	"context"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

// UserRepository defines the interface for account persistence.
//
// The store is a key-value collection keyed by username. Update is a
// conditional write: it succeeds only when the stored record still carries
// the version the caller read, and returns domain.ErrVersionConflict
// otherwise. Callers performing read-modify-write are expected to retry.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, username string) error
}
