package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

func TestDuplicateKeyConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate email index",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: `E11000 duplicate key error collection: clubconnect.users index: email_1 dup key: { email: "alice@example.com" }`,
			}}},
			want: domain.ErrEmailExists,
		},
		{
			name: "duplicate username key",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: `E11000 duplicate key error collection: clubconnect.users index: _id_ dup key: { _id: "alice" }`,
			}}},
			want: domain.ErrUserExists,
		},
		{
			name: "duplicate without index detail",
			err:  errors.New("duplicate key error"),
			want: domain.ErrUserExists,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := duplicateKeyConflict(tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
