package ports

import "context"

// MembershipService mutates a user's attended-event set.
type MembershipService interface {
	// AddEvent records that username attends eventID. Idempotent.
	AddEvent(ctx context.Context, username string, eventID int) error
	// RemoveEvent drops eventID from the user's set. Removing an absent
	// id is a silent no-op.
	RemoveEvent(ctx context.Context, username string, eventID int) error
	// ListEvents returns the user's attended-event ids in ascending order.
	ListEvents(ctx context.Context, username string) ([]int, error)
}
