package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether role is one of the two supported tiers.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Account models an identity record in the credential store.
type Account struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	AttendedEvents EventSet  `json:"attended_events"`
	Version        int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
