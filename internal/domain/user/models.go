package user

import (
	"time"

	"hrpayroll/internal/auth"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         auth.Role  `json:"role"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type CreateInput struct {
	Email    string
	Username string
	Password string
	Role     auth.Role
}

// UpdateInput carries only the fields the caller supplied; nil fields are
// left untouched.
type UpdateInput struct {
	Email    *string
	Username *string
	Role     *auth.Role
	IsActive *bool
}

type Filter struct {
	Search string
	Limit  int
	Skip   int
}
