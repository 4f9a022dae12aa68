package users

import (
	"time"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
)

// User is an account row. Soft-deleted rows are retained but excluded from
// authentication and from default listings.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	HashedPassword string     `json:"-"`
	Role           auth.Role  `json:"role"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// NewUser is the signup payload.
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangeRole is the admin payload for reassigning a user's role.
type ChangeRole struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// Login is the credentials payload.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
