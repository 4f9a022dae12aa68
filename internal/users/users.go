package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
)

var (
	ErrEmailExists = errors.New("users: email already exists")
	// ErrAccountDeactivated is distinct from ErrEmailExists so support flows
	// can tell a deactivated account apart from a plain duplicate.
	ErrAccountDeactivated = errors.New("users: account is deactivated")
	ErrUserNotFound       = errors.New("users: user not found")
	// ErrInvalidCredentials is deliberately generic: it never reveals
	// whether the email exists.
	ErrInvalidCredentials = errors.New("users: incorrect email or password")
)

// Store is the persistence contract for accounts.
type Store interface {
	CreateUser(ctx context.Context, user User) (User, error)
	// GetUserByEmail excludes soft-deleted rows unless includeDeleted is set.
	GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context, skip, limit int, includeDeleted bool) ([]User, error)
	// SoftDeleteUser reports whether an active user was marked deleted;
	// absent or already-deleted users yield false, not an error.
	SoftDeleteUser(ctx context.Context, id int64) (bool, error)
	SetUserRole(ctx context.Context, email string, role auth.Role) (User, error)
}

type Conf struct {
	store Store
}

func NewConf(store Store) (*Conf, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return &Conf{store: store}, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address;
// every email entering the system passes through here first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InsertUser registers a new account with the default shop role.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	email := NormalizeEmail(nu.Email)

	existing, err := c.store.GetUserByEmail(ctx, email, true)
	if err == nil {
		if existing.IsDeleted {
			return User{}, ErrAccountDeactivated
		}
		return User{}, ErrEmailExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return User{}, err
	}

	return c.store.CreateUser(ctx, User{
		Email:          email,
		FullName:       nu.FullName,
		HashedPassword: hash,
		Role:           auth.RoleShop,
	})
}

// Authenticate resolves the credentials to an active account. Soft-deleted
// users cannot authenticate.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := c.store.GetUserByEmail(ctx, NormalizeEmail(email), false)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.VerifyPassword(password, user.HashedPassword) {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetActiveUserByEmail is used by the authentication middleware to bind a
// token subject to a live account.
func (c *Conf) GetActiveUserByEmail(ctx context.Context, email string) (User, error) {
	return c.store.GetUserByEmail(ctx, NormalizeEmail(email), false)
}

// GetUserByID looks up an account by its internal id, soft-deleted or not.
func (c *Conf) GetUserByID(ctx context.Context, id int64) (User, error) {
	return c.store.GetUserByID(ctx, id)
}

// ListUsers pages through accounts, excluding soft-deleted rows by default.
func (c *Conf) ListUsers(ctx context.Context, skip, limit int, includeDeleted bool) ([]User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 50
	}
	return c.store.ListUsers(ctx, skip, limit, includeDeleted)
}

// SoftDeleteUser marks an account deleted, keeping the row. Returns
// ErrUserNotFound when the account is absent or already deleted.
func (c *Conf) SoftDeleteUser(ctx context.Context, id int64) error {
	ok, err := c.store.SoftDeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// SetRole reassigns a user's role. Only admin and shop are assignable here;
// member is a legacy default and never granted explicitly.
func (c *Conf) SetRole(ctx context.Context, email, rawRole string) (User, error) {
	role, err := auth.ParseRole(rawRole)
	if err != nil {
		return User{}, err
	}
	if role != auth.RoleAdmin && role != auth.RoleShop {
		return User{}, auth.ErrInvalidRole
	}
	return c.store.SetUserRole(ctx, NormalizeEmail(email), role)
}
