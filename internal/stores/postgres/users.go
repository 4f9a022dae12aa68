package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
)

const userColumns = `id, email, full_name, hashed_password, role, is_deleted, deleted_at`

func (s *Store) CreateUser(ctx context.Context, user users.User) (users.User, error) {
	query := `
		INSERT INTO users (email, full_name, hashed_password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		user.Email, user.FullName, user.HashedPassword, user.Role,
	).Scan(&user.ID)
	if err != nil {
		// unique constraint on email is the backstop for the check the
		// service already did
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.User{}, users.ErrEmailExists
		}
		return users.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if !includeDeleted {
		query += ` AND is_deleted = FALSE`
	}
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int, includeDeleted bool) ([]users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeDeleted {
		query += ` WHERE is_deleted = FALSE`
	}
	query += ` ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return out, nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE users
		SET is_deleted = TRUE, deleted_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to soft delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) SetUserRole(ctx context.Context, email string, role auth.Role) (users.User, error) {
	query := `UPDATE users SET role = $1 WHERE email = $2 RETURNING ` + userColumns
	return scanUser(s.db.QueryRowContext(ctx, query, role, email))
}

func scanUser(row rowScanner) (users.User, error) {
	var user users.User
	var deletedAt sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.HashedPassword,
		&user.Role, &user.IsDeleted, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}
		return users.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}
	return user, nil
}
