// internal/repository/sqlite/user_repo.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"uav-maintenance-service/internal/domain/auth"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	now := time.Now()
	id := ulid.Make().String()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, user.Email, user.PasswordHash, now.UnixNano(), now.UnixNano(),
	)
	if isConstraintViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, `WHERE email = ? COLLATE NOCASE`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*auth.User, error) {
	var (
		user             auth.User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users `+where, arg,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &created, &updated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.CreatedAt = time.Unix(0, created)
	user.UpdatedAt = time.Unix(0, updated)
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? COLLATE NOCASE)`, email,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, updated_at = ? WHERE id = ?`, email, time.Now().UnixNano(), id,
	)
	if isConstraintViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return requireAffected(result)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, time.Now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(result)
}
