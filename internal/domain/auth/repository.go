// internal/domain/auth/repository.go
package auth

import "context"

// UserRepository is implemented by every store driver.
// Lookups return xerrors.ErrNotFound when the user is absent and
// Create returns xerrors.ErrDuplicateEntry on an email collision.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
