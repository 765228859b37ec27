// internal/domain/auth/entity.go
package auth

import "time"

// User is an account allowed to operate the maintenance tracker
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email}
}
