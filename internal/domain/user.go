package domain

import (
	"context"
	"time"
)

// DefaultPic is applied when an account is registered without a picture.
const DefaultPic = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

// Input bounds. The first three match the store's column sizes; bcrypt
// rejects passwords longer than 72 bytes.
const (
	MaxNameLen       = 64
	MaxEmailLen      = 191
	MaxPicLen        = 512
	MaxPasswordBytes = 72
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Pic          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller of a request. It never carries the
// password hash.
type Principal struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Pic     string `json:"pic"`
}

func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Pic: u.Pic}
}

// UserRepository is the credential store. Lookups return ErrNotFound when no
// record matches; Create and Update return ErrDuplicateEmail when the email is
// already taken by another record.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare reports whether password matches hash in constant time.
	Compare(password, hash string) bool
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type TokenVerifier interface {
	// Verify checks signature and expiry and returns the encoded user id.
	Verify(token string) (string, error)
}
