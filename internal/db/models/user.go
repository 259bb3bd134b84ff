package models

import (
	"crypto/subtle"
	"time"

	"github.com/GoAdminBase/GoAdminBase/internal/fieldcrypt"
)

// AuthSource represents the authentication source for a user account.
// It indicates how the user authenticates (local password or OIDC).
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect.
	AuthSourceOIDC AuthSource = "oidc"
)

// User represents a user account. The email address and password columns are
// encrypted at rest; the encryption is deterministic so the email address can
// still serve as a lookup key.
type User struct {
	Meta
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// EmailAddress is the login identity, encrypted at rest and unique.
	EmailAddress fieldcrypt.EncryptedString `gorm:"size:255;not null;uniqueIndex"`
	// Password is encrypted at rest. It is nil for accounts that
	// authenticate through an external identity provider.
	Password *fieldcrypt.EncryptedString `gorm:"size:255"`
	// AuthSource indicates how this user authenticates (local or oidc).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the identity provider subject for OIDC users.
	ExternalID string `gorm:"size:255"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// LastLoginAt is set by the auth layer on every successful login.
	LastLoginAt *time.Time
}

// HasPassword reports whether the account carries a local password.
// Accounts created through an identity provider have none.
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// VerifyPassword compares a login attempt against the stored password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(*u.Password), []byte(password)) == 1
}
