// Package user provides lookups and lifecycle operations for user accounts.
package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/fieldcrypt"
)

const (
	emailQueryPattern = "email_address = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailEmpty is returned when an empty email address is given.
	ErrEmailEmpty = errors.New("email address cannot be empty")
	// ErrUserAlreadyExists is returned when the email address is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a user by its ID. The session layer uses this to
// resolve the current principal on every request.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	user.MarkPersisted()

	return &user, nil
}

// GetByEmailAddress retrieves a user by email address. The column is
// encrypted deterministically, so the plaintext argument encrypts to the
// exact stored ciphertext and ordinary equality matches.
func GetByEmailAddress(db *gorm.DB, emailAddress string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if emailAddress == "" {
		return nil, ErrEmailEmpty
	}

	var user models.User

	result := db.Where(emailQueryPattern, fieldcrypt.EncryptedString(emailAddress)).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	user.MarkPersisted()

	return &user, nil
}

// Create creates a new local user. The password may be empty for accounts
// that will only ever authenticate through an identity provider.
func Create(db *gorm.DB, emailAddress, password string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if emailAddress == "" {
		return nil, ErrEmailEmpty
	}

	if _, err := GetByEmailAddress(db, emailAddress); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		EmailAddress: fieldcrypt.EncryptedString(emailAddress),
		AuthSource:   models.AuthSourceLocal,
	}

	if password != "" {
		encrypted := fieldcrypt.EncryptedString(password)
		user.Password = &encrypted
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	user.MarkPersisted()

	return user, nil
}

// GetAll retrieves all users ordered by ID.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	result := db.Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// TouchLastLogin stamps a successful login on the user record.
func TouchLastLogin(db *gorm.DB, user *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now

	return db.Model(user).Update("last_login_at", now).Error
}
