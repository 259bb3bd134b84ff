package auth

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/user"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

// Authenticate authenticates an email/password pair against the local
// database. On success the login timestamp is stamped on the account.
func (s *Service) Authenticate(emailAddress, password string) (*models.User, error) {
	account, err := user.GetByEmailAddress(s.db, emailAddress)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrEmailEmpty) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	// federated accounts never authenticate locally
	if !account.HasPassword() {
		return nil, ErrNoLocalPassword
	}

	if !account.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if err := user.TouchLastLogin(s.db, account); err != nil {
		log.Error().Err(err).Uint64("user_id", account.ID).Msg("failed to stamp last login")
	}

	return account, nil
}
