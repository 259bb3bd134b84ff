package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/user"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

// seed creates the initial admin account when the user table is empty.
func seed(cfg *config.Config, db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("user table is empty and no admin account is configured")
	}

	admin, err := user.Create(db, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}

	log.Info().Uint64("user_id", admin.ID).Msg("seeded initial admin account")

	return nil
}
