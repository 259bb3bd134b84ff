// Package logout tears down the user session and returns to the login page.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/login"
	"github.com/GoAdminBase/GoAdminBase/internal/web/session"
)

const (
	// Path is the path to the logout endpoint.
	Path = "/logout"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	app.Get(Path, s.Get)

	return nil
}

// Get invalidates the session and redirects to the login page.
func (s *Service) Get(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	flash.Set(c, flash.CategoryInfo, "You have been logged out.")

	return c.Redirect(login.Path)
}
