// Package dashboard renders the landing page after login.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)

	return nil
}

// Get renders the dashboard with basic instance stats.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.New("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Dashboard", Path, true)

	var userCount, settingCount int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Error().Err(err).Msg("count users failed")
	}

	if err := s.db.Model(&models.Setting{}).Count(&settingCount).Error; err != nil {
		log.Error().Err(err).Msg("count settings failed")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":        s.cfg.Title,
		"Navigation":   nav,
		"CurrentUser":  c.Locals(handler.LocalCurrentUser),
		"Flash":        flash.Get(c),
		"UserCount":    userCount,
		"SettingCount": settingCount,
	}, handler.BaseLayout)
}
