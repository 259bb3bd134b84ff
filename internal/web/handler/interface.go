package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
)

// Service is the interface every web handler implements. Init registers
// the handler's routes on the given app.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
}
