// Package txn opens a unit of work per request. Handlers register
// their changes on it; the middleware commits after a successful
// handler chain and rolls back on error.
package txn

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/store"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
)

// Middleware returns a Fiber middleware that attaches a unit of work
// to the request context.
func Middleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uow, err := store.Begin(db)
		if err != nil {
			return err
		}
		defer uow.Release()

		c.Locals(handler.LocalUnitOfWork, uow)

		if err := c.Next(); err != nil {
			if rbErr := uow.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Str("url", c.OriginalURL()).Msg("rollback failed")
			}

			return err
		}

		if err := uow.Commit(); err != nil {
			return err
		}

		return nil
	}
}

// FromCtx returns the unit of work attached to the request, or nil if
// the middleware is not installed.
func FromCtx(c *fiber.Ctx) *store.UnitOfWork {
	uow, _ := c.Locals(handler.LocalUnitOfWork).(*store.UnitOfWork)

	return uow
}
