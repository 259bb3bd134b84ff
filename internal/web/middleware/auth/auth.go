// Package auth provides the authentication middleware for the web
// application.
//
// The middleware validates the session cookie, resolves the logged-in
// user from the database and stores it in fiber.Locals for handlers and
// templates. Requests without a valid session are redirected to the
// login page. The session itself only holds the user ID; the user row
// is loaded fresh on every request so stale or deleted accounts lose
// access immediately.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/user"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/session"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// public paths that never require a session.
var publicPrefixes = []string{
	"/static",
	"/login",
	"/logout",
	"/auth/oidc",
	"/metrics",
	"/checkalive",
}

// Middleware returns a Fiber middleware that enforces authentication
// against the given database.
func Middleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isPublic(c) {
			resolveUser(c, db)

			return c.Next()
		}

		cookie := c.Cookies(session.CookieName)
		if cookie == "" {
			return fiber.ErrUnauthorized
		}

		sessData := new(session.Data)
		if err := sessData.Read(cookie); err != nil {
			return fiber.ErrUnauthorized
		}

		current, err := user.GetByID(db, sessData.UserID)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(handler.LocalCurrentUser, current)

		return c.Next()
	}
}

// resolveUser loads the current user into locals if a valid session
// exists, without enforcing one. Lets the login page redirect users who
// are already signed in.
func resolveUser(c *fiber.Ctx, db *gorm.DB) {
	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return
	}

	sessData := new(session.Data)
	if err := sessData.Read(cookie); err != nil {
		return
	}

	current, err := user.GetByID(db, sessData.UserID)
	if err != nil {
		return
	}

	c.Locals(handler.LocalCurrentUser, current)
}

func isPublic(c *fiber.Ctx) bool {
	path := strings.ToLower(c.Path())

	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
