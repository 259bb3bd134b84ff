// Package login provides the sign-in page and local credential flow.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/auth"
	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/forms"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"
)

var (
	// ErrInvalidCredentials is shown when email and password do not match.
	ErrInvalidCredentials = errors.New("invalid email address or password")
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.auth = auth.NewService(db)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the login page.
func (s *Service) Get(c *fiber.Ctx) error {
	// Already signed in, nothing to do here.
	if c.Locals(handler.LocalCurrentUser) != nil {
		return c.Redirect(handler.RootPath)
	}

	return s.render(c, flash.Get(c))
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form, err := forms.PostForm(c)
	if err != nil {
		return fiber.ErrBadRequest
	}

	emailAddress := forms.TrimmedValue(form, "email")
	password := form["password"]

	current, err := s.auth.Authenticate(emailAddress, password)
	if err != nil {
		log.Info().Str("email", emailAddress).Msg("login rejected")

		return s.render(c, &flash.Message{
			Category: flash.CategoryError,
			Text:     ErrInvalidCredentials.Error(),
		})
	}

	if err = s.establishSession(c, current.ID); err != nil {
		log.Error().Err(err).Msg("failed to establish session")

		return fiber.ErrInternalServerError
	}

	log.Info().Uint64("user_id", current.ID).Msg("user logged in")

	return c.Redirect(handler.RootPath)
}

func (s *Service) establishSession(c *fiber.Ctx, userID uint64) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	sessData := &session.Data{UserID: userID}
	if err = sessData.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	c.Cookie(cookie)

	return nil
}

func (s *Service) render(c *fiber.Ctx, msg *flash.Message) error {
	return c.Render("login", fiber.Map{
		"Title":       s.cfg.Title,
		"Flash":       msg,
		"OIDCEnabled": s.cfg.Auth.OIDC.Enabled,
	})
}
