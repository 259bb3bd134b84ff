// Package oidc implements the OpenID Connect login flow: the redirect
// to the identity provider and the callback that turns a code exchange
// into a local session.
package oidc

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/auth"
	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/session"
)

const (
	// Path is the base path of the OIDC endpoints.
	Path = "/auth/oidc"

	// stateCookie carries the CSRF state between redirect and callback.
	stateCookie = "oidc_state"
)

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	provider *auth.OIDCProvider
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler. When OIDC is disabled in the
// configuration the routes are not registered at all.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	if !cfg.Auth.OIDC.Enabled {
		return nil
	}

	provider, err := auth.NewOIDCProvider(context.Background(), &auth.OIDCConfig{
		ProviderURL:  cfg.Auth.OIDC.ProviderURL,
		ClientID:     cfg.Auth.OIDC.ClientID,
		ClientSecret: cfg.Auth.OIDC.ClientSecret,
		RedirectURL:  cfg.Auth.OIDC.RedirectURL,
		Scopes:       cfg.Auth.OIDC.Scopes,
	}, db)
	if err != nil {
		return err
	}

	s.provider = provider

	app.Route(Path, func(router fiber.Router) {
		router.Get("/login", s.Login)
		router.Get("/callback", s.Callback)
	})

	return nil
}

// Login redirects the browser to the identity provider.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		MaxAge:   300,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback completes the code exchange and signs the user in.
func (s *Service) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		log.Warn().Msg("oidc callback with bad state")

		return fiber.ErrUnauthorized
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	current, err := s.provider.HandleCallback(c.Context(), c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("oidc code exchange failed")

		flash.Set(c, flash.CategoryError, "Sign-in with the identity provider failed.")

		return c.Redirect("/login")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	sessData := &session.Data{UserID: current.ID}
	if err = sessData.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	log.Info().Uint64("user_id", current.ID).Msg("user logged in via oidc")

	return c.Redirect(handler.RootPath)
}
