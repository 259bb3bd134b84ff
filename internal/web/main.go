// Package web assembles the Fiber application: routing, middleware,
// templates and the global error boundary.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/store"
	fiberlogger "github.com/GoAdminBase/GoAdminBase/internal/logger/adapter/fiber"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/admin/settings"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/admin/users"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/dashboard"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/login"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler/logout"
	oidchandler "github.com/GoAdminBase/GoAdminBase/internal/web/handler/oidc"
	authmiddleware "github.com/GoAdminBase/GoAdminBase/internal/web/middleware/auth"
	"github.com/GoAdminBase/GoAdminBase/internal/web/middleware/txn"
)

// statusMessages maps response codes to the fixed texts shown on the
// error page.
var statusMessages = map[int]string{
	fiber.StatusBadRequest:          "Bad Request - The server cannot process your request.",
	fiber.StatusUnauthorized:        "Authentication Required - Please log in to continue.",
	fiber.StatusForbidden:           "Access Denied - You don't have permission to access this resource.",
	fiber.StatusNotFound:            "Page Not Found - The requested resource doesn't exist or has been moved.",
	fiber.StatusTooManyRequests:     "Too Many Requests - Please wait a moment before trying again.",
	fiber.StatusInternalServerError: "Internal Server Error - Something went wrong on our end.",
	fiber.StatusBadGateway:          "Bad Gateway - We're having trouble connecting to our services.",
	fiber.StatusServiceUnavailable:  "Service Unavailable - We're temporarily unavailable. Please try again later.",
	fiber.StatusGatewayTimeout:      "Gateway Timeout - The server took too long to respond.",
}

const defaultStatusMessage = "An unexpected error has occurred."

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until a termination signal arrives and shuts the
// http server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: report unhealthy first so
	// the LB drains this instance before the listener closes.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: waiting %d seconds before closing the listener",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("datetimeformat", func(v any) string {
		var t time.Time

		switch val := v.(type) {
		case time.Time:
			t = val
		case *time.Time:
			if val == nil {
				return ""
			}

			t = *val
		default:
			return ""
		}

		if t.IsZero() {
			return ""
		}

		return t.Format("2006-01-02 15:04")
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   errorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/checkalive",
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.Middleware(db))
	app.Use(txn.Middleware(db))

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}

	service.alive.Store(true)

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return fiber.ErrServiceUnavailable
		}

		return c.SendString("OK")
	})

	for name, h := range map[string]interface {
		Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
	}{
		"login":          &login.Handler,
		"logout":         &logout.Handler,
		"oidc":           &oidchandler.Handler,
		"dashboard":      &dashboard.Handler,
		"admin/settings": &settings.Handler,
		"admin/users":    &users.Handler,
	} {
		if err := h.Init(app, cfg, db); err != nil {
			log.Fatal().Err(err).Str("handler", name).Msg("handler init failed")
		}
	}

	return service
}

// errorHandler is the global error boundary. Every error escaping a
// handler ends up here: it is logged as one structured record, mapped
// to a response code and rendered on the error page. A 401 redirects
// to the login page with a flash notice instead.
func errorHandler(c *fiber.Ctx, err error) error {
	code := statusCode(err)

	logError(c, err, code)

	if code == fiber.StatusUnauthorized {
		flash.Set(c, flash.CategoryError, statusMessages[fiber.StatusUnauthorized])

		return c.Redirect(login.Path)
	}

	message, ok := statusMessages[code]
	if !ok {
		message = defaultStatusMessage
	}

	// Omit the detail line when it would just repeat the fixed text.
	details := err.Error()
	if details == message || details == "" {
		details = ""
	}

	// The error page is standalone so a broken layout cannot take the
	// error path down with it.
	renderErr := c.Status(code).Render("error", fiber.Map{
		"ErrorCode":    code,
		"ErrorTitle":   fmt.Sprintf("Error %d", code),
		"ErrorMessage": message,
		"ErrorDetails": details,
	})
	if renderErr != nil {
		log.Error().Err(renderErr).Msg("error page render failed")

		return c.Status(fiber.StatusInternalServerError).
			SendString(defaultStatusMessage)
	}

	return nil
}

// statusCode maps an error to its response code: fiber errors carry
// one, persistence errors are translated from their kind, anything
// else is a 500.
func statusCode(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case errors.Is(err, store.ErrUnprocessable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrRollbackFailed):
		return fiber.StatusInternalServerError
	}

	return fiber.StatusInternalServerError
}

func logError(c *fiber.Ctx, err error, code int) {
	log.Error().
		Str("severity", "ERROR").
		Str("exception_type", fmt.Sprintf("%T", err)).
		Str("message", err.Error()).
		Int("status", code).
		Str("url", c.OriginalURL()).
		Str("method", c.Method()).
		Str("route", c.Route().Path).
		Str("user_agent", c.Get(fiber.HeaderUserAgent)).
		Str("query_args", c.Request().URI().QueryArgs().String()).
		Str("stack", string(debug.Stack())).
		Msg("unhandled request error")
}
