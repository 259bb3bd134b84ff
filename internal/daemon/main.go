// Package daemon wires configuration, database, session storage and the
// web service into a running process.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory"
	sessionmysql "github.com/gofiber/storage/mysql"
	sessionpostgres "github.com/gofiber/storage/postgres"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/dsn"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/fieldcrypt"
	"github.com/GoAdminBase/GoAdminBase/internal/web"
	"github.com/GoAdminBase/GoAdminBase/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf("%s:%d", d.cfg.Webserver.Domain, d.cfg.Webserver.Port)

	return d.webService.Start(addr)
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	// Column encryption must be ready before the first row is read or
	// written.
	if err := fieldcrypt.Init(cfg.EncryptionKey); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize column encryption")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	if err = seed(cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
		return nil
	}

	session.Init(sessionStorage(cfg))

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}

// openDialector selects the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// sessionStorage selects the fiber session backend for the configured
// engine. SQLite deployments keep sessions in memory.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			Table:    "sessions",
		})
	case config.EngineSQLite:
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
