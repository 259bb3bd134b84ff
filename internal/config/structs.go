package config

import (
	"time"

	"github.com/GoAdminBase/GoAdminBase/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// OIDC holds the OpenID Connect settings for federated login.
type OIDC struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Auth groups the authentication settings.
type Auth struct {
	OIDC OIDC
}

// Config overall data structure.
type Config struct {
	DevMode bool // enable dev mode for development
	DB      DB
	Log     logger.Log
	Title   string
	Auth    Auth

	// EncryptionKey derives the key for encrypted-at-rest columns.
	EncryptionKey string

	// AdminEmail and AdminPassword seed the initial account when the
	// user table is empty.
	AdminEmail    string
	AdminPassword string

	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
