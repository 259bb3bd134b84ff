// Package handler provides shared types and constants for web handlers.
package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = ""

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// LocalCurrentUser is the fiber locals key carrying the resolved principal.
	LocalCurrentUser = "CurrentUser"

	// LocalUnitOfWork is the fiber locals key carrying the request transaction.
	LocalUnitOfWork = "UnitOfWork"
)
