// Package main provides the entry point for the GoAdminBase application.
// It runs a web server built on the Fiber framework that offers a typed
// key/value settings store and user account management with local and
// federated sign-in. Data is persisted with gorm; email addresses and
// passwords are encrypted at rest.
package main
