// Package auth provides authentication functionality for the application.
//
// Two authentication sources are supported:
//   - Local authentication against the encrypted email/password columns
//     in the user table.
//   - OpenID Connect (OIDC) authentication with external identity
//     providers like Google, Okta and Keycloak. Accounts created this way
//     carry no local password.
//
// The web layer resolves the current principal per request by looking up
// the session's user ID through the user controller.
package auth
