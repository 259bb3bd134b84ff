package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/user"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/fieldcrypt"
	"github.com/GoAdminBase/GoAdminBase/internal/uniuri"
)

// OIDCConfig holds OpenID Connect (OIDC) configuration for authentication.
// Whether OIDC is enabled at all is decided by the caller; a constructed
// provider is always live.
type OIDCConfig struct {
	// ProviderURL is the OIDC provider's discovery URL (e.g., "https://accounts.google.com").
	ProviderURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the OAuth2 callback URL where the provider redirects after authentication.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request (default: ["openid", "profile", "email"]).
	Scopes []string
}

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	config   *OIDCConfig
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
	db       *gorm.DB
}

// NewOIDCProvider creates a new OIDC provider.
func NewOIDCProvider(ctx context.Context, config *OIDCConfig, db *gorm.DB) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, config.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.ClientID,
	})

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauth2Config := oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &OIDCProvider{
		config:   config,
		provider: provider,
		verifier: verifier,
		oauth2:   oauth2Config,
		db:       db,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	return uniuri.NewLen(32), nil
}

// GetAuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback handles the OIDC callback and returns the authenticated user.
// First-time logins create an account without a local password; later logins
// keep the stored email address in sync with the provider.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	// Exchange code for token
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	// Extract ID token
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	// Verify ID token
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}

	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return p.findOrCreateUser(claims.Sub, claims.Email)
}

func (p *OIDCProvider) findOrCreateUser(subject, email string) (*models.User, error) {
	var account models.User

	err := p.db.Where("external_id = ? AND auth_source = ?", subject, models.AuthSourceOIDC).
		First(&account).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := &models.User{
			EmailAddress: fieldcrypt.EncryptedString(email),
			AuthSource:   models.AuthSourceOIDC,
			ExternalID:   subject,
		}

		if err = p.db.Create(created).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		created.MarkPersisted()

		return created, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query user: %w", err)
	default:
		account.MarkPersisted()
		account.EmailAddress = fieldcrypt.EncryptedString(email)

		if err = p.db.Save(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}

		if err := user.TouchLastLogin(p.db, &account); err != nil {
			return nil, err
		}

		return &account, nil
	}
}
