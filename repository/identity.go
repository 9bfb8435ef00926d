package repository

import (
	"context"

	"github.com/firetask/backend/domain"
)

// IdentityProvider wraps the hosted identity service. Account state lives
// entirely on the provider side; this service only translates its answers.
type IdentityProvider interface {
	// SignUp creates an account and returns the provider-assigned uid.
	// Malformed or already-registered emails and rejected passwords surface
	// as an INVALID domain error carrying the provider's reason.
	SignUp(ctx context.Context, email, password string) (string, error)
	// SignIn exchanges credentials for a bearer token. Every credential
	// failure maps to domain.ErrLoginFailed without disclosing which field
	// was wrong.
	SignIn(ctx context.Context, email, password string) (*domain.Credentials, error)
	// Verify checks a bearer token and returns the caller identity.
	Verify(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// TokenVerifier is the subset of IdentityProvider needed by the auth
// middleware.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Identity, error)
}
