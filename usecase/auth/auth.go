package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

// UseCase fronts the hosted identity provider. It holds no credential state
// of its own; every call is a pass-through with error translation.
type UseCase struct {
	identity repository.IdentityProvider
	logger   *zap.Logger
}

func New(identity repository.IdentityProvider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		identity: identity,
		logger:   logger,
	}
}

func (uc *UseCase) Register(ctx context.Context, email, password string) (string, error) {
	uid, err := uc.identity.SignUp(ctx, email, password)
	if err != nil {
		return "", err
	}
	uc.logger.Info("user registered", zap.String("uid", uid))
	return uid, nil
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	return uc.identity.SignIn(ctx, email, password)
}

func (uc *UseCase) Verify(ctx context.Context, rawToken string) (*domain.Identity, error) {
	return uc.identity.Verify(ctx, rawToken)
}
