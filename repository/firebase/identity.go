package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

const (
	productionEndpoint = "https://identitytoolkit.googleapis.com/v1"
	issuerBase         = "https://securetoken.google.com/"
)

// Config carries the provider project settings. Nothing is validated here:
// a missing key or project id fails on first use, not at startup.
type Config struct {
	APIKey       string
	ProjectID    string
	EmulatorHost string
}

// IdentityClient talks to the hosted identity provider over its REST surface
// and verifies issued ID tokens. It implements repository.IdentityProvider.
type IdentityClient struct {
	cfg      Config
	endpoint string
	http     *http.Client
	logger   *zap.Logger

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewIdentityClient builds the client. The token verifier is initialized
// lazily on the first Verify call because provider discovery requires a
// network round-trip.
func NewIdentityClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *IdentityClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := productionEndpoint
	if cfg.EmulatorHost != "" {
		endpoint = fmt.Sprintf("http://%s/identitytoolkit.googleapis.com/v1", cfg.EmulatorHost)
	}
	return &IdentityClient{
		cfg:      cfg,
		endpoint: endpoint,
		http:     httpClient,
		logger:   logger,
	}
}

type accountRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID string `json:"localId"`
	IDToken string `json:"idToken"`
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (string, error) {
	resp, err := c.call(ctx, "accounts:signUp", accountRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		var dErr *domain.Error
		if errors.As(err, &dErr) && dErr.Code == domain.ErrCodeInvalid {
			return "", err
		}
		return "", domain.WrapError(domain.ErrCodeUnavailable, "identity provider unavailable", err)
	}
	return resp.LocalID, nil
}

func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*domain.Credentials, error) {
	resp, err := c.call(ctx, "accounts:signInWithPassword", accountRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		// Uniform failure: the caller must not learn which field was wrong
		// or whether the provider itself misbehaved.
		c.logger.Warn("sign-in rejected", zap.Error(err))
		return nil, domain.ErrLoginFailed
	}
	return &domain.Credentials{
		AccessToken: resp.IDToken,
		TokenType:   "bearer",
	}, nil
}

func (c *IdentityClient) Verify(ctx context.Context, rawToken string) (*domain.Identity, error) {
	if rawToken == "" {
		return nil, domain.ErrTokenMissing
	}
	if c.cfg.EmulatorHost != "" {
		return c.verifyUnsigned(rawToken)
	}

	verifier, err := c.tokenVerifier()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "identity provider unavailable", err)
	}

	idToken, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims := map[string]interface{}{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Identity{UID: idToken.Subject, Claims: claims}, nil
}

// verifyUnsigned handles emulator-issued tokens, which carry no signature.
// Expiry is still enforced.
func (c *IdentityClient) verifyUnsigned(rawToken string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, domain.ErrTokenExpired
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Identity{UID: uid, Claims: claims}, nil
}

func (c *IdentityClient) tokenVerifier() (*oidc.IDTokenVerifier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verifier != nil {
		return c.verifier, nil
	}

	// The provider keeps the discovery context for later key-set refreshes,
	// long after any request has finished, so it must not see a
	// request-scoped context.
	discoveryCtx := oidc.ClientContext(context.Background(), c.http)
	provider, err := oidc.NewProvider(discoveryCtx, issuerBase+c.cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	c.verifier = provider.Verifier(&oidc.Config{ClientID: c.cfg.ProjectID})
	return c.verifier, nil
}

// Ping probes provider reachability for the health monitor. The discovery
// document is public, so no credentials are needed.
func (c *IdentityClient) Ping(ctx context.Context) error {
	url := issuerBase + c.cfg.ProjectID + "/.well-known/openid-configuration"
	if c.cfg.EmulatorHost != "" {
		url = fmt.Sprintf("http://%s/", c.cfg.EmulatorHost)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("identity provider returned %d", resp.StatusCode)
	}
	return nil
}

func (c *IdentityClient) call(ctx context.Context, action string, payload accountRequest) (*accountResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.endpoint, action, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("identity provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var pErr providerError
		if err := json.NewDecoder(resp.Body).Decode(&pErr); err != nil || pErr.Error.Message == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "registration rejected")
		}
		return nil, domain.NewError(domain.ErrCodeInvalid, pErr.Error.Message)
	}

	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ repository.IdentityProvider = (*IdentityClient)(nil)
