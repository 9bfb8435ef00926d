package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/firetask/backend/domain"
	authUC "github.com/firetask/backend/usecase/auth"
)

type fakeIdentityProvider struct {
	uid       string
	signUpErr error
	signInErr error
}

func (f *fakeIdentityProvider) SignUp(_ context.Context, email, password string) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.uid, nil
}

func (f *fakeIdentityProvider) SignIn(_ context.Context, email, password string) (*domain.Credentials, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &domain.Credentials{AccessToken: "token-123", TokenType: "bearer"}, nil
}

func (f *fakeIdentityProvider) Verify(_ context.Context, rawToken string) (*domain.Identity, error) {
	return &domain.Identity{UID: f.uid}, nil
}

func newAuthTestHandler(provider *fakeIdentityProvider) *AuthHandler {
	return NewAuthHandler(authUC.New(provider, nil), nil, nil)
}

func newFormCtx(uri, form string) *fasthttp.RequestCtx {
	ctx := newRequestCtx(http.MethodPost, uri, "", []byte(form))
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	return ctx
}

func TestRegisterSuccess(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{uid: "uid-1"})

	ctx := newRequestCtx(http.MethodPost, "/register", "",
		[]byte(`{"email":"a@example.com","password":"secret12"}`))
	h.Register(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	require.JSONEq(t,
		`{"message":"User registered successfully","user_uid":"uid-1"}`,
		string(ctx.Response.Body()))
}

func TestRegisterProviderRejection(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{
		signUpErr: domain.NewError(domain.ErrCodeInvalid, "EMAIL_EXISTS"),
	})

	ctx := newRequestCtx(http.MethodPost, "/register", "",
		[]byte(`{"email":"a@example.com","password":"secret12"}`))
	h.Register(ctx)

	require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	require.JSONEq(t, `{"detail":"EMAIL_EXISTS"}`, string(ctx.Response.Body()))
}

func TestRegisterMalformedBody(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{uid: "uid-1"})

	ctx := newRequestCtx(http.MethodPost, "/register", "", []byte(`{"email":""}`))
	h.Register(ctx)
	require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestLoginSuccess(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{uid: "uid-1"})

	ctx := newFormCtx("/login", "username=a%40example.com&password=secret12")
	h.Login(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	require.JSONEq(t,
		`{"access_token":"token-123","token_type":"bearer"}`,
		string(ctx.Response.Body()))
}

func TestLoginFailureIsUniform(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{signInErr: domain.ErrLoginFailed})

	ctx := newFormCtx("/login", "username=a%40example.com&password=wrong")
	h.Login(ctx)

	require.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	require.JSONEq(t, `{"detail":"Login failed"}`, string(ctx.Response.Body()))
}

func TestLoginMissingCredentials(t *testing.T) {
	h := newAuthTestHandler(&fakeIdentityProvider{uid: "uid-1"})

	ctx := newFormCtx("/login", "")
	h.Login(ctx)
	require.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}
