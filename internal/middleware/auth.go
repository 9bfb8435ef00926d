package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/firetask/backend/api/transport"
	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

// Authenticate verifies the bearer token on every request against the
// identity provider and stashes the caller uid in the X-User-ID header for
// downstream handlers. No verification result is cached.
func Authenticate(verifier repository.TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			// Never trust a client-supplied uid header.
			ctx.Request.Header.Del("X-User-ID")

			token := extractToken(ctx)
			if token == "" {
				reject(ctx, domain.ErrTokenMissing)
				return
			}

			identity, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.Warn("token rejected", zap.Error(err))
				var dErr *domain.Error
				if !errors.As(err, &dErr) || dErr.Code != domain.ErrCodeUnauthorized {
					// Anything other than a clear verdict on the token itself
					// collapses into the generic header complaint.
					dErr = domain.ErrTokenMissing
				}
				reject(ctx, dErr)
				return
			}

			ctx.Request.Header.Set("X-User-ID", identity.UID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func reject(ctx *fasthttp.RequestCtx, err *domain.Error) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.ErrorResponse{Detail: err.Message})
	ctx.SetBody(body)
}
