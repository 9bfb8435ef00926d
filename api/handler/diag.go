package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/firetask/backend/pkg/httpcontext"
)

// allowedMethods is the fixed Allow value advertised by the OPTIONS probe.
const allowedMethods = "OPTIONS, GET, POST, PUT, DELETE, PATCH, HEAD, TRACE"

// DiagHandler serves the protocol diagnostic endpoints. None of them touch
// external collaborators or require authentication.
type DiagHandler struct {
	baseHandler
}

func NewDiagHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *DiagHandler {
	return &DiagHandler{baseHandler: newBaseHandler(adapter, logger)}
}

// @Summary Advertise supported methods
// @Tags diagnostics
// @Router /options [options]
func (h *DiagHandler) Options(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Allow", allowedMethods)
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Header-only probe
// @Tags diagnostics
// @Router /head [head]
func (h *DiagHandler) Head(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusOK)
}

// Trace echoes the request back to the client per RFC 7231 section 4.3.8:
// every request header is reflected and the raw body is returned under
// Content-Type message/http.
func (h *DiagHandler) Trace(ctx *fasthttp.RequestCtx) {
	ctx.Request.Header.VisitAll(func(key, val []byte) {
		ctx.Response.Header.SetBytesKV(key, val)
	})
	ctx.Response.Header.SetContentType("message/http")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(ctx.PostBody())
}
