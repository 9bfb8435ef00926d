package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionsAdvertisesAllowedMethods(t *testing.T) {
	h := NewDiagHandler(nil, nil)

	ctx := newRequestCtx(http.MethodOptions, "/options", "", nil)
	h.Options(ctx)

	require.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	require.Equal(t,
		"OPTIONS, GET, POST, PUT, DELETE, PATCH, HEAD, TRACE",
		string(ctx.Response.Header.Peek("Allow")))
	require.Empty(t, ctx.Response.Body())
}

func TestOptionsIgnoresAuthState(t *testing.T) {
	h := NewDiagHandler(nil, nil)

	// No Authorization header, no X-User-ID: still 204.
	ctx := newRequestCtx(http.MethodOptions, "/options", "", nil)
	h.Options(ctx)
	require.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
}

func TestHeadReturnsEmptyOK(t *testing.T) {
	h := NewDiagHandler(nil, nil)

	ctx := newRequestCtx(http.MethodHead, "/head", "", nil)
	h.Head(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	require.Empty(t, ctx.Response.Body())
}

func TestTraceEchoesRequest(t *testing.T) {
	h := NewDiagHandler(nil, nil)

	ctx := newRequestCtx("TRACE", "/trace", "", []byte("probe body"))
	ctx.Request.Header.Set("X-Probe", "42")
	h.Trace(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, "message/http", string(ctx.Response.Header.ContentType()))
	require.Equal(t, "42", string(ctx.Response.Header.Peek("X-Probe")))
	require.Equal(t, "probe body", string(ctx.Response.Body()))
}
