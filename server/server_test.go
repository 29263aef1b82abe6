package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/royalcat/islandsupport/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	s, err := newServer(sampler.New(sampler.ConfigDefault(), sampler.WithLogger(slog.New(slog.DiscardHandler))))
	require.NoError(t, err)
	return s
}

func getRequestCtx(method, uri, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	ctx.Request.SetBodyString(body)
	return ctx
}

func TestSampleHandler(t *testing.T) {
	s := newTestServer(t)

	ctx := getRequestCtx(http.MethodPost, "/sample",
		`{"id":"line","nodes":[{"x":0,"y":0,"width":1},{"x":10,"y":0,"width":1},{"x":20,"y":0,"width":1},{"x":30,"y":0,"width":1},{"x":40,"y":0,"width":1}],
		  "edges":[{"from":0,"to":1},{"from":1,"to":2},{"from":2,"to":3},{"from":3,"to":4}]}`)
	s.router().Handler(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "application/geo+json", string(ctx.Response.Header.ContentType()))

	var out struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	assert.Equal(t, "FeatureCollection", out.Type)
	require.Len(t, out.Features, 8)
	for _, f := range out.Features {
		assert.Equal(t, "line", f.Properties["island"])
	}
}

func TestSampleHandlerBadRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `[1,2`},
		{"unknown field", `{"nodes":[],"edges":[],"extra":1}`},
		{"invalid graph", `{"nodes":[{"x":0,"y":0}],"edges":[{"from":0,"to":5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := getRequestCtx(http.MethodPost, "/sample", tt.body)
			s.router().Handler(ctx)
			assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
			assert.NotEmpty(t, ctx.Response.Body())
		})
	}
}

func TestSampleHandlerMethod(t *testing.T) {
	s := newTestServer(t)

	ctx := getRequestCtx(http.MethodGet, "/sample", "")
	s.router().Handler(ctx)
	assert.Equal(t, http.StatusMethodNotAllowed, ctx.Response.StatusCode())
}
