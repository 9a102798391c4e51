package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/logger"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name"`
	Page int    `json:"page"`
}

type echoResponse struct {
	Name string `json:"name"`
	Page int    `json:"page"`
}

type envelope struct {
	Code  int64           `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func newTestRouter() *Router {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	return New(ctx)
}

func serve(t *testing.T, r *Router, req *http.Request) envelope {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "fail" {
		return nil, errorx.New(errorx.NotFound, "Not found %s", req.Name)
	}

	if req.Name == "panic" {
		return nil, errors.New("internal")
	}

	return &echoResponse{Name: req.Name, Page: req.Page}, nil
}

func Test_Router_GET(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", echo)

	resp := serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=abc&page=3", nil))
	require.Equal(t, int64(0), resp.Code)
	require.JSONEq(t, `{"name":"abc","page":3}`, string(resp.Data))

	resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=fail", nil))
	require.Equal(t, int64(errorx.NotFound), resp.Code)
	require.Equal(t, "Not found fail", resp.Error)

	resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=panic", nil))
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)

	resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?page=abc", nil))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)

	resp = serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", nil))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

func Test_Router_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", echo)

	resp := serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"x","page":1}`)))
	require.Equal(t, int64(0), resp.Code)
	require.JSONEq(t, `{"name":"x","page":1}`, string(resp.Data))

	resp = serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`)))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

type markerKey struct{}

func Test_Router_Middlewares(t *testing.T) {
	r := newTestRouter()

	var closed bool
	r.AddCloser(func(ctx context.Context) { closed = true })

	branch := r.Branch()
	branch.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("X-Block") != "" {
			return nil, errorx.New(errorx.PermissionDenied, "Blocked")
		}

		return context.WithValue(ctx, markerKey{}, "seen"), nil
	})

	GET(branch, "/marker", func(ctx context.Context, req *struct{}) (*echoResponse, error) {
		marker, _ := ctx.Value(markerKey{}).(string)
		return &echoResponse{Name: marker}, nil
	})

	resp := serve(t, r, httptest.NewRequest(http.MethodGet, "/marker", nil))
	require.JSONEq(t, `{"name":"seen","page":0}`, string(resp.Data))
	require.True(t, closed)

	req := httptest.NewRequest(http.MethodGet, "/marker", nil)
	req.Header.Set("X-Block", "1")
	resp = serve(t, r, req)
	require.Equal(t, int64(errorx.PermissionDenied), resp.Code)
}
