package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. It may return a derived
// context for the rest of the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, even if the handler or a
// middleware failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	rootCtx context.Context
	mux     *http.ServeMux

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New returns a router whose requests inherit the values of rootCtx, such as
// configs, logger and database.
func New(rootCtx context.Context) *Router {
	r := &Router{
		rootCtx: rootCtx,
		mux:     http.NewServeMux(),
	}

	r.AddCloser(handleResponse())
	return r
}

// Branch returns a router which shares the routes of r and starts with a copy
// of its middlewares.
func (r *Router) Branch() *Router {
	clone := &Router{
		rootCtx: r.rootCtx,
		mux:     r.mux,
	}

	clone.befores = append(clone.befores, r.befores...)
	clone.afters = append(clone.afters, r.afters...)
	clone.closers = append(clone.closers, r.closers...)
	return clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

// AddCloser registers a closer. Closers run in reverse order of registration,
// so the response writer registered by New runs last.
func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append([]CloserFunc{c}, r.closers...)
}

// Handle mounts a plain http handler, bypassing middlewares.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := r.befores
	afters := r.afters
	closers := r.closers

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := r.rootCtx
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		defer func() {
			for _, c := range closers {
				c(ctx)
			}
		}()

		if req.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Method %s is not allowed", req.Method))
			return
		}

		var err error
		for _, m := range befores {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}

		var request Request
		if err := bind(req, &request); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request of %s: %v", pattern, err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		for _, m := range afters {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}
	})
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if err != nil {
		return ctx, err
	}

	if newCtx == nil {
		return ctx, nil
	}

	return newCtx, nil
}

// bind decodes query parameters for GET requests and the json body
// otherwise. Query values are matched against the json tags of the request.
func bind(req *http.Request, v any) error {
	if req.Method == http.MethodGet {
		query := map[string]any{}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           v,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(query)
	}

	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}

	return json.NewDecoder(req.Body).Decode(v)
}
