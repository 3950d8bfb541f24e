package formguard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formguard/pkg/runtime"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes reports where the component was mounted.
type Routes struct {
	Field  string
	Assets string
}

// Script returns the URL of the runtime script.
func (r Routes) Script() string {
	return r.Assets + "/" + runtime.ScriptName
}

// MountPath returns the field endpoint path under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// AssetsHandler serves the runtime assets relative to the request path.
func AssetsHandler() http.Handler {
	return http.FileServerFS(runtime.AssetsFS())
}

// RegisterRoutes registers the field endpoint and the runtime assets under
// basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers handlers under basePath using a
// pre-built Options value. Patterns follow http.ServeMux semantics.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("formguard: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	routes := Routes{
		Field:  mountPath(basePath, opts.RoutePath),
		Assets: mountPath(basePath, opts.AssetsPath),
	}
	mux.Handle(routes.Field, FieldHandlerWithOptions(opts))
	mux.Handle(routes.Assets+"/", http.StripPrefix(routes.Assets+"/", AssetsHandler()))
	return routes, nil
}

// Mount registers the component on a chi router under basePath.
func Mount(router chi.Router, basePath string, fns ...OptionFn) (Routes, error) {
	return MountWithOptions(router, basePath, NewOptions(fns...))
}

// MountWithOptions registers the component on a chi router using a pre-built
// Options value.
func MountWithOptions(router chi.Router, basePath string, opts Options) (Routes, error) {
	if router == nil {
		return Routes{}, fmt.Errorf("formguard: missing router")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	routes := Routes{
		Field:  mountPath(basePath, opts.RoutePath),
		Assets: mountPath(basePath, opts.AssetsPath),
	}
	router.Method(http.MethodPost, routes.Field, FieldHandlerWithOptions(opts))
	router.Method(http.MethodGet, routes.Assets+"/*", http.StripPrefix(routes.Assets+"/", AssetsHandler()))
	return routes, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	routePath = strings.TrimRight(routePath, "/")
	if routePath == "" {
		routePath = "/"
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
