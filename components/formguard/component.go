package formguard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Component bundles the middleware, field handler and routes around one
// Options value so the guard is built once.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return c.opts
}

// Middleware gates submissions of the pages produced by page.
func (c *Component) Middleware(page PageFunc) func(http.Handler) http.Handler {
	return MiddlewareWithOptions(page, c.Options())
}

// FieldHandler returns the per-field check endpoint.
func (c *Component) FieldHandler() http.Handler {
	return FieldHandlerWithOptions(c.Options())
}

// RegisterRoutes registers the field endpoint and runtime assets under
// basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}

// Mount registers the field endpoint and runtime assets on a chi router.
func (c *Component) Mount(router chi.Router, basePath string) (Routes, error) {
	return MountWithOptions(router, basePath, c.Options())
}
