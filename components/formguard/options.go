package formguard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/guard"
)

const (
	defaultRoutePath  = "/formguard/validate"
	defaultAssetsPath = "/formguard/assets"
	defaultFormField  = "_formguard"
	defaultMaxMemory  = 32 << 20
	defaultMaxBody    = 1 << 20
)

// GuardFunc authorises a request before the field endpoint runs.
type GuardFunc func(r *http.Request) error

// PageFunc returns the markup of the page a submission came from.
type PageFunc func(r *http.Request) ([]byte, error)

type Options struct {
	RoutePath  string
	AssetsPath string
	// FormField names the hidden input carrying the id of the submitted form.
	FormField string
	// Selector picks the form when the request carries no FormField value.
	Selector  string
	MaxMemory int64
	MaxBody   int64
	Guard     GuardFunc

	FormGuard *guard.Guard
	Logger    *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:  defaultRoutePath,
		AssetsPath: defaultAssetsPath,
		FormField:  defaultFormField,
		Selector:   guard.DefaultSelector,
		MaxMemory:  defaultMaxMemory,
		MaxBody:    defaultMaxBody,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.AssetsPath == "" {
		opts.AssetsPath = defaultAssetsPath
	}
	if opts.FormField == "" {
		opts.FormField = defaultFormField
	}
	if opts.Selector == "" {
		opts.Selector = guard.DefaultSelector
	}
	if opts.MaxMemory <= 0 {
		opts.MaxMemory = defaultMaxMemory
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FormGuard == nil {
		opts.FormGuard = guard.New(guard.WithLogger(opts.Logger), guard.WithSelector(opts.Selector))
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithAssetsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetsPath = path
	}
}

func WithFormField(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormField = name
	}
}

func WithSelector(selector string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Selector = selector
	}
}

func WithMaxMemory(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxMemory = n
	}
}

func WithMaxBody(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBody = n
	}
}

func WithGuard(fn GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = fn
	}
}

// WithFormGuard sets the guard used for validation. Without it a guard with
// the default registry is built.
func WithFormGuard(g *guard.Guard) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormGuard = g
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
