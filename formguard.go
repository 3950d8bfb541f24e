// Package formguard validates submitted HTML forms on the server. The root
// package re-exports the entry points most hosts need; the pieces live in
// pkg/guard, pkg/registry, pkg/feedback and components/formguard.
package formguard

import (
	"bytes"
	"context"
	"io/fs"
	"net/url"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/feedback"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/registry"
	"github.com/goliatone/go-formguard/pkg/runtime"
)

// Guard aliases guard.Guard.
type Guard = guard.Guard

// Form aliases guard.Form.
type Form = guard.Form

// Option aliases guard.Option.
type Option = guard.Option

// Outcome aliases guard.Outcome.
type Outcome = guard.Outcome

// FieldResult aliases guard.FieldResult.
type FieldResult = guard.FieldResult

// New builds a guard with the default rule registry unless WithRegistry is
// passed.
func New(options ...Option) *Guard {
	return guard.New(options...)
}

// DefaultRegistry returns a registry holding the built-in field rules.
func DefaultRegistry(options ...registry.Option) *registry.Registry {
	return registry.Default(options...)
}

// ValidateHTML parses a page, binds values into the guarded form and runs a
// submission. It returns the outcome and the page markup with annotations,
// banner and password values removed.
func ValidateHTML(ctx context.Context, markup []byte, values url.Values, options ...Option) (Outcome, []byte, error) {
	g := guard.New(options...)
	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		return Outcome{}, nil, err
	}
	form, err := g.Attach(doc, g.Selector(), nil)
	if err != nil {
		return Outcome{}, nil, err
	}
	defer form.Close()

	form.Bind(values)

	outcome, err := form.Submit(ctx)
	if err != nil {
		return Outcome{}, nil, err
	}

	doc.Lock()
	defer doc.Unlock()
	dom.ScrubPasswords(form.Element())
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return outcome, nil, err
	}
	return outcome, buf.Bytes(), nil
}

// RuntimeAssetsFS exposes the browser runtime so hosts can serve it without
// the component routes.
//
// Typical mount:
//
//	mux.Handle("/formguard/assets/",
//	  http.StripPrefix("/formguard/assets/",
//	    http.FileServerFS(formguard.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return runtime.AssetsFS()
}

// EmbeddedTemplates exposes the built-in banner template so callers can
// reuse or restyle it.
func EmbeddedTemplates() fs.FS {
	return feedback.TemplatesFS()
}
