// Package template defines the template engine interface used to render
// guard markup. The gotemplate subpackage provides the pongo2 implementation.
package template
