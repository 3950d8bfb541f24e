package template

import (
	"io"
)

// TemplateRenderer is the seam between markup producers (banner, demo pages)
// and the engine that executes templates.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
