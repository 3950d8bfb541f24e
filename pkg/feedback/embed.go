package feedback

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// BannerTemplate names the template used for the form-level banner.
const BannerTemplate = "banner"

// TemplatesFS exposes the embedded banner template so hosts can render it
// through their own engine or copy it into a theme.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
