package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/render/template"
	"github.com/goliatone/go-formguard/pkg/render/template/gotemplate"
)

const (
	// DefaultBannerMessage is shown when a submission is rejected.
	DefaultBannerMessage = "Please fix the errors in the form before submitting."
	// DefaultDismissAfter is how long the banner stays in the page.
	DefaultDismissAfter = 5 * time.Second
	// BannerSelector matches banners inserted by Banner.
	BannerSelector = "[data-formguard-banner]"

	annotationSuffix = "-error"
)

// ErrEmptyBanner is returned when the banner template renders no element.
var ErrEmptyBanner = errors.New("feedback: banner template produced no element")

// Renderer writes validation results into a parsed page. Its methods do not
// lock the document; callers hold Document.Lock while rendering.
type Renderer struct {
	classes      Classes
	engine       template.TemplateRenderer
	logger       *zap.Logger
	message      string
	dismissAfter time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClasses replaces the class set. Empty entries keep their defaults.
func WithClasses(classes Classes) Option {
	return func(r *Renderer) {
		r.classes = classes
	}
}

// WithSelection derives the class set from a go-theme selection.
func WithSelection(selection *theme.Selection) Option {
	return func(r *Renderer) {
		if selection != nil {
			r.classes = ClassesFromSelection(selection)
		}
	}
}

// WithTemplateRenderer renders the banner through engine instead of the
// embedded template. The engine must resolve BannerTemplate.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBannerMessage overrides the banner text. Inline formatting tags are
// kept; everything else is stripped.
func WithBannerMessage(message string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(message) != "" {
			r.message = message
		}
	}
}

// WithDismissAfter sets the delay advertised to the browser runtime through
// data-formguard-dismiss-after.
func WithDismissAfter(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.dismissAfter = d
		}
	}
}

// New builds a Renderer. Without WithTemplateRenderer the embedded banner
// template is loaded through the pongo2 engine.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		classes:      DefaultClasses(),
		logger:       zap.NewNop(),
		message:      DefaultBannerMessage,
		dismissAfter: DefaultDismissAfter,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.classes = r.classes.normalized()

	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("feedback: init template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Classes returns the class set in use.
func (r *Renderer) Classes() Classes {
	return r.classes
}

// DismissAfter returns the advertised banner lifetime.
func (r *Renderer) DismissAfter() time.Duration {
	return r.dismissAfter
}

// AnnotationID returns the id of the annotation linked to field: the field id,
// or its name when it has none, followed by "-error".
func AnnotationID(field *dom.Element) string {
	base := field.ID()
	if base == "" {
		base = field.Name()
	}
	return base + annotationSuffix
}

// Show renders message for field. The field's earlier annotation is removed
// first, so repeated calls leave at most one. Annotations of other fields
// sharing the group are kept. An empty message marks the field valid. Hidden
// fields are never decorated.
func (r *Renderer) Show(field *dom.Element, message string) {
	if field == nil || field.Hidden() {
		return
	}
	group := field.Closest(r.classes.Group)
	if group == nil {
		r.logger.Warn("no field group found for field",
			zap.String("field", field.Name()),
			zap.String("selector", r.classes.Group),
		)
		return
	}

	id := AnnotationID(field)
	for _, existing := range group.QueryAll(r.classes.feedbackSelector()) {
		if owner := existing.ID(); owner == "" || owner == id {
			existing.Remove()
		}
	}

	if message == "" {
		removeClasses(field, r.classes.Invalid)
		field.RemoveAttr("aria-describedby")
		return
	}

	addClasses(field, r.classes.Invalid)
	annotation := field.Document().CreateElement("div",
		html.Attribute{Key: "class", Val: r.classes.Feedback},
		html.Attribute{Key: "id", Val: id},
	)
	annotation.SetText(message)
	group.AppendChild(annotation)
	field.SetAttr("aria-describedby", id)
}

// ClearAll removes every annotation and invalid marker inside form.
func (r *Renderer) ClearAll(form *dom.Element) {
	if form == nil {
		return
	}
	for _, field := range form.QueryAll(r.classes.invalidSelector()) {
		removeClasses(field, r.classes.Invalid)
		field.RemoveAttr("aria-describedby")
	}
	for _, annotation := range form.QueryAll(r.classes.feedbackSelector()) {
		annotation.Remove()
	}
}

// Banner prepends the rejection banner to form, replacing any banner already
// there, and returns it so the caller can schedule its removal.
func (r *Renderer) Banner(form *dom.Element) (*dom.Element, error) {
	if form == nil {
		return nil, errors.New("feedback: nil form")
	}
	markup, err := r.engine.RenderTemplate(BannerTemplate, map[string]any{
		"classes":       r.classes.Banner,
		"message":       dom.SanitizeInline(r.message),
		"dismiss_after": r.dismissAfter.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("feedback: render banner: %w", err)
	}

	nodes, err := form.Document().ParseFragment(markup, form)
	if err != nil {
		return nil, fmt.Errorf("feedback: parse banner: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyBanner
	}

	for _, existing := range form.QueryAll(BannerSelector) {
		existing.Remove()
	}
	banner := nodes[0]
	form.PrependChild(banner)
	return banner, nil
}

func addClasses(el *dom.Element, classes string) {
	for _, class := range strings.Fields(classes) {
		el.AddClass(class)
	}
}

func removeClasses(el *dom.Element, classes string) {
	for _, class := range strings.Fields(classes) {
		el.RemoveClass(class)
	}
}
