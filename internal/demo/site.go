// Package demo serves the sample registration and question pages used by
// `formguard serve`.
package demo

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/components/formguard"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/feedback"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/render/template"
	"github.com/goliatone/go-formguard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formguard/pkg/rules"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// ErrUnknownPage is returned when a path has no demo page.
var ErrUnknownPage = errors.New("demo: unknown page")

// Page describes one guarded demo form.
type Page struct {
	Name  string
	Path  string
	Title string
}

var (
	// Registration is the account sign-up form.
	Registration = Page{Name: "register", Path: "/register", Title: "Create account"}
	// Question is the multiple-choice question authoring form.
	Question = Page{Name: "question", Path: "/questions/new", Title: "New question"}
)

// Pages lists the demo pages in menu order.
func Pages() []Page {
	return []Page{Registration, Question}
}

// Topics offered by the question form.
var Topics = []string{"algebra", "geometry", "statistics", "calculus"}

type choice struct {
	Value string
	Label string
}

// Site renders the demo pages.
type Site struct {
	engine       template.TemplateRenderer
	logger       *zap.Logger
	script       string
	endpoint     string
	formField    string
	formSelector string
	classes      feedback.Classes
	pages        map[string]Page
}

// Option configures a Site.
type Option func(*Site)

// WithLogger sets the site logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Site) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRoutes points pages at the mounted field endpoint and runtime script.
func WithRoutes(routes formguard.Routes) Option {
	return func(s *Site) {
		s.endpoint = routes.Field
		s.script = routes.Script()
	}
}

// WithFormField names the hidden input that identifies the submitted form.
func WithFormField(name string) Option {
	return func(s *Site) {
		if strings.TrimSpace(name) != "" {
			s.formField = name
		}
	}
}

// WithFormSelector sets the selector the browser runtime attaches to.
func WithFormSelector(selector string) Option {
	return func(s *Site) {
		if strings.TrimSpace(selector) != "" {
			s.formSelector = selector
		}
	}
}

// WithClasses hands the annotation classes used server side to the browser
// runtime. Empty entries keep their defaults.
func WithClasses(classes feedback.Classes) Option {
	return func(s *Site) {
		s.classes = classes.WithDefaults()
	}
}

// New builds a site over the embedded templates. Runtime settings are seeded
// as template globals.
func New(opts ...Option) (*Site, error) {
	site := &Site{
		logger:       zap.NewNop(),
		formField:    "_formguard",
		formSelector: guard.DefaultSelector,
		classes:      feedback.DefaultClasses(),
		pages:        make(map[string]Page),
	}
	for _, page := range Pages() {
		site.pages[page.Path] = page
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(site)
	}

	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("demo: templates: %w", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(sub),
		gotemplate.WithGlobals(site.globals()),
	)
	if err != nil {
		return nil, fmt.Errorf("demo: template engine: %w", err)
	}
	site.engine = engine
	return site, nil
}

// Lookup returns the page served at path.
func (s *Site) Lookup(path string) (Page, bool) {
	page, ok := s.pages[strings.TrimSuffix(path, "/")]
	return page, ok
}

// Render returns the markup of page.
func (s *Site) Render(page Page) ([]byte, error) {
	out, err := s.engine.RenderTemplate(page.Name, s.pageData(page))
	if err != nil {
		return nil, fmt.Errorf("demo: render %s: %w", page.Name, err)
	}
	return []byte(out), nil
}

// PageFunc resolves the page a submission was posted from by request path.
func (s *Site) PageFunc() formguard.PageFunc {
	return func(r *http.Request) ([]byte, error) {
		page, ok := s.Lookup(r.URL.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPage, r.URL.Path)
		}
		return s.Render(page)
	}
}

// IndexHandler lists the demo pages.
func (s *Site) IndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages := make([]map[string]any, 0, len(s.pages))
		for _, page := range Pages() {
			pages = append(pages, map[string]any{"path": page.Path, "title": page.Title})
		}
		s.write(w, "index", map[string]any{"title": "Form Guard demo", "pages": pages})
	})
}

// PageHandler serves the blank form.
func (s *Site) PageHandler(page Page) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.write(w, page.Name, s.pageData(page))
	})
}

// SuccessHandler echoes an accepted submission. Password inputs of the page
// and the form marker field are left out.
func (s *Site) SuccessHandler(page Page) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.PostForm == nil {
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		secret, err := s.secretFields(page)
		if err != nil {
			s.logger.Error("demo: inspect page", zap.String("page", page.Name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		names := make([]string, 0, len(r.PostForm))
		for name := range r.PostForm {
			if name == s.formField || slices.Contains(secret, name) {
				continue
			}
			names = append(names, name)
		}
		slices.Sort(names)

		entries := make([]map[string]any, 0, len(names))
		for _, name := range names {
			entries = append(entries, map[string]any{"name": name, "value": strings.Join(r.PostForm[name], ", ")})
		}
		if r.MultipartForm != nil {
			for name, files := range r.MultipartForm.File {
				if len(files) > 0 {
					entries = append(entries, map[string]any{"name": name, "value": files[0].Filename})
				}
			}
		}

		s.logger.Info("accepted submission", zap.String("page", page.Name), zap.Int("fields", len(entries)))
		s.write(w, "success", map[string]any{
			"title":   page.Title,
			"entries": entries,
			"back":    page.Path,
		})
	})
}

// Mount registers the index, the blank pages and their guarded submissions on
// router.
func (s *Site) Mount(router chi.Router, component *formguard.Component) error {
	if router == nil {
		return fmt.Errorf("demo: router is nil")
	}
	if component == nil {
		return fmt.Errorf("demo: component is nil")
	}
	router.Get("/", s.IndexHandler().ServeHTTP)
	guarded := component.Middleware(s.PageFunc())
	for _, page := range Pages() {
		router.Get(page.Path, s.PageHandler(page).ServeHTTP)
		router.With(guarded).Post(page.Path, s.SuccessHandler(page).ServeHTTP)
	}
	return nil
}

func (s *Site) pageData(page Page) map[string]any {
	data := map[string]any{
		"title":  page.Title,
		"action": page.Path,
	}
	switch page.Name {
	case Registration.Name:
		data["roles"] = []choice{
			{Value: rules.RoleStudent, Label: "Student"},
			{Value: rules.RoleTeacher, Label: "Teacher"},
			{Value: rules.RoleAdmin, Label: "Administrator"},
		}
		data["genders"] = []choice{
			{Value: "MA", Label: "Male"},
			{Value: "FE", Label: "Female"},
			{Value: "UD", Label: "Undisclosed"},
		}
		grades := make([]string, 0, 12)
		for i := 1; i <= 12; i++ {
			grades = append(grades, fmt.Sprint(i))
		}
		data["grades"] = grades
	case Question.Name:
		data["difficulties"] = []choice{
			{Value: "E", Label: "Easy"},
			{Value: "M", Label: "Medium"},
			{Value: "H", Label: "Hard"},
		}
		data["topics"] = Topics
		data["letters"] = rules.OptionLetters
	}
	return data
}

func (s *Site) globals() map[string]any {
	return map[string]any{
		"script":         s.script,
		"endpoint":       s.endpoint,
		"form_field":     s.formField,
		"form_selector":  s.formSelector,
		"invalid_class":  s.classes.Invalid,
		"feedback_class": s.classes.Feedback,
		"group_selector": s.classes.Group,
	}
}

func (s *Site) secretFields(page Page) ([]string, error) {
	markup, err := s.Render(page)
	if err != nil {
		return nil, err
	}
	doc, err := dom.ParseString(string(markup))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, input := range doc.QueryAll("input") {
		if input.Type() == "password" && input.Name() != "" {
			names = append(names, input.Name())
		}
	}
	return names, nil
}

func (s *Site) write(w http.ResponseWriter, name string, data map[string]any) {
	out, err := s.engine.RenderTemplate(name, data)
	if err != nil {
		s.logger.Error("demo: render", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
