package formguard

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/rules"
)

// errorsResponse is the body sent to JSON clients on rejection.
type errorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

// Middleware gates submissions with default options plus any overrides.
func Middleware(page PageFunc, fns ...OptionFn) func(http.Handler) http.Handler {
	return MiddlewareWithOptions(page, NewOptions(fns...))
}

// MiddlewareWithOptions gates POST submissions. Other methods, pages without a
// guarded form and accepted submissions reach next.
// Rejected submissions get 422 with the annotated page, or the error bag for
// clients that accept JSON.
func MiddlewareWithOptions(page PageFunc, opts Options) func(http.Handler) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || page == nil {
				next.ServeHTTP(w, r)
				return
			}

			if err := parseSubmission(r, opts.MaxMemory); err != nil {
				opts.Logger.Debug("rejecting unparsable submission", zap.Error(err))
				writeStatusError(w, StatusError{Code: http.StatusBadRequest, Err: err})
				return
			}

			markup, err := page(r)
			if err != nil {
				opts.Logger.Error("formguard: load page", zap.Error(err))
				writeStatusError(w, err)
				return
			}
			doc, err := dom.Parse(bytes.NewReader(markup))
			if err != nil {
				opts.Logger.Error("formguard: parse page", zap.Error(err))
				writeStatusError(w, err)
				return
			}

			el := pickForm(doc, opts.Selector, r.PostForm.Get(opts.FormField))
			if el == nil {
				opts.Logger.Warn("form not found for selector", zap.String("selector", opts.Selector), zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}
			form, err := opts.FormGuard.AttachElement(doc, el, uploads(r.MultipartForm))
			if err != nil {
				opts.Logger.Error("formguard: attach", zap.Error(err))
				writeStatusError(w, err)
				return
			}
			defer form.Close()

			form.Bind(r.PostForm)

			outcome, err := form.Submit(r.Context())
			if err != nil {
				opts.Logger.Error("formguard: submit", zap.Error(err))
				writeStatusError(w, err)
				return
			}
			if outcome.Accepted() {
				next.ServeHTTP(w, r)
				return
			}

			opts.Logger.Info("rejected submission",
				zap.String("path", r.URL.Path),
				zap.Strings("fields", invalidNames(outcome)),
			)
			if acceptsJSON(r) {
				writeJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: outcome.Errors()})
				return
			}

			doc.Lock()
			dom.ScrubPasswords(form.Element())
			var buf bytes.Buffer
			err = doc.Render(&buf)
			doc.Unlock()
			if err != nil {
				writeStatusError(w, fmt.Errorf("formguard: render page: %w", err))
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write(buf.Bytes())
		})
	}
}

// pickForm returns the guarded form whose id matches id, or the first guarded
// form in the page. Ids that name an unguarded form are ignored.
func pickForm(doc *dom.Document, selector, id string) *dom.Element {
	doc.Lock()
	defer doc.Unlock()

	candidates := doc.QueryAll(selector)
	if len(candidates) == 0 {
		return nil
	}
	if id = strings.TrimSpace(id); id != "" {
		for _, candidate := range candidates {
			if candidate.ID() == id {
				return candidate
			}
		}
	}
	return candidates[0]
}

func parseSubmission(r *http.Request, maxMemory int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// uploads exposes the first file of every multipart field to the rules.
func uploads(form *multipart.Form) map[string]*rules.FileInfo {
	if form == nil || len(form.File) == 0 {
		return nil
	}
	out := make(map[string]*rules.FileInfo, len(form.File))
	for name, headers := range form.File {
		if len(headers) == 0 || headers[0] == nil || headers[0].Filename == "" {
			continue
		}
		header := headers[0]
		out[name] = &rules.FileInfo{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		}
	}
	return out
}

func acceptsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")) {
			return true
		}
	}
	return false
}

func invalidNames(outcome guard.Outcome) []string {
	invalid := outcome.Invalid()
	names := make([]string, 0, len(invalid))
	for _, field := range invalid {
		names = append(names, field.Name)
	}
	return names
}
