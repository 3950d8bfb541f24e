package formguard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/rules"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// fieldRequest is the body posted by the runtime on blur. Values accepts
// either a string or a list of strings per key.
type fieldRequest struct {
	Field  string      `json:"field"`
	Values fieldValues `json:"values"`
}

type fieldValues url.Values

func (v *fieldValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(fieldValues, len(raw))
	for key, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			out[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err != nil {
			return fmt.Errorf("values.%s: expected string or list of strings", key)
		}
		out[key] = []string{single}
	}
	*v = out
	return nil
}

// FieldHandler builds the per-field endpoint with default options plus any
// overrides.
func FieldHandler(fns ...OptionFn) http.Handler {
	return FieldHandlerWithOptions(NewOptions(fns...))
}

// FieldHandlerWithOptions builds the per-field endpoint from a pre-built
// Options value. It answers POST requests carrying {"field", "values"} with
// the field's result as JSON. Uploads are not checked here.
func FieldHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		var req fieldRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, opts.MaxBody))
		if err := dec.Decode(&req); err != nil {
			opts.Logger.Debug("rejecting field check body", zap.Error(err))
			writeStatusError(w, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		req.Field = strings.TrimSpace(req.Field)
		if req.Field == "" {
			writeStatusError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("formguard: field is required")})
			return
		}

		result := opts.FormGuard.Check(r.Context(), rules.ValuesContext{
			Field:  req.Field,
			Values: url.Values(req.Values),
		})
		writeJSON(w, http.StatusOK, result)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeStatusError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
