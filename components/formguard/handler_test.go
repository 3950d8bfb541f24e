package formguard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/rules"
)

func checkField(t *testing.T, h http.Handler, body string) (int, guard.FieldResult) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, defaultRoutePath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var result guard.FieldResult
	if rec.Code == http.StatusOK {
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("expected JSON content-type, got %q", ct)
		}
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec.Code, result
}

func TestFieldHandler_ReturnsRuleMessage(t *testing.T) {
	h := FieldHandler()

	code, result := checkField(t, h, `{"field":"password2","values":{"password":"Abcdefg1!","password2":["x"]}}`)
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	want := guard.FieldResult{Name: "password2", Message: rules.MsgConfirmMismatch}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	_, result = checkField(t, h, `{"field":"topics","values":{"topics":["math","art"]}}`)
	if !result.Valid {
		t.Fatalf("expected topics with two selections to pass, got %#v", result)
	}

	_, result = checkField(t, h, `{"field":"grade_level","values":{"role":"TE"}}`)
	if !result.Valid {
		t.Fatalf("expected grade level optional for teachers, got %#v", result)
	}
}

func TestFieldHandler_UnknownFieldSkipped(t *testing.T) {
	_, result := checkField(t, FieldHandler(), `{"field":"nickname","values":{}}`)
	if !result.Valid || !result.Skipped {
		t.Fatalf("expected skipped pass, got %#v", result)
	}
}

func TestFieldHandler_BadRequests(t *testing.T) {
	h := FieldHandler()
	for _, body := range []string{`{`, `{"field":""}`, `{"field":"x","values":{"a":1}}`} {
		if code, _ := checkField(t, h, body); code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, code)
		}
	}
}

func TestFieldHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	FieldHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, defaultRoutePath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected Allow header, got %q", rec.Header().Get("Allow"))
	}
}

func TestFieldHandler_GuardRejects(t *testing.T) {
	h := FieldHandler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))
	if code, _ := checkField(t, h, `{"field":"email","values":{}}`); code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", code)
	}
}
