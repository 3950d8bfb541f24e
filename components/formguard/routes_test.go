package formguard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/app"); got != "/app/formguard/validate" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("app/", WithRoutePath("check/")); got != "/app/check" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath(""); got != defaultRoutePath {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func assertRoutes(t *testing.T, h http.Handler, routes Routes) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, routes.Field, strings.NewReader(`{"field":"email","values":{"email":"a@b.co"}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected field endpoint status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, routes.Script(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected script status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "data-formguard-dismiss-after") {
		t.Fatalf("expected runtime script body")
	}
}

func TestRegisterRoutes_ServeMux(t *testing.T) {
	mux := http.NewServeMux()
	routes, err := RegisterRoutes(mux, "/app")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if routes.Script() != "/app/formguard/assets/formguard.js" {
		t.Fatalf("unexpected script path %q", routes.Script())
	}
	assertRoutes(t, mux, routes)
}

func TestMount_Chi(t *testing.T) {
	router := chi.NewRouter()
	routes, err := New().Mount(router, "/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertRoutes(t, router, routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, routes.Field, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected chi to reject GET on the field endpoint, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
