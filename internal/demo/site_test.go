package demo

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formguard/components/formguard"
	"github.com/goliatone/go-formguard/pkg/feedback"
	"github.com/goliatone/go-formguard/pkg/rules"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	component := formguard.New()
	router := chi.NewRouter()
	routes, err := component.Mount(router, "/")
	if err != nil {
		t.Fatalf("mount component: %v", err)
	}
	site, err := New(WithRoutes(routes))
	if err != nil {
		t.Fatalf("new site: %v", err)
	}
	if err := site.Mount(router, component); err != nil {
		t.Fatalf("mount site: %v", err)
	}
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestSite_ServesPages(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	if body := readBody(t, res); !strings.Contains(body, `href="/register"`) || !strings.Contains(body, `href="/questions/new"`) {
		t.Fatalf("expected links to demo pages, got:\n%s", body)
	}

	res, err = http.Get(srv.URL + Registration.Path)
	if err != nil {
		t.Fatalf("get register: %v", err)
	}
	body := readBody(t, res)
	for _, want := range []string{
		`id="register-form"`,
		`name="_formguard" value="register-form"`,
		`<option value="ST">Student</option>`,
		`src="/formguard/assets/formguard.js"`,
		`data-endpoint="/formguard/validate"`,
		`data-form-field="_formguard"`,
		`data-form-selector="form.needs-validation"`,
		`data-invalid-class="is-invalid"`,
		`data-feedback-class="invalid-feedback"`,
		`data-group-selector=".form-group, .mb-3"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in register page, got:\n%s", want, body)
		}
	}
}

func TestSite_RejectsInvalidRegistration(t *testing.T) {
	srv := newServer(t)

	values := url.Values{
		"_formguard": {"register-form"},
		"first_name": {"Ada"},
		"username":   {"ada lovelace"},
		"password":   {"Secret1!x"},
		"password2":  {"Secret1!y"},
	}
	res, err := http.PostForm(srv.URL+Registration.Path, values)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
	body := readBody(t, res)
	for _, want := range []string{
		rules.MsgLastNameRequired,
		rules.MsgUsernamePattern,
		rules.MsgConfirmMismatch,
		"data-formguard-banner",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in rejected page, got:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Secret1!") {
		t.Fatalf("expected password values to be scrubbed")
	}
}

func TestSite_AcceptsValidQuestion(t *testing.T) {
	srv := newServer(t)

	values := url.Values{
		"_formguard":     {"question-form"},
		"question_type":  {"MCQ"},
		"difficulty":     {"M"},
		"topics":         {"algebra", "geometry"},
		"question_text":  {"What is the sum of the angles of a triangle?"},
		"options.A":      {"90"},
		"options.B":      {"180"},
		"options.C":      {"270"},
		"options.D":      {"360"},
		"correct_answer": {"B"},
		"metadata":       {`{"source":"demo"}`},
	}
	res, err := http.PostForm(srv.URL+Question.Path, values)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body := readBody(t, res)
	if !strings.Contains(body, "Submission accepted.") || !strings.Contains(body, "algebra, geometry") {
		t.Fatalf("expected echoed submission, got:\n%s", body)
	}
	if strings.Contains(body, "question-form") {
		t.Fatalf("expected form marker to be omitted")
	}
}

func TestSite_SuccessOmitsPasswords(t *testing.T) {
	srv := newServer(t)

	values := url.Values{
		"first_name":  {"Ada"},
		"last_name":   {"Lovelace"},
		"username":    {"ada"},
		"email":       {"ada@example.com"},
		"role":        {rules.RoleStudent},
		"grade_level": {"7"},
		"password":    {"Secret1!x"},
		"password2":   {"Secret1!x"},
	}
	res, err := http.PostForm(srv.URL+Registration.Path, values)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, readBody(t, res))
	}
	body := readBody(t, res)
	if !strings.Contains(body, "ada@example.com") {
		t.Fatalf("expected email in success page, got:\n%s", body)
	}
	if strings.Contains(body, "Secret1!x") {
		t.Fatalf("expected passwords to be omitted")
	}
}

func TestSite_RuntimeSettingsFollowClasses(t *testing.T) {
	site, err := New(
		WithRoutes(formguard.Routes{Field: "/fg/validate", Assets: "/fg/assets"}),
		WithFormSelector("form.guarded"),
		WithClasses(feedback.Classes{Invalid: "border-red-500 ring-1", Group: ".field"}),
	)
	if err != nil {
		t.Fatalf("new site: %v", err)
	}
	markup, err := site.Render(Question)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(markup)
	for _, want := range []string{
		`data-endpoint="/fg/validate"`,
		`data-form-selector="form.guarded"`,
		`data-invalid-class="border-red-500 ring-1"`,
		`data-feedback-class="invalid-feedback"`,
		`data-group-selector=".field"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page, got:\n%s", want, body)
		}
	}
}

func TestSite_PageFuncUnknownPath(t *testing.T) {
	site, err := New()
	if err != nil {
		t.Fatalf("new site: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/elsewhere", nil)
	if _, err := site.PageFunc()(req); err == nil {
		t.Fatalf("expected unknown page error")
	}
}
