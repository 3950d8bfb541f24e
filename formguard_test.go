package formguard

import (
	"context"
	"io/fs"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/runtime"
)

const page = `<!doctype html><html><body>
<form class="needs-validation">
  <div class="mb-3"><input id="email" name="email"></div>
  <div class="mb-3"><input id="password" name="password" type="password"></div>
</form>
</body></html>`

func TestValidateHTML_Rejected(t *testing.T) {
	outcome, markup, err := ValidateHTML(context.Background(), []byte(page), url.Values{
		"email":    {"nope"},
		"password": {"Secret1!x"},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if outcome.Accepted() {
		t.Fatalf("expected rejection")
	}
	html := string(markup)
	if !strings.Contains(html, rules.MsgEmailInvalid) || !strings.Contains(html, "data-formguard-banner") {
		t.Fatalf("expected annotated markup, got:\n%s", html)
	}
	if strings.Contains(html, "Secret1!x") {
		t.Fatalf("expected password to be scrubbed")
	}
}

func TestValidateHTML_Accepted(t *testing.T) {
	outcome, _, err := ValidateHTML(context.Background(), []byte(page), url.Values{
		"email":    {"ada@example.com"},
		"password": {"Secret1!x"},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !outcome.Accepted() || outcome.Errors() != nil {
		t.Fatalf("expected acceptance, got %#v", outcome)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if !DefaultRegistry().Has("options.A") {
		t.Fatalf("expected built-in option rule")
	}
}

func TestRuntimeAssetsFSContainsRuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), runtime.ScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-formguard-dismiss-after") {
		t.Fatalf("expected runtime script to handle banner expiry")
	}
	for _, name := range []string{"invalid-class", "feedback-class", "group-selector", "form-selector"} {
		if !strings.Contains(string(data), `setting("`+name+`"`) {
			t.Fatalf("expected runtime script to read data-%s from its script tag", name)
		}
	}
}

func TestEmbeddedTemplatesContainsBanner(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "banner.tpl"); err != nil {
		t.Fatalf("expected banner template: %v", err)
	}
}
