package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":  {Data: []byte(`Hello {{ name }}`)},
		"layout.tpl": {Data: []byte(`<script src="{{ script }}"></script>{% block content %}{% endblock %}`)},
		"page.tpl":   {Data: []byte(`{% extends "layout.tpl" %}{% block content %}<h1>{{ title }}</h1>{% endblock %}`)},
		"banner.tpl": {Data: []byte(`<div class="{{ classes|classes }}">{{ message|inline }}</div>`)},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var written strings.Builder
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &written)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada" {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", "Hello Ada", result)
	}
	if written.String() != result {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", result, written.String())
	}
	if _, err := engine.RenderTemplate("hello.tpl", nil); err != nil {
		t.Fatalf("expected explicit extension to resolve: %v", err)
	}
}

func TestEngine_GlobalsAndInheritance(t *testing.T) {
	engine := newEngine(t, WithGlobals(map[string]any{
		"script": "/formguard/assets/formguard.js",
		"title":  "global title",
	}))

	result, err := engine.RenderTemplate("page", map[string]any{"title": "Create account"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<script src="/formguard/assets/formguard.js"></script><h1>Create account</h1>`
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_BannerFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("banner", map[string]any{
		"classes": "  alert\n alert-danger ",
		"message": `<strong>Fix</strong> it <script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result, `class="alert alert-danger"`) {
		t.Fatalf("expected collapsed class list, got %q", result)
	}
	if !strings.Contains(result, "<strong>Fix</strong>") {
		t.Fatalf("expected inline tags kept, got %q", result)
	}
	if strings.Contains(result, "<script") {
		t.Fatalf("expected script stripped, got %q", result)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without templates")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
	if _, err := engine.RenderTemplate("hello", struct{ Name string }{"Ada"}); err == nil {
		t.Fatalf("expected unsupported data error")
	}
}
