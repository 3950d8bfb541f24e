package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/feedback"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader().WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Theme.Tokens = map[string]string{"invalid": "", "feedback": "", "group": "", "banner": ""}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Theme.Selection() != nil {
		t.Fatalf("expected no theme selection without tokens")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formguard.yaml")
	doc := `
server:
  addr: ":9090"
guard:
  selector: "form.guarded"
  banner_delay: 2s
  fail_closed: true
theme:
  name: tailwind
  tokens:
    invalid: "border-red-500"
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMGUARD_SERVER_ADDR", ":7070")
	t.Setenv("FORMGUARD_GUARD_MAX_MEMORY", "1024")

	loader := NewLoader().WithConfigPath(path).WithEnvFiles(filepath.Join(dir, "missing.env"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.ConfigFile() != path {
		t.Fatalf("expected config file %q, got %q", path, loader.ConfigFile())
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("expected env to win over file, got %q", cfg.Server.Addr)
	}
	if cfg.Guard.Selector != "form.guarded" || !cfg.Guard.FailClosed {
		t.Fatalf("unexpected guard config %#v", cfg.Guard)
	}
	if cfg.Guard.BannerDelay != 2*time.Second {
		t.Fatalf("expected 2s banner delay, got %v", cfg.Guard.BannerDelay)
	}
	if cfg.Guard.MaxMemory != 1024 {
		t.Fatalf("expected max memory from env, got %d", cfg.Guard.MaxMemory)
	}

	selection := cfg.Theme.Selection()
	if selection == nil {
		t.Fatalf("expected a theme selection")
	}
	if selection.Theme != "tailwind" {
		t.Fatalf("expected theme name tailwind, got %q", selection.Theme)
	}
	classes := feedback.ClassesFromSelection(selection)
	if classes.Invalid != "border-red-500" || classes.Feedback != feedback.DefaultFeedbackClass {
		t.Fatalf("unexpected classes %#v", classes)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("FORMGUARD_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("FORMGUARD_LOG_LEVEL") })

	cfg, err := NewLoader().WithEnvFiles(envFile).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected level from dotenv, got %q", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formguard.yaml")
	if err := os.WriteFile(path, []byte("guard:\n  route: validate\n  max_memory: 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewLoader().WithConfigPath(path).WithEnvFiles(filepath.Join(dir, "missing.env")).Load(); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := NewLoader().WithConfigPath(filepath.Join(dir, "absent.yaml")).Load(); err == nil {
		t.Fatalf("expected missing explicit file to fail")
	}
}

func TestLoad_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "formguard.yml"), []byte("rules:\n  overrides: rules.yaml\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := NewLoader().WithSearchPaths(dir).WithEnvFiles(filepath.Join(dir, "missing.env")).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Overrides != "rules.yaml" {
		t.Fatalf("expected overrides from searched file, got %q", cfg.Rules.Overrides)
	}
}
