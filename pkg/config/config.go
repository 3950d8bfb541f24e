// Package config loads formguard settings from defaults, an optional YAML
// file, a .env file and FORMGUARD_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formguard/pkg/feedback"
)

// EnvPrefix prefixes every environment override, e.g. FORMGUARD_SERVER_ADDR.
const EnvPrefix = "FORMGUARD"

// FileName is the config file base name searched for when no explicit path
// is given.
const FileName = "formguard"

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Guard  GuardConfig  `mapstructure:"guard"`
	Rules  RulesConfig  `mapstructure:"rules"`
	Theme  ThemeConfig  `mapstructure:"theme"`
}

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// GuardConfig configures form validation.
type GuardConfig struct {
	Selector      string        `mapstructure:"selector"`
	BannerDelay   time.Duration `mapstructure:"banner_delay"`
	BannerMessage string        `mapstructure:"banner_message"`
	FailClosed    bool          `mapstructure:"fail_closed"`
	MaxMemory     int64         `mapstructure:"max_memory"`
	Route         string        `mapstructure:"route"`
}

// RulesConfig points at an optional rule overrides file.
type RulesConfig struct {
	Overrides string `mapstructure:"overrides"`
}

// ThemeConfig names the theme and its class tokens. Token keys drop the
// "formguard." prefix used by theme manifests: invalid, feedback, group and
// banner.
type ThemeConfig struct {
	Name    string            `mapstructure:"name"`
	Variant string            `mapstructure:"variant"`
	Tokens  map[string]string `mapstructure:"tokens"`
}

// Selection builds a theme selection carrying the non-empty tokens. It
// returns nil when none are set.
func (t ThemeConfig) Selection() *theme.Selection {
	tokens := make(map[string]string, len(t.Tokens))
	for key, value := range t.Tokens {
		if strings.TrimSpace(value) == "" {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !strings.HasPrefix(key, "formguard.") {
			key = "formguard." + key
		}
		tokens[key] = value
	}
	if len(tokens) == 0 {
		return nil
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = "formguard"
	}
	return &theme.Selection{
		Theme:   name,
		Variant: t.Variant,
		Manifest: &theme.Manifest{
			Name:    name,
			Version: "1.0.0",
			Tokens:  tokens,
		},
	}
}

// Loader handles configuration loading.
type Loader struct {
	v           *viper.Viper
	configPath  string
	searchPaths []string
	envFiles    []string
}

// NewLoader creates a loader bound to FORMGUARD_* environment variables.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:           v,
		searchPaths: []string{"."},
	}
}

// WithConfigPath sets an explicit config file path. A missing explicit file
// is an error.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithSearchPaths adds directories to search for formguard.yaml.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = append(l.searchPaths, paths...)
	return l
}

// WithEnvFiles sets the dotenv files loaded before reading the environment.
// Defaults to ".env". Missing files are ignored.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = append(l.envFiles, files...)
	return l
}

// Load resolves the configuration.
func (l *Loader) Load() (*Config, error) {
	files := l.envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	_ = godotenv.Load(files...)

	l.setDefaults()

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the config file that was read, if any.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Validate checks values viper cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Guard.BannerDelay < 0 {
		errs = append(errs, fmt.Errorf("guard.banner_delay must not be negative"))
	}
	if c.Guard.MaxMemory <= 0 {
		errs = append(errs, fmt.Errorf("guard.max_memory must be positive"))
	}
	if route := strings.TrimSpace(c.Guard.Route); route == "" || !strings.HasPrefix(route, "/") {
		errs = append(errs, fmt.Errorf("guard.route must start with /"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
		Guard: GuardConfig{
			Selector:      "form.needs-validation",
			BannerDelay:   feedback.DefaultDismissAfter,
			BannerMessage: feedback.DefaultBannerMessage,
			MaxMemory:     32 << 20,
			Route:         "/formguard/validate",
		},
		Theme: ThemeConfig{Tokens: map[string]string{}},
	}
}

func (l *Loader) setDefaults() {
	def := Default()
	l.v.SetDefault("server.addr", def.Server.Addr)
	l.v.SetDefault("log.level", def.Log.Level)
	l.v.SetDefault("log.development", def.Log.Development)
	l.v.SetDefault("guard.selector", def.Guard.Selector)
	l.v.SetDefault("guard.banner_delay", def.Guard.BannerDelay)
	l.v.SetDefault("guard.banner_message", def.Guard.BannerMessage)
	l.v.SetDefault("guard.fail_closed", def.Guard.FailClosed)
	l.v.SetDefault("guard.max_memory", def.Guard.MaxMemory)
	l.v.SetDefault("guard.route", def.Guard.Route)
	l.v.SetDefault("rules.overrides", "")
	l.v.SetDefault("theme.name", "")
	l.v.SetDefault("theme.variant", "")
	for _, token := range []string{"invalid", "feedback", "group", "banner"} {
		l.v.SetDefault("theme.tokens."+token, "")
	}
}

func (l *Loader) loadConfigFile() error {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", l.configPath, err)
		}
		return nil
	}

	for _, dir := range l.searchPaths {
		for _, ext := range []string{"yaml", "yml"} {
			path := filepath.Join(dir, FileName+"."+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			l.v.SetConfigFile(path)
			if err := l.v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file %s: %w", path, err)
			}
			return nil
		}
	}
	return nil
}
