package registry

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/rules"
)

// FamilyFunc builds a rule for a dotted field name that belongs to a
// registered family. suffix is the text after the family prefix.
type FamilyFunc func(suffix string) Rule

type family struct {
	prefix string
	build  FamilyFunc
}

// Registry maps field names to rules. Lookups resolve exact names first,
// then aliases, then dotted families such as "options.". A Registry is safe
// for concurrent use; build it once at startup and hand it to the guard.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	aliases  map[string]string
	families []family
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for overwrite warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	reg := &Registry{
		rules:   make(map[string]Rule),
		aliases: make(map[string]string),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg
}

// Register adds or replaces the rule for name. Replacing an existing rule
// logs a warning.
func (r *Registry) Register(name string, rule Rule) {
	if r == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[trimmed]; exists {
		r.logger.Warn("overwriting validator for field", zap.String("field", trimmed))
	}
	r.rules[trimmed] = rule
	r.logger.Debug("registered validator for field", zap.String("field", trimmed), zap.Stringer("kind", rule.Kind()))
}

// RegisterFunc registers a synchronous rule function.
func (r *Registry) RegisterFunc(name string, fn rules.Func) {
	r.Register(name, Sync(fn))
}

// Alias routes alias to the rule registered under target.
func (r *Registry) Alias(alias, target string) {
	if r == nil {
		return
	}
	alias = strings.TrimSpace(alias)
	target = strings.TrimSpace(target)
	if alias == "" || target == "" || alias == target {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = target
}

// RegisterFamily catches any field whose name starts with prefix and has no
// exact rule. Later registrations win over earlier ones with the same prefix.
func (r *Registry) RegisterFamily(prefix string, build FamilyFunc) {
	if r == nil || build == nil {
		return
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.families {
		if r.families[i].prefix == prefix {
			r.families[i].build = build
			return
		}
	}
	r.families = append(r.families, family{prefix: prefix, build: build})
}

// Lookup resolves the rule for a field name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Rule{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.rules[name]; ok {
		return rule, true
	}
	if target, ok := r.aliases[name]; ok {
		if rule, ok := r.rules[target]; ok {
			return rule, true
		}
	}
	var best *family
	for i := range r.families {
		f := &r.families[i]
		if !strings.HasPrefix(name, f.prefix) || len(name) == len(f.prefix) {
			continue
		}
		if best == nil || len(f.prefix) > len(best.prefix) {
			best = f
		}
	}
	if best != nil {
		return best.build(strings.TrimPrefix(name, best.prefix)), true
	}
	return Rule{}, false
}

// Has reports whether any rule, alias or family covers name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the exact names and aliases known to the registry, sorted.
// Families are listed as their prefix followed by "*".
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules)+len(r.aliases)+len(r.families))
	for name := range r.rules {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	for _, f := range r.families {
		names = append(names, f.prefix+"*")
	}
	sort.Strings(names)
	return names
}

// Target returns the canonical name an alias points at, or name itself.
func (r *Registry) Target(name string) string {
	if r == nil {
		return name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}
