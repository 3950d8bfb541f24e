package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// maxCachedSelectors bounds the compiled selector cache. Selectors come from
// configuration and fixed markup, so the set is small; once full the cache is
// reset rather than grown.
const maxCachedSelectors = 256

// Selector is a compiled CSS selector group.
type Selector struct {
	raw string
	sel cascadia.SelectorGroup
}

var selectorCache = struct {
	sync.Mutex
	entries map[string]*Selector
}{entries: make(map[string]*Selector)}

// CompileSelector parses a selector group. Identifiers containing characters
// such as dots must be escaped, e.g. `#options\.A`.
func CompileSelector(raw string) (*Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("dom: empty selector")
	}

	selectorCache.Lock()
	cached, ok := selectorCache.entries[trimmed]
	selectorCache.Unlock()
	if ok {
		return cached, nil
	}

	group, err := cascadia.ParseGroup(trimmed)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", raw, err)
	}
	sel := &Selector{raw: trimmed, sel: group}

	selectorCache.Lock()
	if len(selectorCache.entries) >= maxCachedSelectors {
		selectorCache.entries = make(map[string]*Selector)
	}
	selectorCache.entries[trimmed] = sel
	selectorCache.Unlock()
	return sel, nil
}

// MustCompileSelector is CompileSelector that panics on error. Use it for
// selectors fixed at build time.
func MustCompileSelector(raw string) *Selector {
	sel, err := CompileSelector(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the selector source.
func (s *Selector) String() string {
	if s == nil {
		return ""
	}
	return s.raw
}

// Match reports whether n matches any selector of the group.
func (s *Selector) Match(n *html.Node) bool {
	if s == nil || n == nil || n.Type != html.ElementNode {
		return false
	}
	return s.sel.Match(n)
}

// cachedSelectors reports the size of the compiled selector cache.
func cachedSelectors() int {
	selectorCache.Lock()
	defer selectorCache.Unlock()
	return len(selectorCache.entries)
}

// EscapeIdent escapes s for use as an id or class in a selector, so
// `options.A` becomes `options\.A` and `sm:hidden` becomes `sm\:hidden`.
func EscapeIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r >= 0x80,
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, `\%x `, r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
