package dom

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// SanitizeInline strips everything but basic inline formatting from markup
// that is about to be inserted into a page, such as a configured banner
// message.
func SanitizeInline(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(inlineSanitizer().Sanitize(trimmed))
}

func inlineSanitizer() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "b", "em", "i", "code", "br", "span")
		policy.AllowAttrs("class").OnElements("span")
		inlinePolicy = policy
	})
	return inlinePolicy
}
