package registry

import (
	"context"

	"github.com/goliatone/go-formguard/pkg/rules"
)

// Kind tags how a Rule runs.
type Kind int

const (
	// KindSync rules return immediately.
	KindSync Kind = iota
	// KindAsync rules may block and receive a context.
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindAsync:
		return "async"
	default:
		return "unknown"
	}
}

// Rule is a registered validator: either a synchronous or an asynchronous
// message-returning function. The zero Rule accepts everything.
type Rule struct {
	kind  Kind
	sync  rules.Func
	async rules.AsyncFunc
}

// Sync wraps a synchronous rule.
func Sync(fn rules.Func) Rule {
	return Rule{kind: KindSync, sync: fn}
}

// Async wraps a rule that may block.
func Async(fn rules.AsyncFunc) Rule {
	return Rule{kind: KindAsync, async: fn}
}

// Kind reports whether the rule is synchronous or asynchronous.
func (r Rule) Kind() Kind { return r.kind }

// Evaluate runs the rule and returns its message; "" means valid.
func (r Rule) Evaluate(ctx context.Context, field rules.Context) string {
	switch r.kind {
	case KindAsync:
		if r.async == nil {
			return ""
		}
		if ctx == nil {
			ctx = context.Background()
		}
		return r.async(ctx, field)
	default:
		if r.sync == nil {
			return ""
		}
		return r.sync(field)
	}
}

// Then chains next after r: next only runs when r passes. The result is
// asynchronous when either side is.
func (r Rule) Then(next Rule) Rule {
	if r.kind == KindSync && next.kind == KindSync {
		return Sync(func(field rules.Context) string {
			if msg := r.Evaluate(context.Background(), field); msg != "" {
				return msg
			}
			return next.Evaluate(context.Background(), field)
		})
	}
	return Async(func(ctx context.Context, field rules.Context) string {
		if msg := r.Evaluate(ctx, field); msg != "" {
			return msg
		}
		return next.Evaluate(ctx, field)
	})
}
