package guard

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
)

// Form is a guard bound to one form element.
type Form struct {
	guard     *Guard
	doc       *dom.Document
	el        *dom.Element
	files     map[string]*rules.FileInfo
	listeners map[string]*dom.Element
	names     []string

	state      atomic.Int32
	submitting atomic.Bool

	mu        sync.Mutex
	timers    []Timer
	submitted url.Values
}

func (g *Guard) attach(doc *dom.Document, el *dom.Element, files map[string]*rules.FileInfo) *Form {
	f := &Form{
		guard:     g,
		doc:       doc,
		el:        el,
		files:     files,
		listeners: make(map[string]*dom.Element),
	}

	doc.Lock()
	for _, field := range el.QueryAll(dom.FieldSelector) {
		name := field.Name()
		if name == "" {
			continue
		}
		if _, seen := f.listeners[name]; seen {
			continue
		}
		f.listeners[name] = field
		f.names = append(f.names, name)
	}
	id := el.ID()
	doc.Unlock()

	g.logger.Debug("attached form", zap.String("form", id), zap.Int("fields", len(f.names)))
	return f
}

// Element returns the form element.
func (f *Form) Element() *dom.Element {
	return f.el
}

// Document returns the document the form lives in.
func (f *Form) Document() *dom.Document {
	return f.doc
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	return State(f.state.Load())
}

// Fields returns the field names captured at attach time in document order.
func (f *Form) Fields() []string {
	return append([]string(nil), f.names...)
}

// Bind writes submitted values into the form controls and keeps them as the
// values rules see for selects, radios and checkboxes. A value outside a
// control's options cannot be represented in the tree but still reaches the
// control's rule.
func (f *Form) Bind(values url.Values) {
	f.doc.Lock()
	dom.Bind(f.el, values)
	f.doc.Unlock()

	submitted := make(url.Values, len(values))
	for name, list := range values {
		submitted[name] = append([]string(nil), list...)
	}
	f.mu.Lock()
	f.submitted = submitted
	f.mu.Unlock()
}

// Blur validates the field captured under name and renders its result.
func (f *Form) Blur(ctx context.Context, name string) (FieldResult, error) {
	field, ok := f.listeners[name]
	if !ok {
		return FieldResult{}, fmt.Errorf("%w: %s", ErrFieldNotAttached, name)
	}
	return f.ValidateField(ctx, field), nil
}

// ValidateField runs the rule for one control and renders the result.
func (f *Form) ValidateField(ctx context.Context, field *dom.Element) FieldResult {
	f.state.Store(int32(StateValidating))
	defer f.state.Store(int32(StateIdle))
	result := f.check(ctx, field)
	f.render(field, result)
	return result
}

// Validate runs a full pass: earlier annotations are cleared and every visible
// input and select is validated concurrently. Results are rendered in
// document order once all rules have returned. One failing field never stops
// the others.
func (f *Form) Validate(ctx context.Context) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	f.state.Store(int32(StateValidating))

	f.doc.Lock()
	f.guard.renderer.ClearAll(f.el)
	var fields []*dom.Element
	for _, field := range f.el.QueryAll(dom.FieldSelector) {
		if field.Hidden() || isButton(field) {
			continue
		}
		fields = append(fields, field)
	}
	f.doc.Unlock()

	results := make([]FieldResult, len(fields))
	var group errgroup.Group
	for i, field := range fields {
		group.Go(func() error {
			results[i] = f.check(ctx, field)
			return nil
		})
	}
	_ = group.Wait()

	f.doc.Lock()
	radios := make(map[string]struct{})
	for i, field := range fields {
		// A radio group is annotated once, on its first member.
		if field.Type() == "radio" {
			if _, seen := radios[field.Name()]; seen {
				continue
			}
			radios[field.Name()] = struct{}{}
		}
		f.guard.renderer.Show(field, results[i].Message)
	}
	f.doc.Unlock()

	state := StateAccepted
	for _, result := range results {
		if !result.Valid {
			state = StateRejected
			break
		}
	}
	f.state.Store(int32(state))

	f.guard.logger.Debug("validated form",
		zap.Stringer("state", state),
		zap.Int("fields", len(results)),
	)
	return Outcome{State: state, Fields: results}
}

// Submit gates a submission. An accepted form is left untouched; a rejected
// form gets a banner that is removed after the banner delay. A Submit that
// starts while another is running returns ErrSubmitInFlight without touching
// the tree.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmitInFlight
	}
	defer f.submitting.Store(false)
	defer f.state.Store(int32(StateIdle))

	outcome := f.Validate(ctx)
	if outcome.Accepted() {
		return outcome, nil
	}

	f.doc.Lock()
	banner, err := f.guard.renderer.Banner(f.el)
	f.doc.Unlock()
	if err != nil {
		return outcome, fmt.Errorf("guard: show banner: %w", err)
	}
	f.scheduleRemoval(banner)
	return outcome, nil
}

// Close stops pending banner removals. The banners stay in the tree.
func (f *Form) Close() {
	f.mu.Lock()
	timers := f.timers
	f.timers = nil
	f.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
}

func (f *Form) scheduleRemoval(banner *dom.Element) {
	timer := f.guard.afterFunc(f.guard.bannerDelay, func() {
		f.doc.Lock()
		defer f.doc.Unlock()
		banner.Remove()
	})

	f.mu.Lock()
	f.timers = append(f.timers, timer)
	f.mu.Unlock()
}

func (f *Form) check(ctx context.Context, field *dom.Element) FieldResult {
	f.mu.Lock()
	submitted := f.submitted
	f.mu.Unlock()

	fc := &fieldContext{doc: f.doc, form: f.el, field: field, submitted: submitted}
	f.doc.Lock()
	name := field.Name()
	f.doc.Unlock()
	if file, ok := f.files[name]; ok {
		fc.file = file
	}
	return f.guard.Check(ctx, fc)
}

func (f *Form) render(field *dom.Element, result FieldResult) {
	f.doc.Lock()
	defer f.doc.Unlock()
	f.guard.renderer.Show(field, result.Message)
}

func isButton(field *dom.Element) bool {
	switch field.Type() {
	case "submit", "button", "reset", "image":
		return true
	default:
		return false
	}
}
