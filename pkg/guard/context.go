package guard

import (
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
)

// fieldContext reads a control from the live tree. Every accessor takes the
// document lock so rules running in parallel see consistent values.
//
// When submitted is set, choice controls (selects, radios and checkboxes) read
// from it instead of the tree: the tree can only hold values its options
// allow, the request can hold anything.
type fieldContext struct {
	doc       *dom.Document
	form      *dom.Element
	field     *dom.Element
	file      *rules.FileInfo
	submitted url.Values
}

var _ rules.Context = (*fieldContext)(nil)

func (c *fieldContext) Name() string {
	c.doc.Lock()
	defer c.doc.Unlock()
	return c.field.Name()
}

func (c *fieldContext) Value() string {
	c.doc.Lock()
	defer c.doc.Unlock()
	return c.read(c.field)
}

func (c *fieldContext) Sibling(names ...string) (string, bool) {
	c.doc.Lock()
	defer c.doc.Unlock()
	for _, name := range names {
		if sibling := c.form.Query(nameSelector(name)); sibling != nil {
			return c.read(sibling), true
		}
	}
	return "", false
}

func (c *fieldContext) Checked() bool {
	c.doc.Lock()
	defer c.doc.Unlock()
	if c.submitted != nil && isChoice(c.field) {
		return slices.Contains(c.submitted[c.field.Name()], checkedValue(c.field))
	}
	return c.field.Checked()
}

func (c *fieldContext) SelectedCount() int {
	c.doc.Lock()
	defer c.doc.Unlock()
	if c.submitted != nil && isChoice(c.field) {
		count := 0
		for _, value := range c.submitted[c.field.Name()] {
			if strings.TrimSpace(value) != "" {
				count++
			}
		}
		return count
	}
	return c.field.SelectedCount()
}

func (c *fieldContext) File() *rules.FileInfo {
	return c.file
}

func (c *fieldContext) read(el *dom.Element) string {
	if c.submitted != nil && isChoice(el) {
		return strings.TrimSpace(c.submitted.Get(el.Name()))
	}
	return controlValue(c.form, el)
}

// isChoice reports whether el restricts its value to a fixed set of options.
func isChoice(el *dom.Element) bool {
	if el.Tag() == "select" {
		return true
	}
	switch el.Type() {
	case "radio", "checkbox":
		return true
	default:
		return false
	}
}

// controlValue returns the trimmed value a browser would submit for el.
// Unchecked checkboxes submit nothing; a radio reports the checked member of
// its group.
func controlValue(form, el *dom.Element) string {
	switch el.Type() {
	case "checkbox":
		if !el.Checked() {
			return ""
		}
		return strings.TrimSpace(checkedValue(el))
	case "radio":
		for _, member := range form.QueryAll(`input[type="radio"]` + nameSelector(el.Name())) {
			if member.Checked() {
				return strings.TrimSpace(checkedValue(member))
			}
		}
		return ""
	default:
		return strings.TrimSpace(el.Value())
	}
}

func checkedValue(el *dom.Element) string {
	if value, ok := el.Attr("value"); ok {
		return value
	}
	return "on"
}

var attrEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func nameSelector(name string) string {
	return `[name="` + attrEscaper.Replace(name) + `"]`
}
