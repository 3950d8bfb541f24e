package dom

import (
	"net/url"
	"slices"
	"strings"
)

// FieldSelector matches the controls a form guard validates.
const FieldSelector = "input, select"

// Value returns the current value of a form control: the value attribute of
// an input, the text of a textarea, or the value of the first selected
// option of a select (the first option when none is marked selected on a
// single select).
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	switch e.node.Data {
	case "textarea":
		return e.Text()
	case "select":
		options := e.QueryAll("option")
		for _, opt := range options {
			if _, ok := opt.Attr("selected"); ok {
				return optionValue(opt)
			}
		}
		if _, multiple := e.Attr("multiple"); !multiple && len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	default:
		return e.AttrValue("value")
	}
}

// Checked reports whether a checkbox or radio carries the checked attribute.
func (e *Element) Checked() bool {
	if e == nil {
		return false
	}
	_, ok := e.Attr("checked")
	return ok
}

// SelectedCount returns the number of selected options of a select. Empty
// option values do not count.
func (e *Element) SelectedCount() int {
	if e == nil || e.node.Data != "select" {
		return 0
	}
	count := 0
	for _, opt := range e.QueryAll("option") {
		if _, ok := opt.Attr("selected"); ok && strings.TrimSpace(optionValue(opt)) != "" {
			count++
		}
	}
	return count
}

func optionValue(opt *Element) string {
	if value, ok := opt.Attr("value"); ok {
		return value
	}
	return strings.TrimSpace(opt.Text())
}

// Bind copies submitted values into the controls of form so the tree reflects
// what the user sent. Hidden inputs keep their server-rendered value and file
// inputs are left untouched.
func Bind(form *Element, values url.Values) {
	if form == nil {
		return
	}
	for _, control := range form.QueryAll("input, select, textarea") {
		name := control.Name()
		if name == "" {
			continue
		}
		submitted, present := values[name]

		switch control.Type() {
		case "hidden", "file", "submit", "button", "reset", "image":
			continue
		case "checkbox", "radio":
			want := control.AttrValue("value")
			if want == "" {
				want = "on"
			}
			if present && slices.Contains(submitted, want) {
				control.SetAttr("checked", "")
			} else {
				control.RemoveAttr("checked")
			}
		case "select":
			for _, opt := range control.QueryAll("option") {
				if present && slices.Contains(submitted, optionValue(opt)) {
					opt.SetAttr("selected", "")
				} else {
					opt.RemoveAttr("selected")
				}
			}
		case "textarea":
			if present && len(submitted) > 0 {
				control.SetText(submitted[0])
			} else {
				control.SetText("")
			}
		default:
			if present && len(submitted) > 0 {
				control.SetAttr("value", submitted[0])
			} else {
				control.RemoveAttr("value")
			}
		}
	}
}

// ScrubPasswords clears the value of every password input in form so
// re-rendered pages never echo secrets back.
func ScrubPasswords(form *Element) {
	if form == nil {
		return
	}
	for _, input := range form.QueryAll(`input[type="password"]`) {
		input.RemoveAttr("value")
	}
}
