package prompt

import (
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Kind selects the prompt used for a field.
type Kind string

const (
	KindText        Kind = "text"
	KindPassword    Kind = "password"
	KindConfirm     Kind = "confirm"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindTextArea    Kind = "textarea"
)

// Choice is one option of a select field.
type Choice struct {
	Value string
	Label string
}

// Field describes one prompt.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Default string
	Choices []Choice
}

func (f Field) message() string {
	if f.Label != "" {
		return f.Label
	}
	return strings.ReplaceAll(f.Name, "_", " ")
}

// FieldsFromForm derives prompts from the controls of a parsed form. Hidden,
// file and button controls are skipped; radio groups become a single select.
// Callers hold the document lock.
func FieldsFromForm(form *dom.Element) []Field {
	if form == nil {
		return nil
	}
	labels := make(map[string]string)
	for _, label := range form.QueryAll("label[for]") {
		labels[label.AttrValue("for")] = strings.TrimSpace(label.Text())
	}

	var (
		fields []Field
		radios = make(map[string]int)
	)
	for _, control := range form.QueryAll("input, select, textarea") {
		name := control.Name()
		if name == "" {
			continue
		}
		field := Field{Name: name, Label: labels[control.ID()]}

		switch control.Type() {
		case "hidden", "file", "submit", "button", "reset", "image":
			continue
		case "password":
			field.Kind = KindPassword
		case "checkbox":
			field.Kind = KindConfirm
			field.Default = strings.TrimSpace(control.AttrValue("value"))
		case "radio":
			choice := Choice{Value: control.AttrValue("value"), Label: labels[control.ID()]}
			if idx, ok := radios[name]; ok {
				fields[idx].Choices = append(fields[idx].Choices, choice)
				continue
			}
			field.Kind = KindSelect
			field.Label = ""
			field.Choices = []Choice{choice}
			radios[name] = len(fields)
		case "select":
			field.Kind = KindSelect
			if _, multiple := control.Attr("multiple"); multiple {
				field.Kind = KindMultiSelect
			}
			for _, opt := range control.QueryAll("option") {
				value, ok := opt.Attr("value")
				if !ok {
					value = strings.TrimSpace(opt.Text())
				}
				field.Choices = append(field.Choices, Choice{Value: value, Label: strings.TrimSpace(opt.Text())})
			}
		case "textarea":
			field.Kind = KindTextArea
		default:
			field.Kind = KindText
			field.Default = control.AttrValue("value")
		}
		fields = append(fields, field)
	}
	return fields
}
