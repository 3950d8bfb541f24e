package rules

import (
	"context"
	"io"
)

// Context exposes one field to a rule. Implementations read the live form on
// every call; nothing is cached between validation passes.
type Context interface {
	// Name returns the field's name attribute.
	Name() string
	// Value returns the field's current value with surrounding whitespace
	// removed.
	Value() string
	// Sibling returns the trimmed value of the first field in the same form
	// whose name matches one of names, probed in order.
	Sibling(names ...string) (string, bool)
	// Checked reports whether a checkbox or radio field is checked.
	Checked() bool
	// SelectedCount returns the number of selected options of a select field.
	SelectedCount() int
	// File returns the uploaded file for a file input, or nil when no file
	// was selected.
	File() *FileInfo
}

// Func is a synchronous rule.
type Func func(field Context) string

// AsyncFunc is a rule that may block, such as decoding an uploaded image.
// It must honour ctx and must still return a message rather than an error.
type AsyncFunc func(ctx context.Context, field Context) string

// FileInfo describes an uploaded file. Open returns a fresh reader over the
// file content; callers close it when done.
type FileInfo struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}
