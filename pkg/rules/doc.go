// Package rules holds the per-field validation rules used by the form guard.
//
// A rule receives a read-only Context describing one field (its trimmed value,
// access to sibling values in the same form, selection state and optional file
// metadata) and returns the message to show the user. An empty message means
// the field is valid. Rules never return errors: malformed input, including
// unparsable JSON and undecodable images, is reported as a message.
//
// Required fields report their "required" message before any length, pattern
// or format check. Optional fields (phone, parent email, gender, metadata,
// date of birth) accept empty input.
package rules
