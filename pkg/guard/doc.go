// Package guard validates a parsed form against a rule registry and decides
// whether its submission may proceed.
//
// A Guard is built once with its registry and renderer. Attach binds it to a
// form inside a dom.Document; the returned Form runs single-field checks
// (Blur, ValidateField) and full passes (Validate, Submit). A full pass clears
// earlier annotations, validates every visible input and select concurrently,
// waits for all of them, renders each result and, when any field fails,
// prepends a banner that is removed after the banner delay.
package guard
