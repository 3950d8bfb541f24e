// Package formguard wires the form guard into net/http.
//
// Middleware gates POST submissions: it re-parses the page the form came
// from, binds the submitted values, validates them and either calls the next
// handler or answers 422 with the annotated page (or a JSON error bag for
// clients that accept JSON). FieldHandler serves the per-field check the
// browser runtime calls on blur, and RegisterRoutes/Mount expose it together
// with the runtime script.
package formguard
