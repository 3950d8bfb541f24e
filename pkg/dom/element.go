package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element wraps an element node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	if e == nil {
		return nil
	}
	return e.doc
}

// Node exposes the underlying node.
func (e *Element) Node() *html.Node {
	if e == nil {
		return nil
	}
	return e.node
}

// Is reports whether both wrappers point at the same node.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return false
	}
	return e.node == other.node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string { return e.AttrValue("id") }

// Name returns the name attribute.
func (e *Element) Name() string { return e.AttrValue("name") }

// Type returns the lower-case type of an input ("text" when absent). Other
// elements return their tag name.
func (e *Element) Type() string {
	if e == nil {
		return ""
	}
	if e.node.Data != "input" {
		return e.node.Data
	}
	typ := strings.ToLower(strings.TrimSpace(e.AttrValue("type")))
	if typ == "" {
		return "text"
	}
	return typ
}

// Hidden reports whether the element is a hidden input.
func (e *Element) Hidden() bool {
	return e != nil && e.node.Data == "input" && e.Type() == "hidden"
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	return lookupAttr(e.node, key)
}

// AttrValue returns an attribute value or "".
func (e *Element) AttrValue(key string) string {
	value, _ := e.Attr(key)
	return value
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, value string) {
	if e == nil {
		return
	}
	key = strings.ToLower(key)
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == key {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes an attribute when present.
func (e *Element) RemoveAttr(key string) {
	if e == nil {
		return
	}
	key = strings.ToLower(key)
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// HasClass reports whether class is present in the class list.
func (e *Element) HasClass(class string) bool {
	if e == nil {
		return false
	}
	_, ok := classSet(e.AttrValue("class"))[class]
	return ok
}

// AddClass appends class when missing.
func (e *Element) AddClass(class string) {
	class = strings.TrimSpace(class)
	if e == nil || class == "" || e.HasClass(class) {
		return
	}
	current := strings.Fields(e.AttrValue("class"))
	e.SetAttr("class", strings.Join(append(current, class), " "))
}

// RemoveClass drops class from the class list, removing the attribute when it
// becomes empty.
func (e *Element) RemoveClass(class string) {
	if e == nil || !e.HasClass(class) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(e.AttrValue("class")) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	collectText(e.node, &sb)
	return sb.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) {
	if e == nil {
		return
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	if e == nil || e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.node.Parent)
}

// Closest returns the element itself or its nearest ancestor matching
// selector.
func (e *Element) Closest(selector string) *Element {
	sel, err := CompileSelector(selector)
	if err != nil || e == nil {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if sel.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Form returns the enclosing form element.
func (e *Element) Form() *Element {
	return e.Closest("form")
}

// Query returns the first descendant matching selector.
func (e *Element) Query(selector string) *Element {
	sel, err := CompileSelector(selector)
	if err != nil || e == nil {
		return nil
	}
	var found *html.Node
	walk(e.node, func(n *html.Node) bool {
		if n != e.node && sel.Match(n) {
			found = n
			return false
		}
		return true
	})
	return e.doc.wrap(found)
}

// QueryAll returns every descendant matching selector in document order.
func (e *Element) QueryAll(selector string) []*Element {
	sel, err := CompileSelector(selector)
	if err != nil || e == nil {
		return nil
	}
	var out []*Element
	walk(e.node, func(n *html.Node) bool {
		if n != e.node && sel.Match(n) {
			out = append(out, e.doc.wrap(n))
		}
		return true
	})
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if e == nil || child == nil {
		return
	}
	detach(child.node)
	e.node.AppendChild(child.node)
}

// PrependChild moves child to the start of e's children.
func (e *Element) PrependChild(child *Element) {
	if e == nil || child == nil {
		return
	}
	detach(child.node)
	if e.node.FirstChild == nil {
		e.node.AppendChild(child.node)
		return
	}
	e.node.InsertBefore(child.node, e.node.FirstChild)
}

// Remove detaches e from the tree. Removing a detached element is a no-op.
func (e *Element) Remove() {
	if e == nil {
		return
	}
	detach(e.node)
}

// Attached reports whether e is still connected to its document root.
func (e *Element) Attached() bool {
	if e == nil || e.doc == nil {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

func detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// walk visits n and its descendants depth-first. Returning false from fn
// stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func attr(n *html.Node, key string) string {
	value, _ := lookupAttr(n, key)
	return value
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classSet(raw string) map[string]struct{} {
	fields := strings.Fields(raw)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
