package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page. Element methods are not synchronised:
// callers that touch the same document from several goroutines hold the
// document lock (Lock/Unlock) around each read or compound update.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("dom: missing reader")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses markup held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Lock acquires the document lock.
func (d *Document) Lock() { d.mu.Lock() }

// Unlock releases the document lock.
func (d *Document) Unlock() { d.mu.Unlock() }

// Root returns the document node.
func (d *Document) Root() *html.Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return fmt.Errorf("dom: document is nil")
	}
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Query returns the first element matching selector in document order.
func (d *Document) Query(selector string) *Element {
	if d == nil {
		return nil
	}
	return d.wrap(d.root).Query(selector)
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []*Element {
	if d == nil {
		return nil
	}
	return d.wrap(d.root).QueryAll(selector)
}

// CreateElement returns a detached element owned by the document.
func (d *Document) CreateElement(tag string, attrs ...html.Attribute) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     append([]html.Attribute(nil), attrs...),
	}
	return d.wrap(node)
}

// ParseFragment parses markup in the context of parent and returns the
// resulting top-level elements, detached. Text nodes between elements are
// dropped.
func (d *Document) ParseFragment(markup string, parent *Element) ([]*Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	if parent != nil && parent.node != nil {
		context = parent.node
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		out = append(out, d.wrap(n))
	}
	return out, nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}
