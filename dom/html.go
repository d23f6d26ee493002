package dom

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// htmlDocument wraps a parsed HTML tree. HTML parsing lowercases attribute
// names, so styling attributes are expected in kebab form and converted to
// camelCase keys.
type htmlDocument struct {
	root *html.Node
	log  *zap.Logger
}

// ParseHTML parses an HTML document. Input encoding is detected from BOM and
// meta tags.
func ParseHTML(r io.Reader, log *zap.Logger) (Document, error) {
	return ParseHTMLContentType(r, "", log)
}

// ParseHTMLContentType parses an HTML document priming charset detection
// with a Content-Type value. A charset parameter there wins over in-document
// meta declarations, the way transport metadata does in a browser. BOM still
// wins over both.
func ParseHTMLContentType(r io.Reader, contentType string, log *zap.Logger) (Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	root, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML document: %w", err)
	}
	return &htmlDocument{root: root, log: log.Named("dom")}, nil
}

func (d *htmlDocument) StyledElements() []Element {
	var out []Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if strings.HasPrefix(a.Key, AttrPrefix) {
					out = append(out, &htmlElement{node: n})
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

func (d *htmlDocument) InjectStylesheet(css string) {
	head := d.findElement(atom.Head)
	if head == nil {
		// html.Parse always synthesizes head for documents; a nil here means
		// a fragment tree, attach to the root instead
		head = d.root
	}

	style := findChildWithID(head, atom.Style, StyleSheetID)
	if style == nil {
		style = &html.Node{
			Type:     html.ElementNode,
			Data:     "style",
			DataAtom: atom.Style,
			Attr:     []html.Attribute{{Key: "id", Val: StyleSheetID}},
		}
		head.AppendChild(style)
	}

	// replace previous content
	for c := style.FirstChild; c != nil; {
		next := c.NextSibling
		style.RemoveChild(c)
		c = next
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + css})
	d.log.Debug("Injected stylesheet", zap.Int("bytes", len(css)))
}

func (d *htmlDocument) LinkStylesheet(href string) {
	head := d.findElement(atom.Head)
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Link {
			continue
		}
		var rel, h string
		for _, a := range c.Attr {
			switch a.Key {
			case "rel":
				rel = a.Val
			case "href":
				h = a.Val
			}
		}
		if rel == "stylesheet" && h == href {
			return
		}
	}
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	})
	d.log.Debug("Linked stylesheet", zap.String("href", href))
}

func (d *htmlDocument) Title() string {
	title := d.findElement(atom.Title)
	if title == nil {
		return ""
	}
	var b strings.Builder
	for c := title.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func (d *htmlDocument) Lang() string {
	root := d.findElement(atom.Html)
	if root == nil {
		return ""
	}
	for _, a := range root.Attr {
		if a.Key == "lang" {
			return a.Val
		}
	}
	return ""
}

func (d *htmlDocument) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("unable to render HTML document: %w", err)
	}
	return nil
}

func (d *htmlDocument) findElement(a atom.Atom) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

func findChildWithID(parent *html.Node, a atom.Atom, id string) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != a {
			continue
		}
		for _, attr := range c.Attr {
			if attr.Key == "id" && attr.Val == id {
				return c
			}
		}
	}
	return nil
}

// htmlElement adapts a single node.
type htmlElement struct {
	node *html.Node
}

func (e *htmlElement) SadsAttrs() []Attr {
	var out []Attr
	for _, a := range e.node.Attr {
		if suffix, ok := strings.CutPrefix(a.Key, AttrPrefix); ok && suffix != "" {
			out = append(out, Attr{Key: camelKey(suffix), Value: a.Val})
		}
	}
	return out
}

func (e *htmlElement) SadsAttr(key string) (string, bool) {
	for _, a := range e.SadsAttrs() {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e *htmlElement) StyleID() (int, bool) {
	return styleIDFromClassList(e.classAttr())
}

func (e *htmlElement) SetStyleID(n int) {
	class := appendClass(e.classAttr(), StyleClass(n))
	for i, a := range e.node.Attr {
		if a.Key == "class" {
			e.node.Attr[i].Val = class
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: "class", Val: class})
}

func (e *htmlElement) Ref() string {
	tag := e.node.Data
	for _, a := range e.node.Attr {
		if a.Key == "id" && a.Val != "" {
			return tag + "#" + a.Val
		}
	}
	if name, ok := e.SadsAttr(KeyComponent); ok && name != "" {
		return tag + "[component=" + name + "]"
	}
	if name, ok := e.SadsAttr(KeyElement); ok && name != "" {
		return tag + "[element=" + name + "]"
	}
	return tag
}

func (e *htmlElement) classAttr() string {
	for _, a := range e.node.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}
