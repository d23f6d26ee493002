package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// xmlDocument wraps an XHTML tree parsed as XML. Attribute case is preserved,
// so documents may carry camelCase styling attributes directly; kebab
// spellings are accepted and normalized the same way as for HTML.
type xmlDocument struct {
	doc *etree.Document
	log *zap.Logger
}

// ParseXHTML parses an XML served document.
func ParseXHTML(r io.Reader, log *zap.Logger) (Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse XHTML document: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("XHTML document has no root element")
	}
	return &xmlDocument{doc: doc, log: log.Named("dom")}, nil
}

func (d *xmlDocument) StyledElements() []Element {
	var out []Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, a := range el.Attr {
			if a.Space == "" && strings.HasPrefix(a.Key, AttrPrefix) {
				out = append(out, &xmlElement{el: el})
				break
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(d.doc.Root())
	return out
}

func (d *xmlDocument) InjectStylesheet(css string) {
	head := d.head(true)

	var style *etree.Element
	for _, st := range head.SelectElements("style") {
		if st.SelectAttrValue("id", "") == StyleSheetID {
			style = st
			break
		}
	}
	if style == nil {
		style = head.CreateElement("style")
		style.CreateAttr("id", StyleSheetID)
	}
	style.SetCData("\n" + css)
	d.log.Debug("Injected stylesheet", zap.Int("bytes", len(css)))
}

func (d *xmlDocument) LinkStylesheet(href string) {
	head := d.head(true)
	for _, l := range head.SelectElements("link") {
		if l.SelectAttrValue("rel", "") == "stylesheet" && l.SelectAttrValue("href", "") == href {
			return
		}
	}
	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("href", href)
	d.log.Debug("Linked stylesheet", zap.String("href", href))
}

func (d *xmlDocument) Title() string {
	head := d.head(false)
	if head == nil {
		return ""
	}
	title := head.SelectElement("title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(title.Text())
}

func (d *xmlDocument) Lang() string {
	root := d.doc.Root()
	if v := root.SelectAttrValue("xml:lang", ""); v != "" {
		return v
	}
	return root.SelectAttrValue("lang", "")
}

func (d *xmlDocument) Render(w io.Writer) error {
	if _, err := d.doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to render XHTML document: %w", err)
	}
	return nil
}

// head returns the document head, creating one as the first child of the
// root when asked to.
func (d *xmlDocument) head(create bool) *etree.Element {
	root := d.doc.Root()
	if head := root.SelectElement("head"); head != nil {
		return head
	}
	if !create {
		return nil
	}
	head := etree.NewElement("head")
	root.InsertChildAt(0, head)
	return head
}

// xmlElement adapts a single element.
type xmlElement struct {
	el *etree.Element
}

func (e *xmlElement) SadsAttrs() []Attr {
	var out []Attr
	for _, a := range e.el.Attr {
		if a.Space != "" {
			continue
		}
		if suffix, ok := strings.CutPrefix(a.Key, AttrPrefix); ok && suffix != "" {
			out = append(out, Attr{Key: camelKey(suffix), Value: a.Value})
		}
	}
	return out
}

func (e *xmlElement) SadsAttr(key string) (string, bool) {
	for _, a := range e.SadsAttrs() {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e *xmlElement) StyleID() (int, bool) {
	return styleIDFromClassList(e.el.SelectAttrValue("class", ""))
}

func (e *xmlElement) SetStyleID(n int) {
	class := appendClass(e.el.SelectAttrValue("class", ""), StyleClass(n))
	e.el.CreateAttr("class", class)
}

func (e *xmlElement) Ref() string {
	tag := e.el.Tag
	if id := e.el.SelectAttrValue("id", ""); id != "" {
		return tag + "#" + id
	}
	if name, ok := e.SadsAttr(KeyComponent); ok && name != "" {
		return tag + "[component=" + name + "]"
	}
	if name, ok := e.SadsAttr(KeyElement); ok && name != "" {
		return tag + "[element=" + name + "]"
	}
	return tag
}
