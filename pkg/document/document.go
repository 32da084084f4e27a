// Package document wraps a parsed HTML tree with the small query surface the
// checks need.
package document

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// Document is a parsed page. It is read-only once built.
type Document struct {
	Root *html.Node
}

// Parse builds a Document from raw HTML. The HTML5 algorithm recovers from
// almost any malformed input, so a ParseError is rare. Scripting is off, so
// <noscript> content is parsed as markup like a non-executing browser does.
func Parse(src string) (*Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(src), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, &models.ParseError{Err: err}
	}
	return &Document{Root: root}, nil
}

// FindAll returns every element with the given tag name in document order.
func (d *Document) FindAll(tag string) []*html.Node {
	return FindAll(d.Root, tag)
}

// FindAllFunc returns every element matching pred in document order.
func (d *Document) FindAllFunc(pred func(*html.Node) bool) []*html.Node {
	return FindAllFunc(d.Root, pred)
}

// First returns the first element with the given tag name, or nil.
func (d *Document) First(tag string) *html.Node {
	for n := range d.Root.Descendants() {
		if IsElement(n, tag) {
			return n
		}
	}
	return nil
}

// Body returns the <body> element, or nil for frameset documents.
func (d *Document) Body() *html.Node { return d.First("body") }

// HTMLElement returns the document element.
func (d *Document) HTMLElement() *html.Node { return d.First("html") }

// Meta returns the first <meta> whose name attribute equals name (case-insensitive).
func (d *Document) Meta(name string) *html.Node {
	return d.metaBy("name", name)
}

// MetaProperty returns the first <meta> whose property attribute equals prop.
func (d *Document) MetaProperty(prop string) *html.Node {
	return d.metaBy("property", prop)
}

func (d *Document) metaBy(key, want string) *html.Node {
	for n := range d.Root.Descendants() {
		if IsElement(n, "meta") {
			if v, ok := Attr(n, key); ok && strings.EqualFold(v, want) {
				return n
			}
		}
	}
	return nil
}

// LinksWithRel returns <link> elements whose rel token list contains rel.
func (d *Document) LinksWithRel(rel string) []*html.Node {
	return d.FindAllFunc(func(n *html.Node) bool {
		return IsElement(n, "link") && HasRelToken(n, rel)
	})
}

// FindAll returns every element below root with the given tag name.
func FindAll(root *html.Node, tag string) []*html.Node {
	a := atom.Lookup([]byte(tag))
	var out []*html.Node
	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		if (a != 0 && n.DataAtom == a) || (a == 0 && n.Data == tag) {
			out = append(out, n)
		}
	}
	return out
}

// FindAllFunc returns every node below root matching pred.
func FindAllFunc(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for n := range root.Descendants() {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// Attr returns the value of attribute key. Keys are matched the way the
// parser stores them, lower-cased.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when absent.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// HasAttr reports whether attribute key is present, whatever its value.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// HasRelToken reports whether the rel attribute contains token.
func HasRelToken(n *html.Node, token string) bool {
	rel, ok := Attr(n, "rel")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(strings.ToLower(rel)) {
		if f == token {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n, like DOM textContent.
func Text(n *html.Node) string {
	return TextExcluding(n)
}

// TextExcluding returns the text content of n skipping the subtrees of any
// element named in skip.
func TextExcluding(n *html.Node, skip ...string) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				if slices.Contains(skip, c.Data) {
					continue
				}
				walk(c)
			}
		}
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	walk(n)
	return b.String()
}

// Closest returns the nearest ancestor of n (excluding n) matching pred.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// HasDescendant reports whether any element below n matches pred.
func HasDescendant(n *html.Node, pred func(*html.Node) bool) bool {
	for d := range n.Descendants() {
		if pred(d) {
			return true
		}
	}
	return false
}
