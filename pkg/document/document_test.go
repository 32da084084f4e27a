package document

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const fixture = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta name="Description" content="desc">
  <meta property="og:title" content="OG">
  <link rel="Shortcut Icon" href="/favicon.ico">
  <link rel="stylesheet" href="a.css">
</head>
<body>
  <nav>Menu</nav>
  <main><h1>Title <em>here</em></h1>
  <p>Hello   world</p>
  <label>Name <input id="n"></label></main>
  <script>var x = 1;</script>
</body>
</html>`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	d, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestDocument_Queries(t *testing.T) {
	d := mustParse(t, fixture)

	if got := AttrOr(d.HTMLElement(), "lang", ""); got != "en" {
		t.Errorf("lang = %q, want en", got)
	}
	if m := d.Meta("description"); AttrOr(m, "content", "") != "desc" {
		t.Error("Meta lookup should be case-insensitive on the name value")
	}
	if m := d.MetaProperty("og:title"); AttrOr(m, "content", "") != "OG" {
		t.Error("MetaProperty lookup failed")
	}
	if n := len(d.LinksWithRel("icon")); n != 1 {
		t.Errorf("LinksWithRel(icon) = %d, want 1", n)
	}
	if n := len(d.FindAll("script")); n != 1 {
		t.Errorf("FindAll(script) = %d, want 1", n)
	}
	if d.First("head") == nil || d.Body() == nil {
		t.Error("head and body should always exist")
	}
}

func TestText(t *testing.T) {
	d := mustParse(t, fixture)

	h1 := d.First("h1")
	if got := Text(h1); got != "Title here" {
		t.Errorf("Text(h1) = %q", got)
	}

	got := strings.Join(strings.Fields(TextExcluding(d.Body(), "nav", "script")), " ")
	want := "Title here Hello world Name"
	if got != want {
		t.Errorf("TextExcluding = %q, want %q", got, want)
	}
}

func TestClosestAndDescendant(t *testing.T) {
	d := mustParse(t, fixture)
	input := d.First("input")

	label := Closest(input, func(n *html.Node) bool { return IsElement(n, "label") })
	if label == nil {
		t.Fatal("expected enclosing label")
	}
	if Closest(label, func(n *html.Node) bool { return IsElement(n, "form") }) != nil {
		t.Error("no form ancestor expected")
	}
	if !HasDescendant(d.First("main"), func(n *html.Node) bool { return IsElement(n, "em") }) {
		t.Error("main should contain em")
	}
}

func TestParse_Empty(t *testing.T) {
	d := mustParse(t, "")
	if d.First("title") != nil {
		t.Error("empty input should have no title")
	}
	if d.Body() == nil {
		t.Error("parser should synthesize body")
	}
}
