package checks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

const (
	maxOutlineEntries = 18
	maxOutlineText    = 75
)

var h1Check = Check{
	ID: "h1", Name: "H1 Tag", Category: models.CategoryContent, Weight: 12,
	Eval: func(in *Input) Outcome {
		h1s := in.Doc.FindAll("h1")
		if len(h1s) == 0 {
			return Outcome{models.StatusFail, "(none found)",
				"No H1 tag. Every page needs exactly one H1 describing its core topic.", nil}
		}

		quoted := make([]string, 0, len(h1s))
		for _, h := range h1s {
			quoted = append(quoted, fmt.Sprintf("\"%s\"", clip(strings.TrimSpace(document.Text(h)), 60)))
		}
		value := strings.Join(quoted, " / ")

		if len(h1s) > 1 {
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("<strong>%d H1 tags found.</strong> Use a single H1; several dilute the heading hierarchy.", len(h1s)), nil}
		}
		return Outcome{models.StatusPass, value, "Exactly one H1. Strong on-page signal.", nil}
	},
}

// headingLevel returns 1-6 for h1-h6 elements and 0 otherwise.
func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if l := int(n.Data[1] - '0'); l >= 1 && l <= 6 {
		return l
	}
	return 0
}

var headingsCheck = Check{
	ID: "headings", Name: "Heading Hierarchy (H1-H6)", Category: models.CategoryContent, Weight: 7,
	Eval: func(in *Input) Outcome {
		// The outline lists every H1, then every H2, and so on; document
		// order is kept within a level.
		var byLevel [7][]models.HeadingEntry
		var counts [7]int
		for _, n := range in.Doc.FindAllFunc(func(n *html.Node) bool { return headingLevel(n) > 0 }) {
			txt := strings.TrimSpace(document.Text(n))
			if txt == "" {
				continue
			}
			l := headingLevel(n)
			counts[l]++
			byLevel[l] = append(byLevel[l], models.HeadingEntry{Level: l, Text: clip(txt, maxOutlineText)})
		}
		var outline []models.HeadingEntry
		for l := 1; l <= 6; l++ {
			outline = append(outline, byLevel[l]...)
		}
		total := len(outline)

		var parts []string
		var used []int
		for l := 1; l <= 6; l++ {
			if counts[l] > 0 {
				parts = append(parts, fmt.Sprintf("H%d(%d)", l, counts[l]))
				used = append(used, l)
			}
		}
		summary := strings.Join(parts, " - ")

		// Only gaps between levels that occur count as skips.
		skipped := false
		for i := 1; i < len(used); i++ {
			if used[i]-used[i-1] > 1 {
				skipped = true
				break
			}
		}

		if len(outline) > maxOutlineEntries {
			outline = outline[:maxOutlineEntries]
		}
		var extra *models.Extra
		if len(outline) > 0 {
			extra = &models.Extra{Headings: outline}
		}

		switch {
		case total == 0:
			return Outcome{models.StatusFail, "(no headings found)",
				"No heading tags. Structure the content with H1-H6 so readers and crawlers can follow the outline.", nil}
		case total < 2:
			return Outcome{models.StatusWarn, summary,
				fmt.Sprintf("Only %d heading found. Break the content up with H2/H3 subheadings.", total), extra}
		case skipped:
			return Outcome{models.StatusWarn, summary,
				"Heading levels skip a step (e.g. H1 then H3). Keep levels sequential for a logical hierarchy.", extra}
		}
		return Outcome{models.StatusPass, summary,
			fmt.Sprintf("Heading structure: %s. Logical hierarchy found.", summary), extra}
	},
}

// contentExcluded are subtrees that do not count as main content.
var contentExcluded = []string{"script", "style", "nav", "header", "footer", "aside"}

var contentCheck = Check{
	ID: "content", Name: "Content Length", Category: models.CategoryContent, Weight: 6,
	Eval: func(in *Input) Outcome {
		body := in.Doc.Body()
		if body == nil {
			return Outcome{models.StatusFail, "(no body)", "Page has no body content.", nil}
		}

		words := 0
		for _, w := range strings.Fields(document.TextExcluding(body, contentExcluded...)) {
			if length(w) > 2 {
				words++
			}
		}

		value := fmt.Sprintf("~%s words", formatInt(words))
		switch {
		case words < 100:
			return Outcome{models.StatusFail, value,
				fmt.Sprintf("<strong>Thin content</strong> (~%d words). Pages with little text rarely rank; aim for at least 300 useful words.", words), nil}
		case words < 300:
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("Moderate content (~%d words). Competitive topics usually need 600+ words.", words), nil}
		}
		return Outcome{models.StatusPass, value, fmt.Sprintf("Good content length (~%s words).", formatInt(words)), nil}
	},
}

// isExternalHref reports whether href points off-site: any http(s) scheme or
// a protocol-relative reference.
func isExternalHref(href string) bool {
	return strings.HasPrefix(href, "http") || strings.HasPrefix(href, "//")
}

func anchors(doc *document.Document) []*html.Node {
	return doc.FindAllFunc(func(n *html.Node) bool {
		return document.IsElement(n, "a") && document.HasAttr(n, "href")
	})
}

var linksCheck = Check{
	ID: "links", Name: "Link Analysis", Category: models.CategoryContent, Weight: 4,
	Eval: func(in *Input) Outcome {
		all := anchors(in.Doc)
		var internal, external, empty int
		for _, a := range all {
			if isExternalHref(document.AttrOr(a, "href", "")) {
				external++
			} else {
				internal++
			}
			if strings.TrimSpace(document.Text(a)) == "" && !document.HasDescendant(a, func(n *html.Node) bool {
				return document.IsElement(n, "img") && document.HasAttr(n, "alt")
			}) {
				empty++
			}
		}

		value := fmt.Sprintf("%d total - %d internal - %d external - %d empty anchor", len(all), internal, external, empty)
		switch {
		case len(all) == 0:
			return Outcome{models.StatusWarn, value,
				"No links found. Internal links are essential for crawling and for spreading ranking signals across the site.", nil}
		case empty > 3:
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("%d links have no anchor text. Descriptive anchors tell users and crawlers where a link goes.", empty), nil}
		}
		return Outcome{models.StatusPass, value, fmt.Sprintf("%d internal links, %d external links.", internal, external), nil}
	},
}
