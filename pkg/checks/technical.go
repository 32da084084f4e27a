package checks

import (
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var httpsCheck = Check{
	ID: "https", Name: "HTTPS / SSL", Category: models.CategoryTechnical, Weight: 10,
	Eval: func(in *Input) Outcome {
		if strings.HasPrefix(in.URL, "https://") {
			return Outcome{models.StatusPass, "Secure (HTTPS)", "HTTPS confirmed. It is a ranking signal and a trust baseline.", nil}
		}
		return Outcome{models.StatusFail, "Insecure (HTTP)",
			"<strong>Site is served over HTTP.</strong> Browsers flag it as Not Secure and rankings suffer. Move to HTTPS.", nil}
	},
}

// schemaTypes extracts @type from a JSON-LD block, directly or from @graph.
// Blocks that do not decode yield nothing.
func schemaTypes(raw string) string {
	var block map[string]any
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		return ""
	}
	if t := typeName(block["@type"]); t != "" {
		return t
	}
	graph, _ := block["@graph"].([]any)
	var types []string
	for _, item := range graph {
		if obj, ok := item.(map[string]any); ok {
			if t := typeName(obj["@type"]); t != "" {
				types = append(types, t)
			}
		}
	}
	return strings.Join(types, ",")
}

func typeName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var names []string
		for _, x := range t {
			if s, ok := x.(string); ok && s != "" {
				names = append(names, s)
			}
		}
		return strings.Join(names, ",")
	}
	return ""
}

var schemaCheck = Check{
	ID: "schema", Name: "Structured Data / Schema", Category: models.CategoryTechnical, Weight: 8,
	Eval: func(in *Input) Outcome {
		blocks := in.Doc.FindAllFunc(func(n *html.Node) bool {
			return document.IsElement(n, "script") && strings.EqualFold(document.AttrOr(n, "type", ""), "application/ld+json")
		})
		micro := len(in.Doc.FindAllFunc(func(n *html.Node) bool {
			return n.Type == html.ElementNode && document.HasAttr(n, "itemscope")
		}))

		var types []string
		for _, b := range blocks {
			if t := schemaTypes(document.Text(b)); t != "" {
				types = append(types, t)
			}
		}

		if len(blocks)+micro == 0 {
			return Outcome{models.StatusWarn, "(none detected)",
				"No structured data. Schema markup enables rich results (ratings, FAQs, breadcrumbs) that lift click-through. Prefer JSON-LD.", nil}
		}

		value := fmt.Sprintf("%d JSON-LD", len(blocks))
		if micro > 0 {
			value += fmt.Sprintf(", %d Microdata", micro)
		}
		if len(types) > 0 {
			value += " - Types: " + strings.Join(types, ", ")
		}
		detected := strings.Join(types, ", ")
		if detected == "" {
			detected = "JSON-LD blocks"
		}
		return Outcome{models.StatusPass, value,
			fmt.Sprintf("Schema detected: <strong>%s</strong>. Validate it at <code>validator.schema.org</code>.", html.EscapeString(detected)), nil}
	},
}

var faviconCheck = Check{
	ID: "favicon", Name: "Favicon", Category: models.CategoryTechnical, Weight: 3,
	Eval: func(in *Input) Outcome {
		icons := in.Doc.FindAllFunc(func(n *html.Node) bool {
			return document.IsElement(n, "link") && strings.Contains(strings.ToLower(document.AttrOr(n, "rel", "")), "icon")
		})
		if len(icons) == 0 {
			return Outcome{models.StatusWarn, "(not declared)",
				"Add a favicon with <code>&lt;link rel=\"icon\" href=\"/favicon.ico\"&gt;</code> plus an Apple Touch Icon for iOS.", nil}
		}
		return Outcome{models.StatusPass, document.AttrOr(icons[0], "href", "(declared)"),
			"Favicon declared. It helps recognition in tabs, bookmarks and search results.", nil}
	},
}

var hreflangCheck = Check{
	ID: "hreflang", Name: "Hreflang Tags", Category: models.CategoryTechnical, Weight: 4,
	Eval: func(in *Input) Outcome {
		n := 0
		for _, l := range in.Doc.LinksWithRel("alternate") {
			if document.HasAttr(l, "hreflang") {
				n++
			}
		}
		if n == 0 {
			return Outcome{models.StatusInfo, "(none - may not be needed)",
				"No hreflang tags. If you target several languages or regions, add them to avoid duplicate content and serve the right version.", nil}
		}
		return Outcome{models.StatusPass, fmt.Sprintf("%d hreflang tag(s)", n),
			fmt.Sprintf("%d hreflang tags. Include x-default and make sure every alternate URL returns HTTP 200.", n), nil}
	},
}

var pwaCheck = Check{
	ID: "pwa", Name: "Theme Color & Touch Icon", Category: models.CategoryTechnical, Weight: 3,
	Eval: func(in *Input) Outcome {
		tc := document.AttrOr(in.Doc.Meta("theme-color"), "content", "")
		touchIcon := len(in.Doc.LinksWithRel("apple-touch-icon")) > 0
		if tc == "" && !touchIcon {
			return Outcome{models.StatusInfo, "(none set)",
				"No theme-color or apple-touch-icon. Add <code>&lt;meta name=\"theme-color\" content=\"#yourcolor\"&gt;</code> to tint mobile browser chrome and an Apple Touch Icon for iOS bookmarks.", nil}
		}

		var value, rec []string
		if tc != "" {
			value = append(value, "theme-color: "+tc)
			rec = append(rec, fmt.Sprintf("Browser chrome color: %s.", html.EscapeString(tc)))
		}
		if touchIcon {
			value = append(value, "apple-touch-icon OK")
			rec = append(rec, "Apple Touch Icon declared for iOS.")
		}
		return Outcome{models.StatusPass, strings.Join(value, " - "),
			"Mobile meta configured. " + strings.Join(rec, " "), nil}
	},
}

var nofollowCheck = Check{
	ID: "nofollow", Name: "Nofollow & Link Attributes", Category: models.CategoryTechnical, Weight: 3,
	Eval: func(in *Input) Outcome {
		var external, nofollow, sponsored, ugc int
		for _, a := range anchors(in.Doc) {
			if !isExternalHref(document.AttrOr(a, "href", "")) {
				continue
			}
			external++
			rel := document.AttrOr(a, "rel", "")
			if strings.Contains(rel, "nofollow") {
				nofollow++
			}
			if strings.Contains(rel, "sponsored") {
				sponsored++
			}
			if strings.Contains(rel, "ugc") {
				ugc++
			}
		}

		if external == 0 {
			return Outcome{models.StatusInfo, "(no external links)", "No external links found.", nil}
		}
		value := fmt.Sprintf("%d external - %d nofollow - %d sponsored - %d ugc", external, nofollow, sponsored, ugc)
		if nofollow+sponsored+ugc > 0 {
			return Outcome{models.StatusPass, value,
				"Link attributes in use. Paid links should carry <code>rel=\"sponsored\"</code> and user content <code>rel=\"ugc\"</code>.", nil}
		}
		return Outcome{models.StatusInfo, value,
			fmt.Sprintf("%d external links without rel attributes. Mark paid ones <code>rel=\"sponsored\"</code> to avoid manual actions.", external), nil}
	},
}
