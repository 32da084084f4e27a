package checks

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// isBlockingScript reports whether an external script blocks rendering:
// no defer, no async and not a module.
func isBlockingScript(n *html.Node) bool {
	return !document.HasAttr(n, "defer") &&
		!document.HasAttr(n, "async") &&
		!strings.Contains(strings.ToLower(document.AttrOr(n, "type", "")), "module")
}

var scriptsCheck = Check{
	ID: "scripts", Name: "Render-Blocking Scripts", Category: models.CategoryPerformance, Weight: 7,
	Eval: func(in *Input) Outcome {
		external := in.Doc.FindAllFunc(func(n *html.Node) bool {
			return document.IsElement(n, "script") && document.HasAttr(n, "src")
		})
		blocking := 0
		for _, s := range external {
			if isBlockingScript(s) {
				blocking++
			}
		}

		value := fmt.Sprintf("%d scripts - %d deferred/async - %d blocking", len(external), len(external)-blocking, blocking)
		var rec string
		switch {
		case blocking == 0:
			rec = fmt.Sprintf("All %d scripts are deferred or async; nothing blocks rendering.", len(external))
		case blocking <= 2:
			rec = fmt.Sprintf("%d potentially render-blocking script(s). Add <code>defer</code> or <code>async</code> to non-critical scripts.", blocking)
		default:
			rec = fmt.Sprintf("<strong>%d render-blocking scripts</strong> delay First Contentful Paint and LCP. Add <code>defer</code> to all non-critical JS.", blocking)
		}

		switch {
		case blocking > 4:
			return Outcome{models.StatusFail, value, rec, nil}
		case blocking > 1:
			return Outcome{models.StatusWarn, value, rec, nil}
		}
		return Outcome{models.StatusPass, value, rec, nil}
	},
}

var stylesheetsCheck = Check{
	ID: "css", Name: "CSS Stylesheets", Category: models.CategoryPerformance, Weight: 4,
	Eval: func(in *Input) Outcome {
		external := len(in.Doc.LinksWithRel("stylesheet"))
		inline := len(in.Doc.FindAll("style"))
		preload := 0
		for _, l := range in.Doc.LinksWithRel("preload") {
			if strings.EqualFold(document.AttrOr(l, "as", ""), "style") {
				preload++
			}
		}

		value := fmt.Sprintf("%d external - %d inline style blocks - %d preloaded", external, inline, preload)
		if external > 8 {
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("%d external stylesheets mean %d extra requests. Bundle the CSS or inline the critical part.", external, external), nil}
		}
		rec := fmt.Sprintf("%d external stylesheet(s), a reasonable number.", external)
		if preload > 0 {
			rec += fmt.Sprintf(" %d preloaded.", preload)
		} else {
			rec += " Consider preloading critical CSS."
		}
		return Outcome{models.StatusPass, value, rec, nil}
	},
}

var preconnectCheck = Check{
	ID: "preconnect", Name: "Preconnect & DNS Prefetch", Category: models.CategoryPerformance, Weight: 3,
	Eval: func(in *Input) Outcome {
		preconnect := len(in.Doc.LinksWithRel("preconnect"))
		prefetch := len(in.Doc.LinksWithRel("dns-prefetch"))
		value := fmt.Sprintf("%d preconnect - %d dns-prefetch", preconnect, prefetch)
		if preconnect+prefetch > 0 {
			return Outcome{models.StatusPass, value,
				fmt.Sprintf("%d preconnect and %d dns-prefetch hints cut connection latency to third-party origins.", preconnect, prefetch), nil}
		}
		return Outcome{models.StatusInfo, value,
			"No preconnect or dns-prefetch hints. For font, analytics or CDN origins add <code>&lt;link rel=\"preconnect\" href=\"https://fonts.googleapis.com\"&gt;</code>.", nil}
	},
}

var pageSizeCheck = Check{
	ID: "size", Name: "HTML Document Size", Category: models.CategoryPerformance, Weight: 4,
	Eval: func(in *Input) Outcome {
		kb := int(math.Round(float64(len(in.HTML)) / 1024))
		value := fmt.Sprintf("~%s KB (HTML only, excludes assets)", formatInt(kb))
		switch {
		case kb > 500:
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("Large HTML (~%dKB). Drop inline scripts, styles and dead markup, and make sure GZIP or Brotli is on.", kb), nil}
		case kb > 200:
			return Outcome{models.StatusInfo, value,
				fmt.Sprintf("Moderate HTML (~%dKB). Server compression typically cuts transfer size by 70%%.", kb), nil}
		}
		return Outcome{models.StatusPass, value, fmt.Sprintf("Lean HTML document (~%dKB).", kb), nil}
	},
}
