package checks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

func countLandmark(doc *document.Document, tag, role string) int {
	return len(doc.FindAllFunc(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		return n.Data == tag || strings.EqualFold(document.AttrOr(n, "role", ""), role)
	}))
}

var landmarksCheck = Check{
	ID: "landmarks", Name: "ARIA Landmarks", Category: models.CategoryAccessibility, Weight: 4,
	Eval: func(in *Input) Outcome {
		primary := countLandmark(in.Doc, "main", "main")
		nav := countLandmark(in.Doc, "nav", "navigation")
		banner := countLandmark(in.Doc, "header", "banner")
		info := countLandmark(in.Doc, "footer", "contentinfo")
		total := primary + nav + banner + info

		value := fmt.Sprintf("main(%d) nav(%d) header(%d) footer(%d)", primary, nav, banner, info)
		switch {
		case primary == 0:
			return Outcome{models.StatusFail, value,
				"No <code>&lt;main&gt;</code> landmark. Screen readers jump between landmarks; wrap the primary content in <code>&lt;main&gt;</code>.", nil}
		case total < 3:
			return Outcome{models.StatusWarn, value,
				"Add more semantic landmarks (nav, header, footer) for easier screen reader navigation.", nil}
		}
		return Outcome{models.StatusPass, value, fmt.Sprintf("Good landmark coverage with %d regions.", total), nil}
	},
}

// isFormField matches input-like controls a user fills in.
func isFormField(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "select", "textarea":
		return true
	case "input":
		switch strings.ToLower(document.AttrOr(n, "type", "")) {
		case "hidden", "submit", "button":
			return false
		}
		return true
	}
	return false
}

var formLabelsCheck = Check{
	ID: "formLabels", Name: "Form Labels", Category: models.CategoryAccessibility, Weight: 3,
	Eval: func(in *Input) Outcome {
		fields := in.Doc.FindAllFunc(isFormField)
		if len(fields) == 0 {
			return Outcome{models.StatusInfo, "(no form fields)", "No form input elements found.", nil}
		}

		labelFor := map[string]bool{}
		for _, l := range in.Doc.FindAll("label") {
			if f, ok := document.Attr(l, "for"); ok {
				labelFor[f] = true
			}
		}

		unlabeled := 0
		for _, f := range fields {
			id := document.AttrOr(f, "id", "")
			switch {
			case id != "" && labelFor[id]:
			case document.AttrOr(f, "aria-label", "") != "" || document.AttrOr(f, "aria-labelledby", "") != "":
			case document.AttrOr(f, "placeholder", "") != "":
			case document.Closest(f, func(n *html.Node) bool { return document.IsElement(n, "label") }) != nil:
			default:
				unlabeled++
			}
		}

		value := fmt.Sprintf("%d fields - %d without labels", len(fields), unlabeled)
		if unlabeled == 0 {
			return Outcome{models.StatusPass, value,
				fmt.Sprintf("All %d form fields have a label or aria attribute.", len(fields)), nil}
		}
		rec := fmt.Sprintf("<strong>%d form fields lack labels.</strong> Add <code>&lt;label for=\"id\"&gt;</code> or <code>aria-label</code> for screen reader users.", unlabeled)
		if float64(unlabeled) > float64(len(fields))/2 {
			return Outcome{models.StatusFail, value, rec, nil}
		}
		return Outcome{models.StatusWarn, value, rec, nil}
	},
}

var contrastCheck = Check{
	ID: "contrast", Name: "Color Contrast (Heuristic)", Category: models.CategoryAccessibility, Weight: 2,
	Eval: func(in *Input) Outcome {
		value := "(run a full contrast audit with Lighthouse)"
		if scheme := document.AttrOr(in.Doc.Meta("color-scheme"), "content", ""); scheme != "" {
			value = "color-scheme: " + scheme
		}
		return Outcome{models.StatusInfo, value,
			"Contrast can only be measured on a rendered page. Use Lighthouse or axe DevTools for a WCAG AA audit; aim for 4.5:1 on body text and 3:1 on large text.", nil}
	},
}
