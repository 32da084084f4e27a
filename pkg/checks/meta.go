package checks

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var titleCheck = Check{
	ID: "title", Name: "Title Tag", Category: models.CategoryMeta, Weight: 15,
	Eval: func(in *Input) Outcome {
		txt := strings.TrimSpace(document.Text(in.Doc.First("title")))
		n := length(txt)
		switch {
		case txt == "":
			return Outcome{models.StatusFail, "(missing)",
				"No title tag found. Add <code>&lt;title&gt;Your Page Title&lt;/title&gt;</code> inside <code>&lt;head&gt;</code>; it is the most important on-page SEO element.", nil}
		case n < 30:
			return Outcome{models.StatusWarn, txt,
				fmt.Sprintf("Title is too short (<strong>%d chars</strong>). Aim for <strong>50-60 characters</strong> to use the full search result line.", n), nil}
		case n > 60:
			return Outcome{models.StatusWarn, txt,
				fmt.Sprintf("Title is too long (<strong>%d chars</strong>). Search results cut titles after about 60 characters.", n), nil}
		}
		return Outcome{models.StatusPass, txt,
			fmt.Sprintf("Title length is good at <strong>%d characters</strong>.", n), nil}
	},
}

var descriptionCheck = Check{
	ID: "desc", Name: "Meta Description", Category: models.CategoryMeta, Weight: 10,
	Eval: func(in *Input) Outcome {
		txt := strings.TrimSpace(document.AttrOr(in.Doc.Meta("description"), "content", ""))
		n := length(txt)
		if txt == "" {
			return Outcome{models.StatusFail, "(missing)",
				"No meta description found. Search engines will invent a snippet instead. Write a 150-160 character summary with a clear call to action.", nil}
		}
		value := truncate(txt, 110)
		switch {
		case n < 70:
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("Description is too short (<strong>%d chars</strong>). Expand it to 150-160 characters to improve click-through.", n), nil}
		case n > 160:
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("Description is too long (<strong>%d chars</strong>). Anything past about 160 characters is cut in search results.", n), nil}
		}
		return Outcome{models.StatusPass, value,
			fmt.Sprintf("Meta description length is good at <strong>%d characters</strong>.", n), nil}
	},
}

var viewportCheck = Check{
	ID: "viewport", Name: "Viewport Meta Tag", Category: models.CategoryMeta, Weight: 8,
	Eval: func(in *Input) Outcome {
		v := document.AttrOr(in.Doc.Meta("viewport"), "content", "")
		if v == "" {
			return Outcome{models.StatusFail, "(missing)",
				"No viewport tag, so mobile browsers render the desktop layout. Add <code>&lt;meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"&gt;</code>.", nil}
		}
		if !strings.Contains(v, "width=device-width") || !strings.Contains(v, "initial-scale=1") {
			return Outcome{models.StatusWarn, v,
				"Viewport tag is incomplete. Use <code>content=\"width=device-width, initial-scale=1\"</code>.", nil}
		}
		return Outcome{models.StatusPass, v, "Viewport is set for responsive rendering.", nil}
	},
}

var canonicalCheck = Check{
	ID: "canonical", Name: "Canonical URL", Category: models.CategoryMeta, Weight: 7,
	Eval: func(in *Input) Outcome {
		var href string
		if links := in.Doc.LinksWithRel("canonical"); len(links) > 0 {
			href = strings.TrimSpace(document.AttrOr(links[0], "href", ""))
		}
		if href == "" {
			return Outcome{models.StatusWarn, "(not declared)",
				"No canonical tag. Add <code>&lt;link rel=\"canonical\" href=\"https://yoursite.com/page/\"&gt;</code> so duplicate URLs consolidate their ranking signals.", nil}
		}
		return Outcome{models.StatusPass, href, "Canonical URL declared; search engines know which URL is authoritative.", nil}
	},
}

var robotsCheck = Check{
	ID: "robots", Name: "Robots Meta Tag", Category: models.CategoryMeta, Weight: 6,
	Eval: func(in *Input) Outcome {
		c := strings.ToLower(strings.TrimSpace(document.AttrOr(in.Doc.Meta("robots"), "content", "")))
		switch {
		case c == "":
			return Outcome{models.StatusInfo, "(not set - defaults to index, follow)",
				"No robots meta tag, so the page defaults to <em>index, follow</em>. Add one only to restrict indexing or link following.", nil}
		case strings.Contains(c, "noindex"):
			return Outcome{models.StatusWarn, c,
				"<strong>This page is marked noindex</strong> and will not appear in search results. Remove the directive if that is unintended.", nil}
		}
		return Outcome{models.StatusPass, c, fmt.Sprintf("Robots directive <strong>%s</strong> looks correct.", html.EscapeString(c)), nil}
	},
}

var utf8Pattern = regexp.MustCompile(`(?i)utf-?8`)

var charsetCheck = Check{
	ID: "charset", Name: "Character Encoding", Category: models.CategoryMeta, Weight: 4,
	Eval: func(in *Input) Outcome {
		cs := charsetDeclaration(in.Doc)
		switch {
		case cs == "":
			return Outcome{models.StatusWarn, "(not declared)",
				"No charset declared. Put <code>&lt;meta charset=\"UTF-8\"&gt;</code> first in <code>&lt;head&gt;</code> to avoid garbled characters.", nil}
		case !utf8Pattern.MatchString(cs):
			return Outcome{models.StatusWarn, cs,
				fmt.Sprintf("Page declares a non-UTF-8 charset (%s). UTF-8 is recommended everywhere.", html.EscapeString(cs)), nil}
		}
		return Outcome{models.StatusPass, cs, "UTF-8 encoding declared.", nil}
	},
}

func charsetDeclaration(doc *document.Document) string {
	for _, m := range doc.FindAll("meta") {
		if v, ok := document.Attr(m, "charset"); ok {
			return v
		}
	}
	for _, m := range doc.FindAll("meta") {
		if strings.EqualFold(document.AttrOr(m, "http-equiv", ""), "content-type") {
			return document.AttrOr(m, "content", "")
		}
	}
	return ""
}

var langCheck = Check{
	ID: "lang", Name: "HTML Lang Attribute", Category: models.CategoryMeta, Weight: 5,
	Eval: func(in *Input) Outcome {
		lang := document.AttrOr(in.Doc.HTMLElement(), "lang", "")
		if lang == "" {
			return Outcome{models.StatusWarn, "(not set)",
				"No <code>lang</code> attribute on <code>&lt;html&gt;</code>. Add one, e.g. <code>&lt;html lang=\"en\"&gt;</code>, for screen readers and regional targeting.", nil}
		}
		return Outcome{models.StatusPass, lang,
			fmt.Sprintf("Language declared as <strong>\"%s\"</strong>.", html.EscapeString(lang)), nil}
	},
}

var keywordsCheck = Check{
	ID: "keywords", Name: "Meta Keywords", Category: models.CategoryMeta, Weight: 2,
	Eval: func(in *Input) Outcome {
		kw := strings.TrimSpace(document.AttrOr(in.Doc.Meta("keywords"), "content", ""))
		if kw != "" {
			return Outcome{models.StatusInfo, truncate(kw, 80),
				"Meta keywords are <strong>ignored by Google</strong> and reveal your target terms to competitors. Consider removing them.", nil}
		}
		return Outcome{models.StatusPass, "(not present - correct)",
			"No meta keywords tag. Modern search engines ignore it anyway.", nil}
	},
}
