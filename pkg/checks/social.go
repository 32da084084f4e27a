package checks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var ogProperties = []string{"title", "description", "image", "url", "type"}

var openGraphCheck = Check{
	ID: "og", Name: "Open Graph Tags", Category: models.CategoryOpenGraph, Weight: 8,
	Eval: func(in *Input) Outcome {
		var present int
		var missing []string
		var title string
		for _, p := range ogProperties {
			v := strings.TrimSpace(document.AttrOr(in.Doc.MetaProperty("og:"+p), "content", ""))
			if v == "" {
				missing = append(missing, "og:"+p)
				continue
			}
			present++
			if p == "title" {
				title = v
			}
		}

		if present == 0 {
			return Outcome{models.StatusFail, "(none found)",
				"No Open Graph tags. Shared links on Facebook, LinkedIn and Slack will show as plain text. Add at least <code>og:title</code>, <code>og:description</code>, <code>og:image</code> and <code>og:url</code>.", nil}
		}

		value := fmt.Sprintf("%d/5 tags present", present)
		if title != "" {
			value += fmt.Sprintf(" - title: \"%s\"", truncate(title, 35))
		}
		if present < 4 {
			return Outcome{models.StatusWarn, value,
				fmt.Sprintf("Only <strong>%d/5</strong> Open Graph tags. Missing: <strong>%s</strong>.", present, strings.Join(missing, ", ")), nil}
		}
		return Outcome{models.StatusPass, value,
			fmt.Sprintf("%d core Open Graph tags present; shared links get rich previews.", present), nil}
	},
}

var ogImageCheck = Check{
	ID: "ogImg", Name: "OG Image", Category: models.CategoryOpenGraph, Weight: 5,
	Eval: func(in *Input) Outcome {
		img := document.AttrOr(in.Doc.MetaProperty("og:image"), "content", "")
		switch {
		case img == "":
			return Outcome{models.StatusFail, "(missing)",
				"No og:image. Posts without an image get far fewer clicks; use a 1200x630px image.", nil}
		case !strings.HasPrefix(img, "http"):
			return Outcome{models.StatusWarn, img,
				"og:image must be an absolute URL starting with https://. Social platforms cannot resolve relative paths.", nil}
		}
		return Outcome{models.StatusPass, img, "og:image uses an absolute URL. Ideal size is 1200x630px.", nil}
	},
}

var twitterCheck = Check{
	ID: "twitter", Name: "Twitter Card Tags", Category: models.CategoryTwitter, Weight: 5,
	Eval: func(in *Input) Outcome {
		tw := func(name string) string {
			return strings.TrimSpace(document.AttrOr(in.Doc.Meta("twitter:"+name), "content", ""))
		}
		card, site := tw("card"), tw("site")
		n := 0
		for _, v := range []string{card, tw("title"), tw("description"), tw("image")} {
			if v != "" {
				n++
			}
		}

		switch {
		case n == 0:
			return Outcome{models.StatusWarn, "(0/4 tags - no card type)",
				"No Twitter Card tags. Add <code>twitter:card</code>, <code>twitter:title</code>, <code>twitter:description</code> and <code>twitter:image</code> for rich previews on X.", nil}
		case card == "":
			return Outcome{models.StatusWarn, fmt.Sprintf("(%d/4 tags - no card type)", n),
				"Missing <code>twitter:card</code>. Use <code>content=\"summary_large_image\"</code> for the most visual preview.", nil}
		}

		rec := fmt.Sprintf("Card type <strong>%s</strong> with %d/4 tags.", html.EscapeString(card), n)
		if site != "" {
			rec += fmt.Sprintf(" Site handle: %s.", html.EscapeString(site))
		}
		if n < 4 {
			rec += " Add the missing tags for full coverage."
		}
		return Outcome{models.StatusPass, fmt.Sprintf("type=\"%s\" - %d/4 tags", card, n), rec, nil}
	},
}
