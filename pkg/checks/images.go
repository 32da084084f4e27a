package checks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var imageAltCheck = Check{
	ID: "imgAlt", Name: "Image Alt Text", Category: models.CategoryImages, Weight: 7,
	Eval: func(in *Input) Outcome {
		imgs := in.Doc.FindAll("img")
		if len(imgs) == 0 {
			return Outcome{models.StatusInfo, "(no images found)", "No images detected on this page.", nil}
		}

		var missing, decorative, described int
		for _, img := range imgs {
			alt, ok := document.Attr(img, "alt")
			switch {
			case !ok:
				missing++
			case strings.TrimSpace(alt) == "":
				decorative++
			default:
				described++
			}
		}

		value := fmt.Sprintf("%d total - %d with alt - %d missing - %d decorative", len(imgs), described, missing, decorative)
		if missing == 0 {
			rec := fmt.Sprintf("All %d informational images have alt text.", described)
			if decorative > 0 {
				rec += fmt.Sprintf(" %d correctly marked decorative.", decorative)
			}
			return Outcome{models.StatusPass, value, rec, nil}
		}

		rec := fmt.Sprintf("<strong>%d/%d images lack alt attributes.</strong> Alt text is required for accessibility and helps search engines understand images.", missing, len(imgs))
		if float64(missing) > float64(len(imgs))/2 {
			return Outcome{models.StatusFail, value, rec, nil}
		}
		return Outcome{models.StatusWarn, value, rec, nil}
	},
}

var imageLazyCheck = Check{
	ID: "imgLazy", Name: "Image Lazy Loading", Category: models.CategoryImages, Weight: 3,
	Eval: func(in *Input) Outcome {
		imgs := in.Doc.FindAllFunc(func(n *html.Node) bool {
			return document.IsElement(n, "img") && document.HasAttr(n, "src")
		})
		if len(imgs) == 0 {
			return Outcome{models.StatusInfo, "(no images)", "No images found.", nil}
		}

		var lazy, srcset int
		for _, img := range imgs {
			if document.AttrOr(img, "loading", "") == "lazy" {
				lazy++
			}
			if document.HasAttr(img, "srcset") {
				srcset++
			}
		}

		value := fmt.Sprintf("%d images - %d lazy-loaded - %d with srcset", len(imgs), lazy, srcset)
		switch {
		case lazy > 0:
			rec := fmt.Sprintf("%d/%d images use <code>loading=\"lazy\"</code>.", lazy, len(imgs))
			if srcset > 0 {
				rec += fmt.Sprintf(" %d use srcset for responsive delivery.", srcset)
			}
			return Outcome{models.StatusPass, value, rec, nil}
		case len(imgs) > 2:
			return Outcome{models.StatusWarn, value,
				"Add <code>loading=\"lazy\"</code> to below-the-fold images to defer them and improve LCP.", nil}
		}
		return Outcome{models.StatusInfo, value, "Too few images to evaluate.", nil}
	},
}
