// Package checks holds the fixed catalog of page checks. Every check is a
// pure function of its Input; checks share no state and may run in any order.
package checks

import (
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// Input is what a check may look at.
type Input struct {
	Doc  *document.Document
	URL  string // normalized target URL
	HTML string // raw page source
}

// Outcome is the variable part of a finding.
type Outcome struct {
	Status         models.Status
	Value          string
	Recommendation string
	Extra          *models.Extra
}

// Check is a value-type descriptor: identity, weight and an evaluation function.
type Check struct {
	ID       string
	Name     string
	Category models.Category
	Weight   int
	Eval     func(in *Input) Outcome
}

// Run evaluates the check and stamps the outcome with the descriptor fields.
func (c Check) Run(in *Input) models.Finding {
	o := c.Eval(in)
	return models.Finding{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		Weight:         c.Weight,
		Status:         o.Status,
		Value:          o.Value,
		Recommendation: o.Recommendation,
		Extra:          o.Extra,
	}
}

// Batch is a group of checks reported as one progress step.
type Batch struct {
	Label  string
	Checks []Check
}

// Catalog returns the batches in evaluation order. The returned slices are
// fresh copies.
func Catalog() []Batch {
	return []Batch{
		{Label: "Analysing meta & title tags...", Checks: []Check{
			titleCheck, descriptionCheck, viewportCheck, canonicalCheck,
			robotsCheck, charsetCheck, langCheck, keywordsCheck,
		}},
		{Label: "Checking Open Graph & Twitter...", Checks: []Check{
			openGraphCheck, ogImageCheck, twitterCheck,
		}},
		{Label: "Scanning heading structure...", Checks: []Check{
			h1Check, headingsCheck, contentCheck, linksCheck,
		}},
		{Label: "Measuring readability...", Checks: []Check{
			readabilityCheck,
		}},
		{Label: "Auditing images & alt text...", Checks: []Check{
			imageAltCheck, imageLazyCheck,
		}},
		{Label: "Evaluating technical SEO...", Checks: []Check{
			httpsCheck, schemaCheck, faviconCheck, hreflangCheck, pwaCheck, nofollowCheck,
		}},
		{Label: "Checking accessibility...", Checks: []Check{
			landmarksCheck, formLabelsCheck, contrastCheck,
		}},
		{Label: "Measuring performance signals...", Checks: []Check{
			scriptsCheck, stylesheetsCheck, preconnectCheck, pageSizeCheck, docWriteCheck,
		}},
	}
}

// All returns every check in catalog order.
func All() []Check {
	var out []Check
	for _, b := range Catalog() {
		out = append(out, b.Checks...)
	}
	return out
}


// RunBatch evaluates one batch in order.
func RunBatch(b Batch, in *Input) []models.Finding {
	out := make([]models.Finding, 0, len(b.Checks))
	for _, c := range b.Checks {
		out = append(out, c.Run(in))
	}
	return out
}

// RunAll evaluates the whole catalog in order.
func RunAll(in *Input) []models.Finding {
	var out []models.Finding
	for _, b := range Catalog() {
		out = append(out, RunBatch(b, in)...)
	}
	return out
}

// numbers formats counts with thousands separators ("1,234").
var numbers = message.NewPrinter(language.English)

func formatInt(n int) string {
	return numbers.Sprintf("%d", n)
}

// truncate cuts s to at most n runes, appending "..." when something was cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// clip cuts s to at most n runes without a marker.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
