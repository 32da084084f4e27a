// Package output renders scan results and history for people and machines.
package output

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/models"
	"github.com/lcalzada-xor/auditlens/pkg/scorer"
)

// Supported formats.
const (
	FormatText  = "text"
	FormatHuman = "human"
	FormatJSON  = "json"
)

// Formats lists the accepted values for --output.
var Formats = []string{FormatText, FormatHuman, FormatJSON}

const (
	banner  = "======================================================"
	divider = "----------------------------------------------"
	footer  = "AuditLens - Free SEO Readiness Checker by Contentika"
	barLen  = 20
)

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	entities   = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&code;", "")
)

// StripMarkup removes tags from a recommendation and decodes the few
// entities check text uses.
func StripMarkup(s string) string {
	return entities.Replace(tagPattern.ReplaceAllString(s, ""))
}

// Format returns the result rendered in the selected format. Unknown formats
// fall back to the plain-text report.
func Format(res *models.ScanResult, format string) string {
	switch format {
	case FormatJSON:
		out, err := JSON(res)
		if err != nil {
			// Return error as JSON instead of empty string
			return fmt.Sprintf("{\"error\":\"failed to marshal result: %v\"}", err)
		}
		return string(out)
	case FormatHuman:
		return Human(res)
	default:
		return Text(res)
	}
}

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

var statusCodes = map[models.Status]string{
	models.StatusPass: "OK",
	models.StatusWarn: "!!",
	models.StatusFail: "XX",
	models.StatusInfo: "ii",
}

func scoreBar(score int) string {
	n := int(math.Round(float64(score) / 5))
	n = max(0, min(barLen, n))
	return strings.Repeat("#", n) + strings.Repeat("-", barLen-n)
}

// Text is the plain-text report suitable for copying into tickets or mail.
func Text(res *models.ScanResult) string {
	c := scorer.Tally(res.Findings)

	lines := []string{
		banner,
		"         AuditLens -- SEO Audit Report",
		banner,
		"",
		"  URL     : " + res.URL,
		fmt.Sprintf("  Score   : %d/100  [%s]", res.Score, strings.ToUpper(res.Grade.Label)),
		"  Date    : " + res.ScannedAt.Local().Format("2006-01-02 15:04:05"),
		"",
		fmt.Sprintf("  [%s] %d%%", scoreBar(res.Score), res.Score),
		"",
		fmt.Sprintf("  Passed: %d  |  Warnings: %d  |  Failed: %d  |  Total: %d", c.Pass, c.Warn, c.Fail, c.Total),
		"",
	}

	for _, g := range scorer.GroupByCategory(res.Findings) {
		name := string(g.Category)
		lines = append(lines, "-- "+name+" "+strings.Repeat("-", max(2, 46-len(name))))
		for _, f := range g.Findings {
			code, ok := statusCodes[f.Status]
			if !ok {
				code = "??"
			}
			lines = append(lines, fmt.Sprintf("  [%s] %s", code, f.Name))
			if f.Value != "" {
				lines = append(lines, "      Value  : "+f.Value)
			}
			lines = append(lines, "      Advice : "+StripMarkup(f.Recommendation), "")
		}
	}

	lines = append(lines, divider, footer)
	return strings.Join(lines, "\n")
}

// Report is the canonical JSON document for a scan.
type Report struct {
	Tool       string         `json:"tool"`
	URL        string         `json:"url"`
	Score      int            `json:"score"`
	Grade      string         `json:"grade"`
	Date       string         `json:"date"`
	Summary    scorer.Counts  `json:"summary"`
	Categories map[string]int `json:"categories"`
	Checks     []ReportCheck  `json:"checks"`
}

// ReportCheck is one finding in a Report. Value is null when the check
// produced none.
type ReportCheck struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	Value          *string `json:"value"`
	Recommendation string  `json:"recommendation"`
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NewReport builds the canonical report for res.
func NewReport(res *models.ScanResult) Report {
	r := Report{
		Tool:       config.Tool,
		URL:        res.URL,
		Score:      res.Score,
		Grade:      res.Grade.Label,
		Date:       res.ScannedAt.UTC().Format(isoMillis),
		Summary:    scorer.Tally(res.Findings),
		Categories: map[string]int{},
		Checks:     make([]ReportCheck, 0, len(res.Findings)),
	}
	for _, cs := range scorer.CategoryScores(res.Findings) {
		r.Categories[string(cs.Category)] = cs.Score
	}
	for _, f := range res.Findings {
		rc := ReportCheck{
			ID:             f.ID,
			Name:           f.Name,
			Category:       string(f.Category),
			Status:         string(f.Status),
			Recommendation: StripMarkup(f.Recommendation),
		}
		if f.Value != "" {
			v := f.Value
			rc.Value = &v
		}
		r.Checks = append(r.Checks, rc)
	}
	return r
}

// JSON marshals the canonical report with two-space indentation.
func JSON(res *models.ScanResult) ([]byte, error) {
	return json.MarshalIndent(NewReport(res), "", "  ")
}

func formatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
