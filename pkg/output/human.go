package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lcalzada-xor/auditlens/pkg/models"
	"github.com/lcalzada-xor/auditlens/pkg/scorer"
)

var (
	cPrimary = lipgloss.Color("#7C3AED")
	cMuted   = lipgloss.Color("#6B7280")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	labelStyle    = lipgloss.NewStyle().Foreground(cMuted)
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary).MarginTop(1)
	adviceStyle   = lipgloss.NewStyle().Foreground(cMuted).PaddingLeft(6)

	headerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cPrimary).
			Padding(0, 1)
)

var statusStyles = map[models.Status]lipgloss.Style{
	models.StatusPass: lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).SetString("✔"),
	models.StatusWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).SetString("!"),
	models.StatusFail: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true).SetString("✘"),
	models.StatusInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).SetString("i"),
}

// Human renders a coloured terminal view of the result.
func Human(res *models.ScanResult) string {
	var sb strings.Builder

	grade := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(res.Grade.Color))
	c := scorer.Tally(res.Findings)
	header := strings.Join([]string{
		titleStyle.Render("AuditLens SEO Audit"),
		labelStyle.Render("URL   ") + " " + res.URL,
		labelStyle.Render("Score ") + " " + grade.Render(fmt.Sprintf("%d/100 %s", res.Score, res.Grade.Label)),
		labelStyle.Render("Checks") + " " + fmt.Sprintf("%d passed, %d warnings, %d failed, %d info", c.Pass, c.Warn, c.Fail, c.Info),
	}, "\n")
	sb.WriteString(headerBox.Render(header))
	sb.WriteString("\n")

	scores := map[models.Category]scorer.CategoryScore{}
	for _, cs := range scorer.CategoryScores(res.Findings) {
		scores[cs.Category] = cs
	}

	for _, g := range scorer.GroupByCategory(res.Findings) {
		cs := scores[g.Category]
		pct := lipgloss.NewStyle().Foreground(lipgloss.Color(cs.Color)).Render(fmt.Sprintf("%d%%", cs.Score))
		sb.WriteString(categoryStyle.Render(string(g.Category)) + " " + pct + "\n")

		for _, f := range g.Findings {
			icon := statusStyles[f.Status].String()
			line := fmt.Sprintf("  %s %s", icon, f.Name)
			if f.Value != "" {
				line += labelStyle.Render(" · " + f.Value)
			}
			sb.WriteString(line + "\n")
			if f.Status != models.StatusPass && f.Recommendation != "" {
				sb.WriteString(adviceStyle.Render(StripMarkup(f.Recommendation)) + "\n")
			}
		}
	}
	return sb.String()
}
