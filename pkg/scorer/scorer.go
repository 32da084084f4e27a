// Package scorer turns findings into weighted scores, grades and tallies.
package scorer

import (
	"cmp"
	"math"
	"slices"

	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// Status credit as a fraction of a check's weight. Info findings are skipped.
const (
	passCredit = 1.0
	warnCredit = 0.4
)

// Compute returns the weighted 0-100 score of findings. Info findings are
// excluded from both sides; with nothing scoreable the score is 0.
func Compute(findings []models.Finding) int {
	var earned, possible float64
	for _, f := range findings {
		w := float64(f.Weight)
		switch f.Status {
		case models.StatusPass:
			earned += w * passCredit
		case models.StatusWarn:
			earned += w * warnCredit
		case models.StatusFail:
		default:
			continue
		}
		possible += w
	}
	if possible == 0 {
		return 0
	}
	return int(math.Round(earned / possible * 100))
}

var grades = []struct {
	min   int
	grade models.Grade
}{
	{90, models.Grade{Label: "Excellent", Color: "#22c55e"}},
	{75, models.Grade{Label: "Good", Color: "#4ade80"}},
	{55, models.Grade{Label: "Fair", Color: "#f59e0b"}},
	{35, models.Grade{Label: "Poor", Color: "#f97316"}},
}

// GradeFor bands a score.
func GradeFor(score int) models.Grade {
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return models.Grade{Label: "Critical", Color: "#ef4444"}
}

// CategoryColor is the display hint for a category score.
func CategoryColor(score int) string {
	switch {
	case score >= 75:
		return "#22c55e"
	case score >= 50:
		return "#f59e0b"
	}
	return "#ef4444"
}

// Group is the findings of one category in catalog order.
type Group struct {
	Category models.Category
	Findings []models.Finding
}

// GroupByCategory partitions findings by category. Groups follow
// models.Categories; unknown categories come last in order of their first
// finding. Findings keep their input order inside each group.
func GroupByCategory(findings []models.Finding) []Group {
	var groups []Group
	index := map[models.Category]int{}
	for _, f := range findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, Group{Category: f.Category})
		}
		groups[i].Findings = append(groups[i].Findings, f)
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		return cmp.Compare(reportRank(a.Category), reportRank(b.Category))
	})
	return groups
}

func reportRank(c models.Category) int {
	if i := slices.Index(models.Categories, c); i >= 0 {
		return i
	}
	return len(models.Categories)
}

// CategoryScore is one category's independent score.
type CategoryScore struct {
	Category models.Category `json:"category"`
	Score    int             `json:"score"`
	Color    string          `json:"color"`
}

// CategoryScores applies Compute to each category group on its own.
func CategoryScores(findings []models.Finding) []CategoryScore {
	groups := GroupByCategory(findings)
	out := make([]CategoryScore, 0, len(groups))
	for _, g := range groups {
		s := Compute(g.Findings)
		out = append(out, CategoryScore{Category: g.Category, Score: s, Color: CategoryColor(s)})
	}
	return out
}

// Counts tallies findings per status.
type Counts struct {
	Pass  int `json:"pass"`
	Warn  int `json:"warn"`
	Fail  int `json:"fail"`
	Info  int `json:"info"`
	Total int `json:"total"`
}

// Tally counts findings per status.
func Tally(findings []models.Finding) Counts {
	c := Counts{Total: len(findings)}
	for _, f := range findings {
		switch f.Status {
		case models.StatusPass:
			c.Pass++
		case models.StatusWarn:
			c.Warn++
		case models.StatusFail:
			c.Fail++
		case models.StatusInfo:
			c.Info++
		}
	}
	return c
}
