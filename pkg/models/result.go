package models

import "time"

// Status is the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusInfo Status = "info" // never scored
)

// Category groups related checks in reports and category scores.
type Category string

const (
	CategoryMeta          Category = "Meta Tags"
	CategoryOpenGraph     Category = "Open Graph"
	CategoryTwitter       Category = "Twitter Cards"
	CategoryContent       Category = "Content Structure" // readability is folded in here
	CategoryTechnical     Category = "Technical SEO"
	CategoryImages        Category = "Image Optimization"
	CategoryPerformance   Category = "Performance"
	CategoryAccessibility Category = "Accessibility"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryMeta,
	CategoryOpenGraph,
	CategoryTwitter,
	CategoryContent,
	CategoryImages,
	CategoryTechnical,
	CategoryAccessibility,
	CategoryPerformance,
}

// HeadingEntry is one line of a page's heading outline.
type HeadingEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Extra carries structured data for checks that produce more than a value string.
type Extra struct {
	Headings []HeadingEntry `json:"headings,omitempty"`
}

// Finding is the result of one check against a document or URL.
type Finding struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Weight         int      `json:"weight"`
	Status         Status   `json:"status"`
	Value          string   `json:"value"`
	Recommendation string   `json:"recommendation"`
	Extra          *Extra   `json:"extra,omitempty"`
}

// Grade is the banded label for an overall score.
type Grade struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ScanResult is everything produced by one audit.
type ScanResult struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Findings  []Finding `json:"findings"`
	Score     int       `json:"score"`
	Grade     Grade     `json:"grade"`
	ScannedAt time.Time `json:"scanned_at"`
}

// HistoryRecord is the projection of a ScanResult kept in scan history.
type HistoryRecord struct {
	URL   string    `json:"url"`
	Score int       `json:"score"`
	Grade string    `json:"grade"`
	Date  time.Time `json:"date"`
}

// Record projects the result onto its history record.
func (r *ScanResult) Record() HistoryRecord {
	return HistoryRecord{
		URL:   r.URL,
		Score: r.Score,
		Grade: r.Grade.Label,
		Date:  r.ScannedAt,
	}
}
