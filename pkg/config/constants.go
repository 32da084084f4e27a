package config

import "time"

// Version is the current version of auditlens
const Version = "v1.2.0"

// Author is the author of the tool
const Author = "@lcalzada-xor"

// Tool is the name written into exported reports
const Tool = "AuditLens SEO Checker"

// Default Values
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 15 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultOutput      = "text"
)

// Retrieval and history limits
const (
	// MinBodyLength is the smallest unwrapped body accepted as a real page.
	MinBodyLength = 500
	// HistoryLimit is the number of scans kept in history, most recent first.
	HistoryLimit = 10
)

// EnvelopeFields are the JSON fields a relay may wrap the page HTML in,
// in lookup order.
var EnvelopeFields = []string{
	"contents",
	"body",
	"data",
}
