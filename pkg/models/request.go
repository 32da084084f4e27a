package models

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	// hostSuffix requires a DNS-label-like trailing suffix such as ".com".
	hostSuffix = regexp.MustCompile(`(?i)\.[a-z]{2,}$`)
)

// NormalizeTarget turns user input ("site.com", "http://site.com/page",
// "//site.com") into an https URL. Invalid input yields a *ValidationError.
func NormalizeTarget(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	u = schemePrefix.ReplaceAllString(u, "")
	u = strings.TrimPrefix(u, "//")
	if u == "" || strings.ContainsAny(u, " \t\r\n") {
		return "", &ValidationError{Input: raw}
	}

	target := "https://" + u
	parsed, err := url.Parse(target)
	if err != nil {
		return "", &ValidationError{Input: raw}
	}
	if !hostSuffix.MatchString(parsed.Hostname()) {
		return "", &ValidationError{Input: raw}
	}

	return target, nil
}
