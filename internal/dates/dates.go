// Package dates coerces loosely formatted date strings into YYYY-MM-DD.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical date representation.
const Layout = "2006-01-02"

var canonical = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalize is NormalizeIn using the local timezone.
func Normalize(value string) string {
	return NormalizeIn(value, time.Local)
}

// NormalizeIn returns value as YYYY-MM-DD. Blank input yields "". Input that
// cannot be parsed is returned unchanged rather than rejected, so legacy
// cells survive a rewrite. The current time is never consulted.
func NormalizeIn(value string, loc *time.Location) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if canonical.MatchString(trimmed) {
		return trimmed
	}

	if datePart, _, found := strings.Cut(trimmed, "T"); found && canonical.MatchString(datePart) {
		return datePart
	}

	if loc == nil {
		loc = time.Local
	}
	parsed, err := dateparse.ParseIn(trimmed, loc)
	if err != nil {
		return value
	}
	return parsed.In(loc).Format(Layout)
}

// Today returns the canonical date of now as seen from loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(Layout)
}
