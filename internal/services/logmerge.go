package services

import (
	"slices"
	"strings"
	"time"

	"github.com/harari-inventory/apiserver/internal/dates"
	"github.com/harari-inventory/apiserver/types"
)

type logKey struct {
	date string
	code string
}

// MergeLog folds pending readings into the existing log. Dates are
// normalized, a pending entry replaces any existing entry with the same
// (date, code) key, and every key appears once: among pending entries the
// later one wins, among existing entries the first one. The result is
// ordered by date, newest first; entries sharing a date keep their order.
func MergeLog(existing, pending []types.LogEntry, loc *time.Location) []types.LogEntry {
	merged := make([]types.LogEntry, 0, len(existing)+len(pending))
	position := make(map[logKey]int, len(existing)+len(pending))

	for _, entry := range pending {
		entry.Date = dates.NormalizeIn(entry.Date, loc)
		key := logKey{date: entry.Date, code: entry.Code}
		if i, ok := position[key]; ok {
			merged[i] = entry
			continue
		}
		position[key] = len(merged)
		merged = append(merged, entry)
	}

	for _, entry := range existing {
		entry.Date = dates.NormalizeIn(entry.Date, loc)
		key := logKey{date: entry.Date, code: entry.Code}
		if _, ok := position[key]; ok {
			continue
		}
		position[key] = len(merged)
		merged = append(merged, entry)
	}

	slices.SortStableFunc(merged, func(a, b types.LogEntry) int {
		return strings.Compare(b.Date, a.Date)
	})
	return merged
}
