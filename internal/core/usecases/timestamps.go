// internal/core/usecases/timestamps.go
package usecases

import (
	"strconv"
	"strings"
	"time"

	"leadrouter/internal/core/domain"
)

// epochSecondsThreshold separates epoch seconds from epoch milliseconds.
// Values below it are seconds and get multiplied by 1000.
const epochSecondsThreshold = int64(1e12)

// timestampLayouts are tried in order when a timestamp arrives as a string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CardTimestampMs resolves a card's last-stage-change time in epoch
// milliseconds: the status-change timestamp first, then the generic
// updated-at field. A card with no resolvable timestamp reports ok == false
// and must never be assumed stale.
func CardTimestampMs(card domain.Card) (int64, bool) {
	for _, v := range []any{card.StatusChangedAt, card.UpdatedAt} {
		if ms, ok := coerceTimestampMs(v); ok {
			return ms, true
		}
	}
	return 0, false
}

// coerceTimestampMs accepts epoch milliseconds, epoch seconds, numeric
// strings of either, and a handful of ISO-ish date strings (with a
// space-to-T fallback for space-separated datetimes).
func coerceTimestampMs(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return normalizeEpochMs(int64(t))
	case int:
		return normalizeEpochMs(int64(t))
	case int64:
		return normalizeEpochMs(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return normalizeEpochMs(int64(n))
		}
		return parseTimestampString(s)
	default:
		return 0, false
	}
}

func normalizeEpochMs(n int64) (int64, bool) {
	if n <= 0 {
		return 0, false
	}
	if n < epochSecondsThreshold {
		return n * 1000, true
	}
	return n, true
}

func parseTimestampString(s string) (int64, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UnixMilli(), true
		}
	}
	// date-then-time normalization for space-separated datetimes that the
	// fixed layouts did not cover (e.g. with a zone suffix)
	if strings.Contains(s, " ") {
		normalized := strings.Replace(s, " ", "T", 1)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, normalized); err == nil {
				return ts.UnixMilli(), true
			}
		}
	}
	return 0, false
}
