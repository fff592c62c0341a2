package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order before the Excel serial fallback.
var timestampLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// excelEpoch is day zero of the Excel 1900 date system as Excel computes it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const (
	minExcelSerial = 1
	maxExcelSerial = 60000
)

// ParseTimestamp parses an operator or 112 timestamp cell. It tries
// "dd.mm.YYYY HH:MM:SS", then "dd.mm.YYYY HH:MM", then a numeric Excel serial
// in [1, 60000]. The second return is false when nothing matched; callers
// must treat that as "not a timestamp" rather than a zero time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = Clean(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	serial, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(serial) || serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
}

// InWindow reports whether t lies in [start, end], both bounds inclusive.
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
