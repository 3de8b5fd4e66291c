package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical day names for the five-day working week.
const (
	DaySunday    = "SUNDAY"
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
)

// dayAliases maps accepted spellings, including the Arabic day names the
// legacy availability strings use, onto canonical names.
var dayAliases = map[string]string{
	"sunday":    DaySunday,
	"monday":    DayMonday,
	"tuesday":   DayTuesday,
	"wednesday": DayWednesday,
	"thursday":  DayThursday,
	"الأحد":     DaySunday,
	"الاحد":     DaySunday,
	"الإثنين":   DayMonday,
	"الاثنين":   DayMonday,
	"الثلاثاء":  DayTuesday,
	"الأربعاء":  DayWednesday,
	"الاربعاء":  DayWednesday,
	"الخميس":    DayThursday,
}

// ParseDay resolves a day name (canonical, lower-case English, or Arabic)
// into its canonical form.
func ParseDay(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := dayAliases[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	if canonical, ok := dayAliases[trimmed]; ok {
		return canonical, true
	}
	upper := strings.ToUpper(trimmed)
	switch upper {
	case DaySunday, DayMonday, DayTuesday, DayWednesday, DayThursday:
		return upper, true
	}
	return "", false
}

// ParseBlockedText converts the legacy free-text unavailable notation into
// structured ranges. Tokens are separated by ';' or ',' and each token is
// "<day> HH:MM-HH:MM" with English or Arabic day names. Malformed tokens are
// skipped; the engine only ever sees structured ranges.
func ParseBlockedText(raw string) []BlockedRange {
	var ranges []BlockedRange
	for _, token := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		fields := strings.Fields(token)
		if len(fields) != 2 {
			continue
		}
		day, ok := ParseDay(fields[0])
		if !ok {
			continue
		}
		start, end, err := parseClockRange(fields[1])
		if err != nil || end <= start {
			continue
		}
		ranges = append(ranges, BlockedRange{Day: day, StartMinutes: start, EndMinutes: end})
	}
	return ranges
}

func parseClockRange(raw string) (int, int, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM-HH:MM, got %q", raw)
	}
	start, err := parseClockMinutes(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClockMinutes(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseClock converts an HH:MM clock string to minutes from midnight.
func ParseClock(raw string) (int, error) {
	return parseClockMinutes(raw)
}

func parseClockMinutes(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
