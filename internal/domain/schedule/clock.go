package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseTime accepts "HH:MM" (a single-digit hour is tolerated and
// canonicalized) with hour 0-23 and minute 0-59.
func ParseTime(value string) (ClockTime, error) {
	if len(value) != 4 && len(value) != 5 {
		return ClockTime{}, fmt.Errorf("time must be %q", "HH:MM")
	}
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("time must be %q", "HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("time must be %q", "HH:MM")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("time must be %q", "HH:MM")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("time must be %q in 24h range", "HH:MM")
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports strict ordering.
func (t ClockTime) Before(other ClockTime) bool {
	return t.Minutes() < other.Minutes()
}

// MinutesSinceMidnight assumes a canonical "HH:MM" string.
func MinutesSinceMidnight(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute := 0
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour*60 + minute
}

// RangesOverlap treats both ranges as half-open minute intervals.
func RangesOverlap(startA, endA, startB, endB string) bool {
	a1, b1 := MinutesSinceMidnight(startA), MinutesSinceMidnight(endA)
	a2, b2 := MinutesSinceMidnight(startB), MinutesSinceMidnight(endB)
	return max(a1, a2) < min(b1, b2)
}

// WeekdayLocale maps between weekday labels and ISO weekday indices
// (Monday=1). It is a pure lookup table, so alternate label sets can be
// passed where the default does not fit.
type WeekdayLocale struct {
	names  [7]string
	lookup map[string]int
}

func NewWeekdayLocale(names [7]string, aliases map[string]int) WeekdayLocale {
	lookup := make(map[string]int, len(names)+len(aliases))
	for i, name := range names {
		lookup[strings.ToLower(name)] = i + 1
	}
	for alias, index := range aliases {
		lookup[strings.ToLower(alias)] = index
	}
	return WeekdayLocale{names: names, lookup: lookup}
}

// DefaultWeekdays is the English label set with common abbreviations.
var DefaultWeekdays = NewWeekdayLocale(
	[7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	map[string]int{
		"mon": 1, "tue": 2, "tues": 2, "wed": 3, "thu": 4, "thur": 4,
		"thurs": 4, "fri": 5, "sat": 6, "sun": 7,
	},
)

// NameFor returns the canonical label for an ISO weekday index 1-7.
func (l WeekdayLocale) NameFor(iso int) (string, error) {
	if iso < 1 || iso > 7 {
		return "", fmt.Errorf("day int must be 1..7 (ISO, Monday=1)")
	}
	return l.names[iso-1], nil
}

// Index returns the ISO weekday index for a canonical or aliased label.
func (l WeekdayLocale) Index(label string) (int, error) {
	index, ok := l.lookup[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("day must be a weekday name or 1..7")
	}
	return index, nil
}

// Normalize accepts a weekday label (name, abbreviation, or a numeric
// string 1-7) and returns the canonical name.
func (l WeekdayLocale) Normalize(label string) (string, error) {
	trimmed := strings.TrimSpace(label)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return l.NameFor(n)
	}
	index, err := l.Index(trimmed)
	if err != nil {
		return "", err
	}
	return l.names[index-1], nil
}

// DayNameFor returns the canonical label for a concrete date.
func (l WeekdayLocale) DayNameFor(date time.Time) string {
	return l.names[isoWeekday(date)-1]
}

func isoWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		return 7
	}
	return weekday
}

// ISOWeekYear returns the ISO-8601 week-numbering (year, week) pair.
func ISOWeekYear(date time.Time) (year, week int) {
	return date.ISOWeek()
}

// MondayOfISOWeek is the inverse of ISOWeekYear for Mondays: the
// calendar date of the Monday starting the given ISO week. January 4 is
// always inside week 1.
func MondayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
