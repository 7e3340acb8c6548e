package aiimport

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"family-planner-go/internal/domain/schedule"
)

// RawActivity mirrors the JSON objects a model emits. Every temporal
// field is optional because models routinely ignore the schema and
// answer with dates instead of week coordinates.
type RawActivity struct {
	Name             string             `json:"name"`
	Icon             *string            `json:"icon"`
	StartTime        string             `json:"startTime"`
	EndTime          string             `json:"endTime"`
	Participants     []schedule.FlexRef `json:"participants"`
	Location         *string            `json:"location"`
	Notes            *string            `json:"notes"`
	Color            *string            `json:"color"`
	Date             string             `json:"date"`
	Dates            []string           `json:"dates"`
	Day              *schedule.FlexRef  `json:"day"`
	Days             []schedule.FlexRef `json:"days"`
	Week             FlexInt            `json:"week"`
	Year             FlexInt            `json:"year"`
	RecurringEndDate string             `json:"recurringEndDate"`
}

// FlexInt decodes a JSON number or a numeric string, which models mix
// freely. Absent or junk values decode to nil.
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var number int
	if err := json.Unmarshal(data, &number); err == nil {
		f.Value = &number
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			f.Value = &parsed
		}
		return nil
	}
	// Tolerate nulls and junk; the required-field filter catches it.
	return nil
}

func DecodeRawActivities(items []json.RawMessage) []RawActivity {
	activities := make([]RawActivity, 0, len(items))
	for _, item := range items {
		var raw RawActivity
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		activities = append(activities, raw)
	}
	return activities
}

// NormalizeAndAlign converts model output into activity payloads fit
// for the scheduling pipeline: dates collapse into week coordinates,
// day labels are canonicalized, defaults fill missing week/year, and
// incomplete items are dropped rather than failing the batch.
func NormalizeAndAlign(locale schedule.WeekdayLocale, items []RawActivity, defaultWeek, defaultYear *int) []schedule.ActivityPayload {
	expanded := expandDates(locale, items, defaultWeek, defaultYear)
	return filterComplete(expanded)
}

type weekKey struct {
	week int
	year int
}

func expandDates(locale schedule.WeekdayLocale, items []RawActivity, defaultWeek, defaultYear *int) []schedule.ActivityPayload {
	var results []schedule.ActivityPayload

	for _, item := range items {
		base := schedule.ActivityPayload{
			Name:             item.Name,
			Icon:             item.Icon,
			StartTime:        item.StartTime,
			EndTime:          item.EndTime,
			Participants:     item.Participants,
			Location:         item.Location,
			Notes:            item.Notes,
			Color:            item.Color,
			RecurringEndDate: item.RecurringEndDate,
		}

		if item.Date != "" {
			dayName, week, year, err := dateComponents(locale, item.Date)
			if err != nil {
				continue
			}
			entry := base
			entry.Days = []schedule.FlexRef{schedule.FlexRef(dayName)}
			entry.Week = &week
			entry.Year = &year
			results = append(results, entry)
			continue
		}

		if len(item.Dates) > 0 {
			grouped := map[weekKey][]string{}
			var order []weekKey
			for _, rawDate := range item.Dates {
				dayName, week, year, err := dateComponents(locale, rawDate)
				if err != nil {
					continue
				}
				key := weekKey{week: week, year: year}
				if _, seen := grouped[key]; !seen {
					order = append(order, key)
				}
				if !containsString(grouped[key], dayName) {
					grouped[key] = append(grouped[key], dayName)
				}
			}
			for _, key := range order {
				entry := base
				entry.Days = toFlexRefs(grouped[key])
				week, year := key.week, key.year
				entry.Week = &week
				entry.Year = &year
				results = append(results, entry)
			}
			if len(order) > 0 {
				continue
			}
		}

		var candidateDays []string
		for _, day := range item.Days {
			if normalized, err := locale.Normalize(day.String()); err == nil && !containsString(candidateDays, normalized) {
				candidateDays = append(candidateDays, normalized)
			}
		}
		if item.Day != nil {
			if normalized, err := locale.Normalize(item.Day.String()); err == nil && !containsString(candidateDays, normalized) {
				candidateDays = append(candidateDays, normalized)
			}
		}

		entry := base
		entry.Days = toFlexRefs(candidateDays)
		entry.Week = firstInt(item.Week.Value, defaultWeek)
		entry.Year = firstInt(item.Year.Value, defaultYear)
		results = append(results, entry)
	}

	return results
}

// filterComplete drops entries that are still missing a required field
// after expansion. Model output is best-effort; partial items are
// noise, not errors.
func filterComplete(items []schedule.ActivityPayload) []schedule.ActivityPayload {
	results := make([]schedule.ActivityPayload, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		if item.StartTime == "" || item.EndTime == "" {
			continue
		}
		if len(item.Days) == 0 || item.Week == nil || item.Year == nil {
			continue
		}
		item.Name = strings.TrimSpace(item.Name)
		item.StartTime = strings.TrimSpace(item.StartTime)
		item.EndTime = strings.TrimSpace(item.EndTime)
		if item.Participants == nil {
			item.Participants = []schedule.FlexRef{}
		}
		results = append(results, item)
	}
	return results
}

func dateComponents(locale schedule.WeekdayLocale, value string) (string, int, int, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return "", 0, 0, err
	}
	year, week := date.ISOWeek()
	return locale.DayNameFor(date), week, year, nil
}

func toFlexRefs(days []string) []schedule.FlexRef {
	refs := make([]schedule.FlexRef, 0, len(days))
	for _, day := range days {
		refs = append(refs, schedule.FlexRef(day))
	}
	return refs
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func firstInt(values ...*int) *int {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}
