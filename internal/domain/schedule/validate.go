package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const isoDateLayout = "2006-01-02"

// FlexRef is a participant or day reference that clients may send as a
// JSON string or number; it keeps the textual form.
type FlexRef string

func (r *FlexRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = FlexRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*r = FlexRef(n.String())
		return nil
	}
	return fmt.Errorf("expected string or number")
}

func (r FlexRef) String() string { return string(r) }

func refStrings(refs []FlexRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.String())
	}
	return out
}

// ValidateActivityPayload normalizes one raw activity. The temporal
// branches are mutually exclusive, first match wins: explicit date(s),
// then day(s)+week+year, which becomes a recurring weekly rule when
// recurringEndDate is present. Any invalid field aborts the whole
// submission; no partial result is returned.
func ValidateActivityPayload(locale WeekdayLocale, raw ActivityPayload) (*NormalizedActivity, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, validationf("name", "name is required")
	}

	start, err := ParseTime(raw.StartTime)
	if err != nil {
		return nil, validationf("startTime", "%s", err)
	}
	end, err := ParseTime(raw.EndTime)
	if err != nil {
		return nil, validationf("endTime", "%s", err)
	}
	if !start.Before(end) {
		return nil, validationf("startTime", "startTime must be earlier than endTime")
	}

	seriesID := strings.TrimSpace(raw.SeriesID)
	if seriesID == "" {
		seriesID = uuid.NewString()
	}

	normalized := &NormalizedActivity{
		Name:         name,
		Icon:         raw.Icon,
		StartTime:    start.String(),
		EndTime:      end.String(),
		Participants: refStrings(raw.Participants),
		Location:     raw.Location,
		Notes:        raw.Notes,
		Color:        raw.Color,
		SeriesID:     seriesID,
	}

	if raw.Date != "" || len(raw.Dates) > 0 {
		dates := raw.Dates
		if raw.Date != "" {
			if strings.TrimSpace(raw.Date) == "" {
				return nil, validationf("date", "date must be a non-empty ISO date string (YYYY-MM-DD)")
			}
			dates = []string{raw.Date}
		}
		occurrences, err := datesToOccurrences(locale, dates)
		if err != nil {
			return nil, err
		}
		normalized.Occurrences = occurrences
		return normalized, nil
	}

	var days []string
	switch {
	case len(raw.Days) > 0:
		for _, label := range raw.Days {
			day, err := locale.Normalize(label.String())
			if err != nil {
				return nil, validationf("days", "%s", err)
			}
			days = append(days, day)
		}
	case raw.Day != nil:
		day, err := locale.Normalize(raw.Day.String())
		if err != nil {
			return nil, validationf("day", "%s", err)
		}
		days = []string{day}
	default:
		return nil, validationf("day", "provide either 'date'/'dates' or 'days'/'day'")
	}

	if raw.Week == nil {
		return nil, validationf("week", "week must be an integer")
	}
	if raw.Year == nil {
		return nil, validationf("year", "year must be an integer")
	}
	week, year := *raw.Week, *raw.Year

	if raw.RecurringEndDate != "" {
		endDate, err := time.Parse(isoDateLayout, strings.TrimSpace(raw.RecurringEndDate))
		if err != nil {
			return nil, validationf("recurringEndDate", "invalid ISO date: %s (expected YYYY-MM-DD)", raw.RecurringEndDate)
		}
		startDate := MondayOfISOWeek(year, week)
		if endDate.Before(startDate) {
			return nil, validationf("recurringEndDate", "recurringEndDate must not precede %s", startDate.Format(isoDateLayout))
		}
		normalized.Recurring = &RecurringRule{Days: days, Week: week, Year: year, EndDate: endDate}
		return normalized, nil
	}

	occurrences := make([]DayWeekYear, 0, len(days))
	for _, day := range days {
		occurrences = append(occurrences, DayWeekYear{Day: day, Week: week, Year: year})
	}
	normalized.Occurrences = occurrences
	return normalized, nil
}

func datesToOccurrences(locale WeekdayLocale, dates []string) ([]DayWeekYear, error) {
	if len(dates) == 0 {
		return nil, validationf("dates", "dates must be a non-empty array of ISO date strings (YYYY-MM-DD)")
	}
	occurrences := make([]DayWeekYear, 0, len(dates))
	for _, value := range dates {
		date, err := time.Parse(isoDateLayout, strings.TrimSpace(value))
		if err != nil {
			return nil, validationf("dates", "invalid ISO date: %s (expected YYYY-MM-DD)", value)
		}
		year, week := ISOWeekYear(date)
		occurrences = append(occurrences, DayWeekYear{
			Day:  locale.DayNameFor(date),
			Week: week,
			Year: year,
		})
	}
	return occurrences, nil
}
