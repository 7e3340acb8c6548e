package schedule

// ExpandInstances turns a normalized activity into one descriptor per
// (day, week, year) it denotes. For recurring rules it walks the series
// week by week from the Monday of (week, year): per step, per requested
// day in the supplied order, the concrete date is computed and its ISO
// week/year recomputed (a week can span a year boundary); dates past the
// end date are skipped, and stepping stops once the Monday itself passes
// the end date. The emitted order is deterministic.
func ExpandInstances(locale WeekdayLocale, normalized *NormalizedActivity) []InstanceDescriptor {
	base := InstanceDescriptor{
		Name:         normalized.Name,
		Icon:         normalized.Icon,
		StartTime:    normalized.StartTime,
		EndTime:      normalized.EndTime,
		Participants: normalized.Participants,
		Location:     normalized.Location,
		Notes:        normalized.Notes,
		Color:        normalized.Color,
		SeriesID:     normalized.SeriesID,
	}

	if normalized.Recurring == nil {
		out := make([]InstanceDescriptor, 0, len(normalized.Occurrences))
		for _, occurrence := range normalized.Occurrences {
			instance := base
			instance.Day = occurrence.Day
			instance.Week = occurrence.Week
			instance.Year = occurrence.Year
			out = append(out, instance)
		}
		return out
	}

	rule := normalized.Recurring

	dayOffsets := make([]int, 0, len(rule.Days))
	for _, day := range rule.Days {
		index, err := locale.Index(day)
		if err != nil {
			continue
		}
		dayOffsets = append(dayOffsets, index-1)
	}

	var out []InstanceDescriptor
	for monday := MondayOfISOWeek(rule.Year, rule.Week); !monday.After(rule.EndDate); monday = monday.AddDate(0, 0, 7) {
		for _, offset := range dayOffsets {
			date := monday.AddDate(0, 0, offset)
			if date.After(rule.EndDate) {
				continue
			}
			year, week := ISOWeekYear(date)
			instance := base
			instance.Day = locale.DayNameFor(date)
			instance.Week = week
			instance.Year = year
			out = append(out, instance)
		}
	}
	return out
}
