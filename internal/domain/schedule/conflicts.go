package schedule

import "context"

type dayKey struct {
	Year int
	Week int
	Day  string
}

// DetectConflicts finds every stored activity that shares (year, week,
// day) and at least one participant with a new instance and overlaps it
// in time. Instances with disjoint or empty participant sets never
// conflict: only person double-booking matters here, not rooms or other
// resources. Detection is advisory; callers decide whether to abort.
func (s *Service) DetectConflicts(ctx context.Context, userID string, instances []InstanceDescriptor) ([]Conflict, error) {
	if len(instances) == 0 {
		return nil, nil
	}

	grouped := make(map[dayKey][]InstanceDescriptor)
	var order []dayKey
	for _, instance := range instances {
		key := dayKey{Year: instance.Year, Week: instance.Week, Day: instance.Day}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], instance)
	}

	var conflicts []Conflict
	for _, key := range order {
		existing, err := s.repo.ListActivitiesByDay(ctx, userID, key.Year, key.Week, key.Day)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, conflictsForDay(key, grouped[key], existing)...)
	}
	return conflicts, nil
}

func conflictsForDay(key dayKey, instances []InstanceDescriptor, existing []Activity) []Conflict {
	var conflicts []Conflict
	for _, instance := range instances {
		newSet := participantSet(instance.Participants)
		if len(newSet) == 0 {
			continue
		}
		for _, activity := range existing {
			existingSet := participantSet(activity.Participants)
			if len(existingSet) == 0 || !setsIntersect(newSet, existingSet) {
				continue
			}
			if !RangesOverlap(instance.StartTime, instance.EndTime, activity.StartTime, activity.EndTime) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Day:  key.Day,
				Week: key.Week,
				Year: key.Year,
				New: ConflictSide{
					Name:         instance.Name,
					StartTime:    instance.StartTime,
					EndTime:      instance.EndTime,
					Participants: instance.Participants,
				},
				Existing: ConflictSide{
					ID:           activity.ID,
					Name:         activity.Name,
					StartTime:    activity.StartTime,
					EndTime:      activity.EndTime,
					Participants: activity.Participants,
				},
			})
		}
	}
	return conflicts
}

func participantSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setsIntersect(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for id := range a {
		if _, ok := b[id]; ok {
			return true
		}
	}
	return false
}
