package schedule

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Service struct {
	repo   Repository
	locale WeekdayLocale
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, locale: DefaultWeekdays}
}

// NewServiceWithLocale overrides the weekday label set used for
// normalization and expansion.
func NewServiceWithLocale(repo Repository, locale WeekdayLocale) *Service {
	return &Service{repo: repo, locale: locale}
}

func (s *Service) Locale() WeekdayLocale { return s.locale }

// defaultRoster is seeded on a user's first roster read.
var defaultRoster = []CreateMemberInput{
	{Name: "Rut", Color: "#FF6B6B", Icon: "👧"},
	{Name: "Pim", Color: "#4E9FFF", Icon: "👦"},
	{Name: "Siv", Color: "#6BCF7F", Icon: "👧"},
	{Name: "Mamma", Color: "#A020F0", Icon: "👩"},
	{Name: "Pappa", Color: "#FF9F45", Icon: "👨"},
}

func (s *Service) ListMembers(ctx context.Context, userID string) ([]Member, error) {
	members, err := s.repo.ListMembers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return members, nil
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.ListMembers(ctx, userID)
		if err != nil {
			return err
		}
		if len(current) > 0 {
			members = current
			return nil
		}
		members = members[:0]
		for order, input := range defaultRoster {
			member := Member{
				ID:        uuid.NewString(),
				UserID:    userID,
				Name:      input.Name,
				Color:     input.Color,
				Icon:      input.Icon,
				SortOrder: order,
			}
			if err := tx.CreateMember(ctx, &member); err != nil {
				return err
			}
			members = append(members, member)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Service) CreateMember(ctx context.Context, userID string, input CreateMemberInput) (*Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name", "name is required")
	}
	if err := validateColor(input.Color); err != nil {
		return nil, err
	}
	if err := validateIcon(input.Icon); err != nil {
		return nil, err
	}

	var member Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		roster, err := tx.ListMembers(ctx, userID)
		if err != nil {
			return err
		}
		if nameTaken(roster, name, "") {
			return ErrMemberNameTaken
		}
		member = Member{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			Color:     input.Color,
			Icon:      input.Icon,
			SortOrder: len(roster),
		}
		return tx.CreateMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) UpdateMember(ctx context.Context, userID, memberID string, input UpdateMemberInput) (*Member, error) {
	if input.Name == nil && input.Color == nil && input.Icon == nil && input.SortOrder == nil {
		return nil, validationf("", "no fields to update")
	}

	var member *Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetMember(ctx, userID, memberID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return validationf("name", "name is required")
			}
			roster, err := tx.ListMembers(ctx, userID)
			if err != nil {
				return err
			}
			if nameTaken(roster, name, current.ID) {
				return ErrMemberNameTaken
			}
			current.Name = name
		}
		if input.Color != nil {
			if err := validateColor(*input.Color); err != nil {
				return err
			}
			current.Color = *input.Color
		}
		if input.Icon != nil {
			if err := validateIcon(*input.Icon); err != nil {
				return err
			}
			current.Icon = *input.Icon
		}
		if input.SortOrder != nil {
			if *input.SortOrder < 0 {
				return validationf("sortOrder", "sortOrder must be non-negative")
			}
			current.SortOrder = *input.SortOrder
		}
		member = current
		return tx.UpdateMember(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember refuses to remove a member that still participates in
// stored activities; the association is never cascaded away.
func (s *Service) DeleteMember(ctx context.Context, userID, memberID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, userID, memberID); err != nil {
			return err
		}
		count, err := tx.CountMemberActivities(ctx, memberID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrMemberInUse
		}
		deleted, err := tx.DeleteMember(ctx, userID, memberID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMemberNotFound
		}
		return nil
	})
}

func (s *Service) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, err
	}

	settings = &Settings{
		ID:           uuid.NewString(),
		UserID:       userID,
		ShowWeekends: false,
		DayStart:     DefaultDayStart,
		DayEnd:       DefaultDayEnd,
	}
	if err := s.repo.CreateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, input UpdateSettingsInput) (*Settings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ShowWeekends != nil {
		settings.ShowWeekends = *input.ShowWeekends
	}
	if input.DayStart != nil {
		settings.DayStart = *input.DayStart
	}
	if input.DayEnd != nil {
		settings.DayEnd = *input.DayEnd
	}
	if settings.DayStart < 0 || settings.DayStart > 23 || settings.DayEnd < 0 || settings.DayEnd > 23 {
		return nil, validationf("dayStart", "day window hours must be 0..23")
	}
	if settings.DayStart >= settings.DayEnd {
		return nil, validationf("dayStart", "dayStart must be earlier than dayEnd")
	}

	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) ListActivities(ctx context.Context, userID string, filter ActivityFilter) ([]Activity, error) {
	return s.repo.ListActivities(ctx, userID, filter)
}

func (s *Service) ListSeries(ctx context.Context, userID, seriesID string) ([]Activity, error) {
	activities, err := s.repo.ListActivitiesBySeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrSeriesNotFound
	}
	return activities, nil
}

// CreateActivities runs the full pipeline for a batch of raw payloads:
// validate, expand, resolve participants, detect conflicts, persist.
// The batch is all-or-nothing: a validation failure, unresolved
// participant (strict mode), or any conflict rejects every instance.
func (s *Service) CreateActivities(ctx context.Context, userID string, payloads []ActivityPayload, strict bool) ([]*Activity, error) {
	if len(payloads) == 0 {
		return nil, validationf("activities", "provide a non-empty array of activities")
	}

	var instances []InstanceDescriptor
	for _, raw := range payloads {
		normalized, err := ValidateActivityPayload(s.locale, raw)
		if err != nil {
			return nil, err
		}
		instances = append(instances, ExpandInstances(s.locale, normalized)...)
	}

	roster, err := s.repo.ListMembers(ctx, userID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveParticipants(collectRefs(instances), roster, strict)
	if err != nil {
		return nil, err
	}
	applyResolution(instances, resolution)

	conflicts, err := s.DetectConflicts(ctx, userID, instances)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	created := make([]*Activity, 0, len(instances))
	for _, instance := range instances {
		created = append(created, &Activity{
			ID:           uuid.NewString(),
			UserID:       userID,
			SeriesID:     instance.SeriesID,
			Name:         instance.Name,
			Icon:         instance.Icon,
			Day:          instance.Day,
			Week:         instance.Week,
			Year:         instance.Year,
			StartTime:    instance.StartTime,
			EndTime:      instance.EndTime,
			Location:     instance.Location,
			Notes:        instance.Notes,
			Color:        instance.Color,
			Participants: instance.Participants,
		})
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		return tx.CreateActivities(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateActivity(ctx context.Context, userID, activityID string, input UpdateActivityInput) (*Activity, error) {
	var updated *Activity
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		activity, err := tx.GetActivity(ctx, userID, activityID)
		if err != nil {
			return err
		}
		participants, err := s.applyActivityUpdate(ctx, tx, userID, activity, input)
		if err != nil {
			return err
		}
		if err := tx.UpdateActivity(ctx, activity); err != nil {
			return err
		}
		if participants != nil {
			if err := tx.ReplaceParticipants(ctx, activity.ID, participants); err != nil {
				return err
			}
			activity.Participants = participants
		}
		updated = activity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateSeries applies the same partial edit to every instance created
// from one submission, atomically.
func (s *Service) UpdateSeries(ctx context.Context, userID, seriesID string, input UpdateActivityInput) (int, error) {
	count := 0
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		activities, err := tx.ListActivitiesBySeries(ctx, userID, seriesID)
		if err != nil {
			return err
		}
		if len(activities) == 0 {
			return ErrSeriesNotFound
		}
		for i := range activities {
			activity := &activities[i]
			participants, err := s.applyActivityUpdate(ctx, tx, userID, activity, input)
			if err != nil {
				return err
			}
			if err := tx.UpdateActivity(ctx, activity); err != nil {
				return err
			}
			if participants != nil {
				if err := tx.ReplaceParticipants(ctx, activity.ID, participants); err != nil {
					return err
				}
			}
		}
		count = len(activities)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// applyActivityUpdate mutates the activity with the validated partial
// fields and returns the replacement participant id set, or nil when
// participants were not part of the edit.
func (s *Service) applyActivityUpdate(ctx context.Context, tx Repository, userID string, activity *Activity, input UpdateActivityInput) ([]string, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationf("name", "name is required")
		}
		activity.Name = name
	}
	if input.Icon != nil {
		activity.Icon = input.Icon
	}
	if input.Day != nil {
		day, err := s.locale.Normalize(input.Day.String())
		if err != nil {
			return nil, validationf("day", "%s", err)
		}
		activity.Day = day
	}
	if input.Week != nil {
		activity.Week = *input.Week
	}
	if input.Year != nil {
		activity.Year = *input.Year
	}
	if input.StartTime != nil {
		start, err := ParseTime(*input.StartTime)
		if err != nil {
			return nil, validationf("startTime", "%s", err)
		}
		activity.StartTime = start.String()
	}
	if input.EndTime != nil {
		end, err := ParseTime(*input.EndTime)
		if err != nil {
			return nil, validationf("endTime", "%s", err)
		}
		activity.EndTime = end.String()
	}
	if MinutesSinceMidnight(activity.StartTime) >= MinutesSinceMidnight(activity.EndTime) {
		return nil, validationf("startTime", "startTime must be earlier than endTime")
	}
	if input.Location != nil {
		activity.Location = input.Location
	}
	if input.Notes != nil {
		activity.Notes = input.Notes
	}
	if input.Color != nil {
		if *input.Color != "" {
			if err := validateColor(*input.Color); err != nil {
				return nil, err
			}
		}
		activity.Color = input.Color
	}

	if input.Participants == nil {
		return nil, nil
	}

	roster, err := tx.ListMembers(ctx, userID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveParticipants(refStrings(*input.Participants), roster, true)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(*input.Participants))
	seen := make(map[string]struct{})
	for _, ref := range *input.Participants {
		id := resolution.Resolved[ref.String()]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	deleted, err := s.repo.DeleteActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrActivityNotFound
	}
	return nil
}

func (s *Service) DeleteSeries(ctx context.Context, userID, seriesID string) (int64, error) {
	count, err := s.repo.DeleteSeries(ctx, userID, seriesID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrSeriesNotFound
	}
	return count, nil
}

func collectRefs(instances []InstanceDescriptor) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, instance := range instances {
		for _, ref := range instance.Participants {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}
	return refs
}

func nameTaken(roster []Member, name, excludeID string) bool {
	lowered := strings.ToLower(name)
	for _, member := range roster {
		if member.ID == excludeID {
			continue
		}
		if strings.ToLower(member.Name) == lowered {
			return true
		}
	}
	return false
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return validationf("color", "color must be a #RRGGBB hex value")
	}
	return nil
}

func validateIcon(icon string) error {
	if icon == "" || utf8.RuneCountInString(icon) > 4 || len(icon) > 10 {
		return validationf("icon", "icon must be a short emoji")
	}
	return nil
}
