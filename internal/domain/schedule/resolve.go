package schedule

import "strings"

// Resolution maps each raw participant reference to the canonical
// member id it resolved to; Unknown keeps the references that matched
// neither an id nor a name.
type Resolution struct {
	Resolved map[string]string
	Unknown  []string
}

// ResolveParticipants matches references against the roster, by id
// first and then by case-insensitive name. It never creates members.
// In strict mode any unknown reference fails the whole resolution with
// an UnknownParticipantsError listing every unknown; in lenient mode
// unknowns are simply left out of Resolved.
func ResolveParticipants(refs []string, roster []Member, strict bool) (Resolution, error) {
	byID := make(map[string]Member, len(roster))
	byName := make(map[string]Member, len(roster))
	for _, member := range roster {
		byID[member.ID] = member
		byName[strings.ToLower(member.Name)] = member
	}

	resolution := Resolution{Resolved: make(map[string]string, len(refs))}
	seenUnknown := make(map[string]struct{})

	for _, ref := range refs {
		if _, done := resolution.Resolved[ref]; done {
			continue
		}
		if member, ok := byID[ref]; ok {
			resolution.Resolved[ref] = member.ID
			continue
		}
		if member, ok := byName[strings.ToLower(ref)]; ok {
			resolution.Resolved[ref] = member.ID
			continue
		}
		if _, seen := seenUnknown[ref]; !seen {
			seenUnknown[ref] = struct{}{}
			resolution.Unknown = append(resolution.Unknown, ref)
		}
	}

	if strict && len(resolution.Unknown) > 0 {
		return Resolution{Unknown: resolution.Unknown}, &UnknownParticipantsError{Refs: resolution.Unknown}
	}
	return resolution, nil
}

// applyResolution rewrites each instance's participant references to
// resolved member ids, dropping unknowns and duplicates while keeping
// the supplied order.
func applyResolution(instances []InstanceDescriptor, resolution Resolution) {
	for i := range instances {
		ids := make([]string, 0, len(instances[i].Participants))
		seen := make(map[string]struct{}, len(instances[i].Participants))
		for _, ref := range instances[i].Participants {
			id, ok := resolution.Resolved[ref]
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		instances[i].Participants = ids
	}
}
