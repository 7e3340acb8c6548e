package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrSeriesNotFound   = errors.New("activity series not found")
	ErrMemberNotFound   = errors.New("family member not found")
	ErrMemberNameTaken  = errors.New("family member name already exists")
	ErrMemberInUse      = errors.New("family member has scheduled activities")
	ErrSettingsNotFound = errors.New("schedule settings not found")
)

// ValidationError reports a malformed or missing payload field. It is
// always surfaced with the offending field, never silently corrected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnknownParticipantsError lists participant references that did not
// resolve against the roster in strict mode.
type UnknownParticipantsError struct {
	Refs []string
}

func (e *UnknownParticipantsError) Error() string {
	return "unknown participants: " + strings.Join(e.Refs, ", ")
}

// ConflictError carries the full set of detected conflicts; the whole
// batch it belongs to is rejected.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts detected: %d", len(e.Conflicts))
}
