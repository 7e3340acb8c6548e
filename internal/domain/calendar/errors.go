package calendar

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNoteNotFound  = errors.New("day note not found")
	ErrInvalidRange  = errors.New("end must not be before start")
	ErrTitleRequired = errors.New("title is required")
	ErrBadDate       = errors.New("invalid date format, use YYYY-MM-DD")
)
