package aiimport

import (
	"context"
	"errors"
	"fmt"

	"family-planner-go/internal/domain/schedule"
	"family-planner-go/pkg/logger"
)

var ErrNotConfigured = errors.New("AI parsing is not configured")

// Completer is the slice of the LLM client the importer needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// ActivityParser turns raw model output into decoded JSON items; the
// llm package provides it.
type ActivityParser func(text string) ([]RawActivity, error)

type Service struct {
	llm      Completer
	schedule *schedule.Service
	parse    ActivityParser
	strict   bool
	log      logger.Logger
}

func NewService(completer Completer, scheduleService *schedule.Service, parse ActivityParser, strict bool, log logger.Logger) *Service {
	return &Service{
		llm:      completer,
		schedule: scheduleService,
		parse:    parse,
		strict:   strict,
		log:      log,
	}
}

// Configured reports whether the importer can reach a model.
func (s *Service) Configured() bool {
	return s.llm != nil && s.llm.Configured()
}

// Preview parses free-form text into activity payloads without
// persisting anything, so the client can show what an import would
// create.
func (s *Service) Preview(ctx context.Context, userID, text string, week, year *int) ([]schedule.ActivityPayload, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	roster, err := s.schedule.ListMembers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	prompt, err := BuildParsePrompt(text, roster, week, year)
	if err != nil {
		return nil, &schedule.ValidationError{Field: "text", Message: err.Error()}
	}

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}

	items, err := s.parse(reply)
	if err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	payloads := NormalizeAndAlign(s.schedule.Locale(), items, week, year)
	s.log.Info("parsed activities from text",
		"user_id", userID, "raw_items", len(items), "usable", len(payloads))
	return payloads, nil
}

// Import parses the text and persists the resulting activities through
// the scheduling pipeline, inheriting its validation and conflict
// checks.
func (s *Service) Import(ctx context.Context, userID, text string, week, year *int) ([]*schedule.Activity, error) {
	payloads, err := s.Preview(ctx, userID, text, week, year)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return []*schedule.Activity{}, nil
	}
	return s.schedule.CreateActivities(ctx, userID, payloads, s.strict)
}
