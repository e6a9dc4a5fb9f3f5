package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidEnum is returned when a closed enumeration holds an unknown value
	ErrInvalidEnum = errors.New("invalid enumeration value")
	// ErrInvalidStudent wraps every structural validation failure
	ErrInvalidStudent = errors.New("invalid student record")
)

var validate = validator.New()

// Validate checks the record invariants: required ids, ISO dates, assessment
// levels in [1,5], non-negative durations and closed enumerations.
func (s Student) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidStudent, s.ID, err)
	}
	for i, msg := range s.ChatHistory {
		if !msg.Role.IsValid() {
			return fmt.Errorf("%w: %s: chat message %d: %w", ErrInvalidStudent, s.ID, i, ErrInvalidEnum)
		}
	}
	for _, goal := range s.AchievedGoals {
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidStudent, s.ID, err)
		}
	}
	return nil
}

// Validate checks a single goal, including its enumerations
func (g AchievedGoal) Validate() error {
	if err := validate.Struct(g); err != nil {
		return err
	}
	if !g.GoalType.IsValid() {
		return fmt.Errorf("%w: goal type %q", ErrInvalidEnum, g.GoalType)
	}
	if !g.MasteryLevel.IsValid() {
		return fmt.Errorf("%w: mastery level %q", ErrInvalidEnum, g.MasteryLevel)
	}
	return nil
}

// Validate checks the six assessment levels
func (a Assessments) Validate() error {
	return validate.Struct(a)
}

// Validate checks a single log entry
func (l SessionLog) Validate() error {
	return validate.Struct(l)
}

// Validate checks a single upcoming session entry
func (u UpcomingSession) Validate() error {
	return validate.Struct(u)
}
