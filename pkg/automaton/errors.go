package automaton

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ValidationError represents a single structural defect of an automaton.
type ValidationError struct {
	State      int // State number, -1 when not state-specific
	Transition int // Index into State.Out, meaningful only when Reason is about a transition
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.State < 0 {
		return e.Reason
	}
	return fmt.Sprintf("state %d: %s", e.State, e.Reason)
}

// Unwrap lets errors.Is(err, domain.ErrInvalidAutomaton) match.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidAutomaton
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
