package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSuchPath is returned when a path is requested to a node that never
// reached a final automaton state.
var ErrNoSuchPath = errors.New("no such path")

// ErrInterrupted signals a cooperative abort of a running computation.
// Any partial result must be discarded by the caller.
var ErrInterrupted = errors.New("evaluation interrupted")

// ErrInvariant marks internal-invariant violations found while reconstructing
// a result. It indicates a malformed automaton or a defect in the marking phase.
var ErrInvariant = errors.New("internal invariant violated")

// ErrUnknownNode is returned when a node id or name does not exist in the host graph.
var ErrUnknownNode = errors.New("unknown node")

// ErrNoRoots is returned when a computation is started without root nodes.
var ErrNoRoots = errors.New("no root nodes")

// ErrInvalidQuery is returned when a query is incomplete or names an unknown mode.
var ErrInvalidQuery = errors.New("invalid query")

// ErrResultNotFound is returned when a result is not present in a ResultStore.
var ErrResultNotFound = errors.New("result not found")

// ErrInvalidAutomaton is returned when an automaton fails structural validation.
var ErrInvalidAutomaton = errors.New("invalid automaton")

// InvariantError describes a reconstruction inconsistency at a (node, state) pair.
type InvariantError struct {
	Node   NodeID
	State  int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s at (%s, state %d): %s", ErrInvariant, e.Node, e.State, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvariant) match.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// IsInterruption reports whether err is a cooperative abort, either an explicit
// ErrInterrupted or a context cancellation/deadline.
func IsInterruption(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Interrupted wraps cause so that it matches both ErrInterrupted and cause.
// Errors already carrying ErrInterrupted are returned as is.
func Interrupted(cause error) error {
	if cause == nil {
		return ErrInterrupted
	}
	if errors.Is(cause, ErrInterrupted) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}
