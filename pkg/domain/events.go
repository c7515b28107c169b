package domain

import (
	"context"
	"time"
)

// BuildEvent describes one run of a path system or slice builder.
type BuildEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Kind      ResultKind `json:"kind"`
	Automaton string     `json:"automaton,omitempty"`
	Roots     []NodeID   `json:"roots"`

	// Filled on finish only.
	Marked   int           `json:"marked"`   // (node, state) pairs reached
	Entries  int           `json:"entries"`  // provenance entries recorded
	Finals   int           `json:"finals"`   // final (node, state) pairs
	Duration time.Duration `json:"duration"` // wall time of the build
	Err      error         `json:"-"`
}

// MarkEvent is emitted each time a (node, state) pair is reached for the first time.
type MarkEvent struct {
	Kind     ResultKind `json:"kind"`
	Node     NodeID     `json:"node"`
	State    int        `json:"state"`
	Final    bool       `json:"final"`
	Distance int        `json:"distance"`
}

// LifecycleHooks defines callbacks for builder observability.
// All fields are optional. Hooks run synchronously on the builder's goroutine.
type LifecycleHooks struct {
	OnBuildStart  func(context.Context, *BuildEvent)
	OnMark        func(context.Context, *MarkEvent)
	OnBuildFinish func(context.Context, *BuildEvent)
}
