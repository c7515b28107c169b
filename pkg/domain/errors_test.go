package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestInterrupted(t *testing.T) {
	err := domain.Interrupted(context.Canceled)
	assert.ErrorIs(t, err, domain.ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, domain.IsInterruption(err))

	// Wrapping twice keeps a single marker.
	assert.Same(t, err, domain.Interrupted(err))
	assert.Equal(t, domain.ErrInterrupted, domain.Interrupted(nil))
}

func TestIsInterruption(t *testing.T) {
	assert.True(t, domain.IsInterruption(context.DeadlineExceeded))
	assert.True(t, domain.IsInterruption(fmt.Errorf("predicate: %w", domain.ErrInterrupted)))
	assert.False(t, domain.IsInterruption(errors.New("boom")))
	assert.False(t, domain.IsInterruption(nil))
}

func TestInvariantError(t *testing.T) {
	err := error(&domain.InvariantError{Node: 3, State: 1, Reason: "node has no parent"})
	assert.ErrorIs(t, err, domain.ErrInvariant)
	assert.Equal(t, "internal invariant violated at (v3, state 1): node has no parent", err.Error())
}

func TestIDs(t *testing.T) {
	assert.Equal(t, "v2", domain.NodeID(2).String())
	assert.Equal(t, "none", domain.NoNode.String())
	assert.False(t, domain.NoEdge.Valid())
	assert.True(t, domain.EdgeID(0).Valid())
	assert.Equal(t, "in", domain.In.String())
}
