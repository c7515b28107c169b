package observability_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, observability.OutcomeOK, observability.Outcome(nil))
	assert.Equal(t, observability.OutcomeInterrupted, observability.Outcome(domain.Interrupted(context.Canceled)))
	assert.Equal(t, observability.OutcomeInvariant, observability.Outcome(&domain.InvariantError{Reason: "x"}))
	assert.Equal(t, observability.OutcomeError, observability.Outcome(errors.New("boom")))
}

func TestMetrics_FromEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := wayfinder.New(testutils.CycleGraph(t), wayfinder.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	a := testutils.OneOrMoreForward(t)
	ctx := context.Background()

	_, err = eng.BuildPathSystem(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)
	_, err = eng.BuildSlice(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = eng.BuildSlice(cancelled, a, []domain.NodeID{0}, nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("pathsystem", "forward+", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("slice", "forward+", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("slice", "forward+", "interrupted")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Builds))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	var trail []string
	record := func(name string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnBuildStart:  func(context.Context, *domain.BuildEvent) { trail = append(trail, name+":start") },
			OnBuildFinish: func(context.Context, *domain.BuildEvent) { trail = append(trail, name+":finish") },
		}
	}

	hooks := observability.Combine(record("a"), domain.LifecycleHooks{}, record("b"))
	assert.Nil(t, hooks.OnMark)

	ctx := context.Background()
	hooks.OnBuildStart(ctx, &domain.BuildEvent{})
	hooks.OnBuildFinish(ctx, &domain.BuildEvent{})
	assert.Equal(t, []string{"a:start", "b:start", "a:finish", "b:finish"}, trail)

	empty := observability.Combine()
	assert.Nil(t, empty.OnBuildStart)
	assert.Nil(t, empty.OnBuildFinish)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnBuildFinish(ctx, &domain.BuildEvent{Kind: domain.KindSlice, Automaton: "a", Marked: 7})
	hooks.OnBuildFinish(ctx, &domain.BuildEvent{Kind: domain.KindSlice, Err: fmt.Errorf("broken")})

	out := buf.String()
	assert.Contains(t, out, "build finished")
	assert.Contains(t, out, "marked=7")
	assert.Contains(t, out, "level=WARN msg=\"build failed\"")
	assert.Contains(t, out, "err=broken")
}
