package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// prepare validates the inputs shared by every builder and returns the
// de-duplicated roots in caller order.
func prepare(g ports.Graph, a *automaton.Automaton, roots []domain.NodeID) ([]domain.NodeID, error) {
	if g == nil {
		return nil, fmt.Errorf("nil graph")
	}
	if a == nil {
		return nil, fmt.Errorf("%w: nil automaton", domain.ErrInvalidAutomaton)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, domain.ErrNoRoots
	}
	seen := make(map[domain.NodeID]bool, len(roots))
	out := make([]domain.NodeID, 0, len(roots))
	for _, r := range roots {
		if r < 0 || int(r) >= g.NodeCount() {
			return nil, fmt.Errorf("%w: root %s", domain.ErrUnknownNode, r)
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}

// run tracks one build for logging and hooks.
type run struct {
	cfg   *config
	event *domain.BuildEvent
	start time.Time
}

func (c *config) begin(ctx context.Context, kind domain.ResultKind, a *automaton.Automaton, roots []domain.NodeID) *run {
	r := &run{
		cfg:   c,
		start: time.Now(),
		event: &domain.BuildEvent{
			Timestamp: time.Now(),
			Kind:      kind,
			Automaton: a.Name,
			Roots:     roots,
		},
	}
	if c.hooks.OnBuildStart != nil {
		c.hooks.OnBuildStart(ctx, r.event)
	}
	c.logger.Debug("build started", "kind", kind, "automaton", a.Name, "roots", len(roots))
	return r
}

func (r *run) mark(ctx context.Context, e entry, final bool) {
	if r.cfg.hooks.OnMark == nil {
		return
	}
	r.cfg.hooks.OnMark(ctx, &domain.MarkEvent{
		Kind:     r.event.Kind,
		Node:     e.node,
		State:    int(e.state),
		Final:    final,
		Distance: int(e.distance),
	})
}

func (r *run) finish(ctx context.Context, marked, entries, finals int, err error) {
	r.event.Marked = marked
	r.event.Entries = entries
	r.event.Finals = finals
	r.event.Duration = time.Since(r.start)
	r.event.Err = err
	if err != nil {
		r.cfg.logger.Debug("build failed", "kind", r.event.Kind, "automaton", r.event.Automaton, "err", err)
	} else {
		r.cfg.logger.Debug("build finished",
			"kind", r.event.Kind,
			"automaton", r.event.Automaton,
			"marked", marked,
			"entries", entries,
			"finals", finals,
			"duration", r.event.Duration,
		)
	}
	if r.cfg.hooks.OnBuildFinish != nil {
		r.cfg.hooks.OnBuildFinish(ctx, r.event)
	}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.Interrupted(err)
	}
	return nil
}
