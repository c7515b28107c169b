package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Combine runs every set of hooks in order. Nil callbacks are skipped.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var starts []func(context.Context, *domain.BuildEvent)
	var marks []func(context.Context, *domain.MarkEvent)
	var finishes []func(context.Context, *domain.BuildEvent)
	for _, h := range all {
		if h.OnBuildStart != nil {
			starts = append(starts, h.OnBuildStart)
		}
		if h.OnMark != nil {
			marks = append(marks, h.OnMark)
		}
		if h.OnBuildFinish != nil {
			finishes = append(finishes, h.OnBuildFinish)
		}
	}

	var out domain.LifecycleHooks
	if len(starts) > 0 {
		out.OnBuildStart = func(ctx context.Context, ev *domain.BuildEvent) {
			for _, f := range starts {
				f(ctx, ev)
			}
		}
	}
	// Left nil when unused so builders can skip event construction.
	if len(marks) > 0 {
		out.OnMark = func(ctx context.Context, ev *domain.MarkEvent) {
			for _, f := range marks {
				f(ctx, ev)
			}
		}
	}
	if len(finishes) > 0 {
		out.OnBuildFinish = func(ctx context.Context, ev *domain.BuildEvent) {
			for _, f := range finishes {
				f(ctx, ev)
			}
		}
	}
	return out
}

// LogHooks writes one audit record per finished build.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildFinish: func(ctx context.Context, ev *domain.BuildEvent) {
			attrs := []any{
				"kind", ev.Kind,
				"automaton", ev.Automaton,
				"roots", len(ev.Roots),
				"marked", ev.Marked,
				"finals", ev.Finals,
				"duration", ev.Duration,
			}
			if ev.Err != nil {
				logger.WarnContext(ctx, "build failed", append(attrs, "err", ev.Err)...)
				return
			}
			logger.InfoContext(ctx, "build finished", attrs...)
		},
	}
}
