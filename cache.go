package wayfinder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/cespare/xxhash/v2"
)

type cacheable interface {
	json.Marshaler
	json.Unmarshaler
}

// cacheKey fingerprints a build as [graph/]automaton@roots#digest, where the
// digest covers the graph content and the automaton. Builds with an
// environment cannot be cached: the environment is opaque and may change what
// predicates accept.
func (e *Engine) cacheKey(a *automaton.Automaton, roots []domain.NodeID, env any) (string, bool) {
	if e.store == nil || a == nil || a.Name == "" || env != nil {
		return "", false
	}
	ids := make([]string, len(roots))
	for i, r := range roots {
		ids[i] = strconv.Itoa(int(r))
	}
	d := xxhash.New()
	fmt.Fprintf(d, "%016x\n", e.graphDigest)
	writeAutomaton(d, a)
	key := fmt.Sprintf("%s@%s#%016x", a.Name, strings.Join(ids, ","), d.Sum64())
	if e.Name != "" {
		key = e.Name + "/" + key
	}
	return key, true
}

// digestGraph hashes what a build can observe of g: nodes, edges, their
// attributes and the incidence order. Graphs are read-only once handed to an
// Engine, so the digest is taken once.
func digestGraph(g ports.Graph) uint64 {
	d := xxhash.New()
	for i := 0; i < g.NodeCount(); i++ {
		id := domain.NodeID(i)
		n, _ := g.Node(id)
		fmt.Fprintf(d, "n %q %q %s\n", n.Name, n.Type, attributes(n.Attributes))
		for _, inc := range g.Incidences(id) {
			fmt.Fprintf(d, "i %d %d %d\n", inc.Edge, inc.Direction, inc.That)
		}
	}
	for i := 0; i < g.EdgeCount(); i++ {
		ed, _ := g.Edge(domain.EdgeID(i))
		fmt.Fprintf(d, "e %d %d %q %s\n", ed.Alpha, ed.Omega, ed.Type, attributes(ed.Attributes))
	}
	return d.Sum64()
}

// writeAutomaton writes the structure of a and its compiled source, if any.
// Predicates written in Go are opaque: change the automaton's name when they change.
func writeAutomaton(w io.Writer, a *automaton.Automaton) {
	fmt.Fprintf(w, "a %q %d %q\n", a.Name, a.Initial.Number, a.Source)
	for _, s := range a.States {
		fmt.Fprintf(w, "s %d %t\n", s.Number, s.Final)
		for _, t := range s.Out {
			fmt.Fprintf(w, "t %s %d %t\n", t.Kind, t.End.Number, t.Accept != nil)
		}
	}
}

func attributes(attrs map[string]any) string {
	if len(attrs) == 0 {
		return "{}"
	}
	// encoding/json sorts map keys.
	b, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Sprintf("%v", attrs)
	}
	return string(b)
}

func loadCached[T cacheable](ctx context.Context, e *Engine, key string, kind domain.ResultKind, v T) bool {
	payload, err := e.store.Load(ctx, key, kind)
	if err != nil {
		if !errors.Is(err, domain.ErrResultNotFound) {
			e.logger.Warn("result store load failed", "key", key, "kind", kind, "err", err)
		}
		return false
	}
	if err := v.UnmarshalJSON(payload); err != nil {
		e.logger.Warn("discarding unreadable cached result", "key", key, "kind", kind, "err", err)
		return false
	}
	e.logger.Debug("cache hit", "key", key, "kind", kind)
	return true
}

// cachedBuild serves a result from the store or builds and stores it. With a
// locker, replicas wait for each other and re-check the store before building.
// Store failures degrade to uncached builds; they never fail the query.
func cachedBuild[T cacheable](ctx context.Context, e *Engine, key string, kind domain.ResultKind, fresh func() T, build func(context.Context) (T, error)) (T, error) {
	if v := fresh(); loadCached(ctx, e, key, kind, v) {
		return v, nil
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, string(kind)+":"+key, e.lockTTL)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("failed to acquire lock for %s: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("failed to release lock", "key", key, "err", err)
			}
		}()
		if v := fresh(); loadCached(ctx, e, key, kind, v) {
			return v, nil
		}
	}

	v, err := build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	payload, err := v.MarshalJSON()
	if err == nil {
		err = e.store.Save(ctx, key, kind, payload)
	}
	if err != nil {
		e.logger.Warn("failed to cache result", "key", key, "kind", kind, "err", err)
	}
	return v, nil
}
