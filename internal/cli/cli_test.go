package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyTransit places the transit document in a fresh directory.
func copyTransit(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "pkg", "adapters", "file", "testdata", "transit.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "transit.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func openProject(t *testing.T, opts Options) (*Workspace, *Project) {
	t.Helper()
	ws, err := NewWorkspace(opts, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	p, err := ws.Load(context.Background())
	require.NoError(t, err)
	return ws, p
}

func TestNewWorkspace_NoSource(t *testing.T) {
	_, err := NewWorkspace(Options{}, logging.NewNop())
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestOptions_Name(t *testing.T) {
	assert.Equal(t, "transit", Options{Document: "docs/transit.yaml"}.name())
	assert.Equal(t, "notes", Options{Document: "q.yaml", LoamDir: "/tmp/notes"}.name())
	assert.Equal(t, "fixed", Options{Document: "q.yaml", Name: "fixed"}.name())
}

func TestWorkspace_Load(t *testing.T) {
	_, p := openProject(t, Options{Document: copyTransit(t)})

	assert.Equal(t, "transit", p.Engine.Name)
	desc := Describe(p)
	assert.Contains(t, desc, "4 nodes, 4 edges")
	assert.Contains(t, desc, "automata: to-hub, tram+")
	assert.Contains(t, desc, "query harbor-to-museum: path from Harbor to Museum")
	assert.Contains(t, desc, "query hubs: pathsystem from Harbor, Airport")
}

func TestWorkspace_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nodes: [{name: A}]\nqueries: [{name: q, automaton: nope, roots: [A]}]\n"), 0644))

	ws, err := NewWorkspace(Options{Document: bad}, logging.NewNop())
	require.NoError(t, err)
	_, err = ws.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)

	ws, err = NewWorkspace(Options{Document: filepath.Join(dir, "missing.yaml")}, logging.NewNop())
	require.NoError(t, err)
	_, err = ws.Load(context.Background())
	assert.Error(t, err)
}

func TestWorkspace_LoamGraph(t *testing.T) {
	dir, _ := testutils.NodeRepo(t, map[string]string{
		"a.md": "---\ntype: city\nedges:\n  - to: b\n    type: road\n---\n",
		"b.md": "---\ntype: town\nto: c\n---\n",
		"c.md": "---\ntype: town\n---\n",
	})
	doc := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(`
automata:
  reach:
    states:
      - final: true
        transitions:
          - {to: 0}
queries:
  - {name: from-a, automaton: reach, roots: [a], target: c}
`), 0644))

	_, p := openProject(t, Options{Document: doc, LoamDir: dir})
	assert.Equal(t, 3, p.Engine.Graph().NodeCount())

	var out bytes.Buffer
	qs, err := p.Select("from-a")
	require.NoError(t, err)
	require.NoError(t, Run(context.Background(), p, &out, RunOptions{}, qs))
	assert.Regexp(t, "`a -road-> b -e[0-9]-> c`", out.String())
}

func TestProject_Select(t *testing.T) {
	_, p := openProject(t, Options{Document: copyTransit(t)})

	all, err := p.Select()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := p.Select("hubs", "trams-from-harbor")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "hubs", some[0].Name)

	_, err = p.Select("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestRun_JSON(t *testing.T) {
	_, p := openProject(t, Options{Document: copyTransit(t)})
	qs, err := p.Select()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), p, &out, RunOptions{JSON: true}, qs))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &v))
		assert.Contains(t, v, "query")
	}
}

func TestDiagram(t *testing.T) {
	_, p := openProject(t, Options{Document: copyTransit(t)})
	ctx := context.Background()

	whole, err := Diagram(ctx, p, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(whole, "graph LR\n"))
	assert.NotContains(t, whole, "linkStyle")

	path, _ := p.Bundle.Query("harbor-to-museum")
	highlighted, err := Diagram(ctx, p, &path)
	require.NoError(t, err)
	assert.Contains(t, highlighted, "linkStyle 0 ")
	assert.Contains(t, highlighted, "linkStyle 1 ")

	_, err = Diagram(ctx, p, &domain.Query{Automaton: "tram+", Roots: []string{"Nowhere"}})
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestWorkspace_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	_, p := openProject(t, Options{Document: copyTransit(t), RedisAddr: mr.Addr()})

	q, _ := p.Bundle.Query("trams-from-harbor")
	first, err := p.Engine.Execute(context.Background(), q)
	require.NoError(t, err)
	var cached []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "wayfinder:slice:transit/tram+@0#") {
			cached = append(cached, k)
		}
		assert.NotContains(t, k, ":lock:")
	}
	assert.Len(t, cached, 1)

	second, err := p.Engine.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first.Slice.Edges(), second.Slice.Edges())
}

func TestWorkspace_ReloadInvalidatesCache(t *testing.T) {
	for name, opts := range map[string]func(doc string) Options{
		"memory": func(doc string) Options { return Options{Document: doc, Cache: true} },
		"redis": func(doc string) Options {
			return Options{Document: doc, RedisAddr: miniredis.RunT(t).Addr()}
		},
	} {
		t.Run(name, func(t *testing.T) {
			doc := copyTransit(t)
			ws, p := openProject(t, opts(doc))
			ctx := context.Background()

			q, _ := p.Bundle.Query("trams-from-harbor")
			ans, err := p.Engine.Execute(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, []domain.NodeID{0, 1, 2}, ans.Slice.Nodes())

			data, err := os.ReadFile(doc)
			require.NoError(t, err)
			data = bytes.Replace(data, []byte("{from: Central, to: Museum, type: tram}"), []byte("{from: Central, to: Museum, type: bus}"), 1)
			require.NoError(t, os.WriteFile(doc, data, 0644))

			reloaded, err := ws.Load(ctx)
			require.NoError(t, err)
			ans, err = reloaded.Engine.Execute(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, []domain.NodeID{0, 1}, ans.Slice.Nodes())
		})
	}
}

func TestWorkspace_Reload(t *testing.T) {
	doc := copyTransit(t)
	ws, err := NewWorkspace(Options{Document: doc}, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloaded atomic.Pointer[Project]
	done := make(chan error, 1)
	go func() {
		done <- ws.Reload(ctx, func(p *Project) { reloaded.Store(p) })
	}()

	original, err := os.ReadFile(doc)
	require.NoError(t, err)
	extra := append(append([]byte{}, original...), []byte(`
  - name: airport-trams
    automaton: tram+
    roots: [Airport]
`)...)

	// The watcher starts asynchronously; keep touching the file until it notices.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(doc, extra, 0644)
		return reloaded.Load() != nil
	}, 5*time.Second, 200*time.Millisecond)

	_, ok := reloaded.Load().Bundle.Query("airport-trams")
	assert.True(t, ok)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reload loop did not stop")
	}
}

func TestServe(t *testing.T) {
	ws, err := NewWorkspace(Options{Document: copyTransit(t), Cache: true}, logging.NewNop())
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ws, ln, ServeOptions{Metrics: true}) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Post(base+"/path", "application/json",
		strings.NewReader(`{"automaton":"tram+","roots":["Harbor"],"target":"Museum"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	found := false
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), `wayfinder_builds_total{automaton="tram+",kind="pathsystem",outcome="ok"}`) {
			found = true
		}
	}
	resp.Body.Close()
	assert.True(t, found, "build counter missing from /metrics")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHandleExecutionError(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, HandleExecutionError(&out, nil, nil))
	assert.NoError(t, HandleExecutionError(&out, nil, domain.Interrupted(context.Canceled)))
	assert.Empty(t, out.String())

	err := HandleExecutionError(&out, nil, domain.ErrNoSuchPath)
	assert.ErrorIs(t, err, domain.ErrNoSuchPath)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("")
	require.NoError(t, err)
	_, err = NewLogger("debug")
	require.NoError(t, err)
	_, err = NewLogger("loud")
	assert.Error(t, err)
}
