package wayfinder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Runner executes a batch of queries and writes their answers.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Output io.Writer
	// JSON writes one JSON answer per line instead of markdown reports.
	JSON bool
	// KeepGoing reports failed queries and continues with the next one.
	KeepGoing bool
	Renderer  ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner writing to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{Output: out}
}

// Run executes the queries in order. Failures stop the run unless KeepGoing
// is set, in which case they are reported inline and joined into the returned error.
func (r *Runner) Run(ctx context.Context, engine *Engine, queries []domain.Query) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	var errs []error
	for _, q := range queries {
		ans, err := engine.Execute(ctx, q)
		if err != nil {
			err = fmt.Errorf("query %q: %w", q.Name, err)
			if !r.KeepGoing || domain.IsInterruption(err) {
				return errors.Join(append(errs, err)...)
			}
			errs = append(errs, err)
			fmt.Fprintf(r.Output, "query %q failed: %v\n", q.Name, err)
			continue
		}
		if err := r.write(engine, ans); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) write(engine *Engine, ans *Answer) error {
	if r.JSON {
		data, err := json.Marshal(ans)
		if err != nil {
			return fmt.Errorf("failed to encode answer: %w", err)
		}
		_, err = fmt.Fprintln(r.Output, string(data))
		return err
	}

	output := ans.Markdown(engine.Graph())
	if r.Renderer != nil {
		rendered, err := r.Renderer(output)
		if err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(r.Output, strings.TrimSpace(output))
	return err
}
