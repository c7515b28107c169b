package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	loamAdapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before a reload.
const settleDelay = 100 * time.Millisecond

// Watch reports changes to the workspace sources until ctx ends.
// The document's directory is watched rather than the file itself, since
// many editors save by renaming a temporary file over it.
func (w *Workspace) Watch(ctx context.Context) (<-chan string, error) {
	out := make(chan string, 1)
	sources := 0

	if w.Options.Document != "" {
		events, err := w.watchDocument(ctx)
		if err != nil {
			return nil, err
		}
		sources++
		go forward(ctx, events, out)
	}
	if w.Options.LoamDir != "" {
		loader, err := loamAdapter.Open(w.Options.LoamDir)
		if err != nil {
			return nil, err
		}
		events, err := loader.Watch(ctx)
		if err != nil {
			return nil, err
		}
		sources++
		go forward(ctx, events, out)
	}
	w.logger.Info("Watching for changes", "sources", sources)
	return out, nil
}

func (w *Workspace) watchDocument(ctx context.Context) (<-chan string, error) {
	abs, err := filepath.Abs(w.Options.Document)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				select {
				case ch <- filepath.Base(abs):
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Watcher error", "err", err)
			}
		}
	}()
	return ch, nil
}

func forward(ctx context.Context, in <-chan string, out chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Reload loads a new project after every change until ctx ends, handing
// each one to apply. A change that fails to load keeps the previous project.
func (w *Workspace) Reload(ctx context.Context, apply func(*Project)) error {
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			w.logger.Info("Change detected, triggering reload", "event", ev)
			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return nil
			}
			drain(events)
			p, err := w.Load(ctx)
			if err != nil {
				w.logger.Error("Reload failed, keeping previous workspace", "err", err)
				continue
			}
			apply(p)
		}
	}
}

func drain(ch <-chan string) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
