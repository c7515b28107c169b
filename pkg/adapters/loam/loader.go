package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// ContentAttribute is the attribute holding a document's body, when it has one.
const ContentAttribute = "content"

// Loader adapts a Loam repository to the GraphLoader interface.
// Every document is one host node; its edges point at other document ids.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
}

var _ ports.GraphLoader = (*Loader)(nil)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path.
//
// Strict mode makes every adapter (JSON, Markdown/YAML) return consistent
// numeric types. Read-only mode avoids Loam's sandbox behaviour in dev mode;
// the graph is never modified.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

// Documents lists the repository as node documents with normalized ids.
func (l *Loader) Documents(ctx context.Context) ([]memory.NodeDocument, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	out := make([]memory.NodeDocument, 0, len(docs))
	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		out = append(out, toDocument(id, doc.Data, doc.Content))
	}
	return out, nil
}

// LoadGraph reads every document and assembles the host graph.
func (l *Loader) LoadGraph(ctx context.Context) (ports.Graph, error) {
	docs, err := l.Documents(ctx)
	if err != nil {
		return nil, err
	}
	g, err := memory.FromDocuments(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble graph: %w", err)
	}
	return g, nil
}

func toDocument(id string, meta NodeMetadata, content string) memory.NodeDocument {
	doc := memory.NodeDocument{
		ID:   id,
		Type: meta.Type,
	}
	if len(meta.Attributes) > 0 || strings.TrimSpace(content) != "" {
		doc.Attributes = make(map[string]any, len(meta.Attributes)+1)
		for k, v := range meta.Attributes {
			doc.Attributes[k] = v
		}
		if body := strings.TrimSpace(content); body != "" {
			doc.Attributes[ContentAttribute] = body
		}
	}
	for _, e := range meta.Edges {
		doc.Edges = append(doc.Edges, memory.EdgeDocument{
			To:         trimExtension(e.To),
			Type:       e.Type,
			Attributes: e.Attributes,
		})
	}
	if meta.To != "" {
		doc.Edges = append(doc.Edges, memory.EdgeDocument{To: trimExtension(meta.To)})
	}
	return doc
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch reports the ids of documents that change, so callers can reload the graph.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
