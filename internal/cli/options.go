package cli

import (
	"path/filepath"
	"strings"
	"time"
)

// Options describes where a workspace reads its sources and how it caches.
type Options struct {
	// Document is the query document (YAML or JSON).
	Document string
	// LoamDir, when set, supplies the host graph from a Loam repository
	// instead of the document's nodes and edges.
	LoamDir string
	// Name labels the engine and its cache keys. Defaults to the source's base name.
	Name string
	// RedisAddr enables the shared Redis cache and lock.
	RedisAddr string
	// CacheTTL bounds how long Redis keeps a result. Zero keeps it forever.
	CacheTTL time.Duration
	// Cache enables the in-process cache when RedisAddr is empty.
	Cache bool
}

func (o Options) name() string {
	if o.Name != "" {
		return o.Name
	}
	src := o.Document
	if o.LoamDir != "" {
		src = o.LoamDir
	}
	if src == "" {
		return ""
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		abs = src
	}
	base := filepath.Base(abs)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
