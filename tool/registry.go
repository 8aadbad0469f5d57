package tool

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/aravindhsampath/chitti/internal/chitterr"
)

// Registry is a thread-safe, case-insensitive name-to-Executor map. Adapted
// from the catalog pattern: insertion order is irrelevant, names are
// normalized to lowercase, and a later Register of an existing name
// overwrites the earlier one.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Executor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Executor)}
}

// Register adds or replaces the executor under its own Name().
func (r *Registry) Register(executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[strings.ToLower(executor.Name())] = executor
}

// Definitions returns the Definition of every registered tool, suitable for
// attaching to a model request. Order is unspecified.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Execute dispatches args to the named tool. A missing tool is reported as
// a *chitterr.ToolNotFoundError; the conductor converts that into a
// synthetic {"error": "..."} FunctionResponse rather than aborting the turn.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	r.mu.RLock()
	executor, ok := r.tools[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return Result{}, chitterr.NewToolNotFoundError(name)
	}
	return executor.Execute(ctx, args)
}
