// Package registry manages solver engine registration, discovery, and
// lifecycle, the way the teacher's engine registry manages marketplace
// plugins, narrowed to this module's single Engine interface.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
)

// EngineStatus represents the current state of an engine entry.
type EngineStatus string

const (
	StatusUnloaded EngineStatus = "unloaded"
	StatusReady    EngineStatus = "ready"
	StatusFailed   EngineStatus = "failed"
	StatusShutdown EngineStatus = "shutdown"
)

// Entry holds a registered engine and its metadata.
type Entry struct {
	Engine  sdk.Engine
	Factory sdk.EngineFactory
	Status  EngineStatus
	Error   error
	Builtin bool
}

// Registry manages engine registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Entry
	logger  *slog.Logger
}

// New creates a new engine registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{engines: make(map[string]Entry), logger: logger}
}

// RegisterBuiltin registers an already-instantiated engine.
func (r *Registry) RegisterBuiltin(engine sdk.Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := engine.Metadata().ID
	if id == "" {
		return fmt.Errorf("engine ID is required")
	}
	if _, exists := r.engines[id]; exists {
		return sdk.ErrEngineAlreadyExists
	}
	r.engines[id] = Entry{Engine: engine, Status: StatusReady, Builtin: true}
	r.logger.Info("registered solver engine", "engine_id", id, "type", engine.Type())
	return nil
}

// RegisterFactory registers a lazily-instantiated engine.
func (r *Registry) RegisterFactory(id string, factory sdk.EngineFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		return fmt.Errorf("engine ID is required")
	}
	if _, exists := r.engines[id]; exists {
		return sdk.ErrEngineAlreadyExists
	}
	r.engines[id] = Entry{Factory: factory, Status: StatusUnloaded}
	r.logger.Info("registered engine factory", "engine_id", id)
	return nil
}

// Get returns an engine by ID, instantiating it via its factory if needed.
func (r *Registry) Get(id string) (sdk.Engine, error) {
	r.mu.RLock()
	entry, exists := r.engines[id]
	r.mu.RUnlock()

	if !exists {
		return nil, sdk.ErrEngineNotFound
	}
	if entry.Status == StatusReady && entry.Engine != nil {
		return entry.Engine, nil
	}
	if entry.Status == StatusFailed {
		return nil, entry.Error
	}
	if entry.Status == StatusUnloaded && entry.Factory != nil {
		return r.load(id)
	}
	return nil, fmt.Errorf("engine %s is in unexpected state: %s", id, entry.Status)
}

func (r *Registry) load(id string) (sdk.Engine, error) {
	r.mu.Lock()
	entry := r.engines[id]
	r.mu.Unlock()

	engine, err := entry.Factory()
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		entry.Status = StatusFailed
		entry.Error = err
		r.engines[id] = entry
		return nil, fmt.Errorf("failed to create engine %s: %w", id, err)
	}
	entry.Engine = engine
	entry.Status = StatusReady
	entry.Error = nil
	r.engines[id] = entry
	return engine, nil
}

// List returns every registered entry.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	return out
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.engines[id]
	return ok
}

// ShutdownAll shuts down every loaded engine.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, entry := range r.engines {
		if entry.Engine != nil && entry.Status == StatusReady {
			if err := entry.Engine.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("engine %s: %w", id, err))
			}
			entry.Status = StatusShutdown
			r.engines[id] = entry
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors shutting down engines: %v", errs)
	}
	return nil
}

// Count returns the number of registered engines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
