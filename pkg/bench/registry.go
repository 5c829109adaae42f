package bench

import (
	"fmt"
	"sort"
	"sync"
)

// SolverFactory builds one solver configuration from parameters.
type SolverFactory func(params ...Param) (Solver, error)

// DatasetFactory builds one dataset configuration from parameters.
type DatasetFactory func(params ...Param) (Dataset, error)

// ObjectiveFactory builds one objective configuration from parameters.
type ObjectiveFactory func(params ...Param) (Objective, error)

// Registry maps family names to entity factories so callers can instantiate
// entities from a benchmark definition file.
type Registry struct {
	// mu protects the registry state.
	mu sync.RWMutex

	solvers    map[string]SolverFactory
	datasets   map[string]DatasetFactory
	objectives map[string]ObjectiveFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		solvers:    make(map[string]SolverFactory),
		datasets:   make(map[string]DatasetFactory),
		objectives: make(map[string]ObjectiveFactory),
	}
}

// RegisterSolver registers a solver factory under its family name.
func (r *Registry) RegisterSolver(name string, f SolverFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.solvers[name]; ok {
		return NewConfigError(fmt.Sprintf("solver %q already registered", name), nil)
	}
	r.solvers[name] = f
	return nil
}

// RegisterDataset registers a dataset factory under its family name.
func (r *Registry) RegisterDataset(name string, f DatasetFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datasets[name]; ok {
		return NewConfigError(fmt.Sprintf("dataset %q already registered", name), nil)
	}
	r.datasets[name] = f
	return nil
}

// RegisterObjective registers an objective factory under its family name.
func (r *Registry) RegisterObjective(name string, f ObjectiveFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objectives[name]; ok {
		return NewConfigError(fmt.Sprintf("objective %q already registered", name), nil)
	}
	r.objectives[name] = f
	return nil
}

// NewSolver instantiates a registered solver family with the given parameters.
func (r *Registry) NewSolver(name string, params ...Param) (Solver, error) {
	r.mu.RLock()
	f, ok := r.solvers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewConfigError(fmt.Sprintf("unknown solver %q", name), nil)
	}
	return f(params...)
}

// NewDataset instantiates a registered dataset family with the given parameters.
func (r *Registry) NewDataset(name string, params ...Param) (Dataset, error) {
	r.mu.RLock()
	f, ok := r.datasets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewConfigError(fmt.Sprintf("unknown dataset %q", name), nil)
	}
	return f(params...)
}

// NewObjective instantiates a registered objective family with the given parameters.
func (r *Registry) NewObjective(name string, params ...Param) (Objective, error) {
	r.mu.RLock()
	f, ok := r.objectives[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewConfigError(fmt.Sprintf("unknown objective %q", name), nil)
	}
	return f(params...)
}

// SolverNames returns the registered solver family names, sorted.
func (r *Registry) SolverNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.solvers)
}

// DatasetNames returns the registered dataset family names, sorted.
func (r *Registry) DatasetNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.datasets)
}

// ObjectiveNames returns the registered objective family names, sorted.
func (r *Registry) ObjectiveNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.objectives)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
