// Package bench defines the pluggable capability contracts of the benchmark
// core: parametrized identity shared by every entity, the Dataset, Objective
// and Solver interfaces, the Cost record produced for each timed sample, and
// the classified error taxonomy that every component reports through.
//
// The package holds contracts and value types only. Concrete solvers live in
// pkg/solver (in-process) and pkg/extproc (external-process); dependency
// installation lives in pkg/install.
package bench
