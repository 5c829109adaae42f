// Package solver provides the shared plumbing for in-process solvers:
// verbatim storage of the bound objective parameters and the wall-clock
// measurement primitive used for one sample point. Concrete solvers embed
// Base and implement Run/GetResult for their algorithm.
package solver
