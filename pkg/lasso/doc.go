// Package lasso is the reference benchmark shipped with the core: a
// simulated regression dataset, the lasso objective and solver
// implementations exercising both execution kinds, proximal gradient descent
// in-process and a delegating external-process solver.
package lasso
