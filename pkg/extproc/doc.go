// Package extproc runs solvers invoked as external child processes. A
// Solver owns two ephemeral exchange files for its whole lifetime: a data
// file holding the serialized objective inputs and a model file the external
// process writes its result to. Binding an objective is exactly the act of
// dumping it to the data file.
//
// Timing uses an I/O-corrected protocol: the invocation is wrapped with a
// process timer reporting total, system and user time, the portion of wall
// time not accounted for by CPU time is attributed to file I/O and process
// startup, and that overhead is subtracted from the caller-measured wall
// clock so cross-solver comparisons reflect compute cost rather than
// filesystem latency.
package extproc
