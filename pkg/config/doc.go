// Package config loads and validates benchmark definition files.
//
// A benchmark definition is a YAML document naming the datasets, objectives
// and solvers to cross, the parameter values for each, the install
// environments, and the sampling schedule (repetitions and sample points).
// Parameter maps keep their document order so parametrized entity names
// come out deterministic.
//
//	name: lasso-bench
//	environments:
//	  - name: bench-env
//	datasets:
//	  - name: simulated
//	    params: {n_samples: 100, n_features: 50}
//	objectives:
//	  - name: lasso
//	    params: {lmbd: 0.1}
//	solvers:
//	  - name: pgd
//	    params: {use_acceleration: true}
//	repetitions: 3
//	sample_points: [1, 10, 100]
//
// Structural rules are enforced with validator struct tags; decoding is
// strict, unknown YAML keys are rejected.
package config
