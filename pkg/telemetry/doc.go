// Package telemetry provides observability instrumentation for optbench.
//
// It integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), Prometheus metrics and benchmark lifecycle events into
// one aggregate that is carried through context.Context.
//
// Initialize telemetry at startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// Downstream code retrieves the logger from the context and narrows it to
// the entity it works on:
//
//	log := telemetry.FromContext(ctx).WithSolver("pgd(use_acceleration=True)")
//	log.Info("solver run started")
//
// Metrics cover the run and install paths: solver runs, run durations, the
// I/O correction applied to external-process timings, and install attempts
// per mechanism. Each Metrics instance owns its own Prometheus registry so
// tests can gather without touching global state.
package telemetry
