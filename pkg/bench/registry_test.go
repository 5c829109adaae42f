package bench

import (
	"context"
	"reflect"
	"testing"
)

type stubSolver struct {
	Identity
}

func (s stubSolver) Strategy() SamplingStrategy                    { return StrategyIteration }
func (s stubSolver) SetObjective(map[string]interface{}) error     { return nil }
func (s stubSolver) Run(context.Context, int) error                { return nil }
func (s stubSolver) GetResult() ([]float64, error)                 { return nil, nil }
func (s stubSolver) TimeRun(context.Context, int) (float64, error) { return 0, nil }

// TestRegistryLookup tests factory registration and instantiation.
func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	err := reg.RegisterSolver("stub", func(params ...Param) (Solver, error) {
		return stubSolver{Identity: NewIdentity("stub", params...)}, nil
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	s, err := reg.NewSolver("stub", P("step", 0.1))
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
	if s.DisplayName() != "Stub(step=0.1)" {
		t.Fatalf("unexpected display name %q", s.DisplayName())
	}
}

// TestRegistryUnknown tests that unknown families report config errors.
func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.NewSolver("nope"); ClassOf(err) != ErrorClassConfig {
		t.Fatalf("expected config error, got %v", err)
	}
	if _, err := reg.NewDataset("nope"); ClassOf(err) != ErrorClassConfig {
		t.Fatalf("expected config error, got %v", err)
	}
	if _, err := reg.NewObjective("nope"); ClassOf(err) != ErrorClassConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

// TestRegistryDuplicate tests that double registration is rejected.
func TestRegistryDuplicate(t *testing.T) {
	reg := NewRegistry()
	f := func(params ...Param) (Solver, error) {
		return stubSolver{Identity: NewIdentity("dup", params...)}, nil
	}
	if err := reg.RegisterSolver("dup", f); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := reg.RegisterSolver("dup", f); ClassOf(err) != ErrorClassConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

// TestRegistryNames tests sorted name listing.
func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"b", "a", "c"} {
		n := name
		if err := reg.RegisterDataset(n, func(params ...Param) (Dataset, error) {
			return nil, nil
		}); err != nil {
			t.Fatalf("register %s failed: %v", n, err)
		}
	}
	if got := reg.DatasetNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("names = %v", got)
	}
}
