package lasso

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/install"
)

func testProblem(t *testing.T) (bench.Dataset, bench.Objective, int, map[string]interface{}) {
	t.Helper()
	ds, err := NewDataset(bench.P("n_samples", 30), bench.P("n_features", 20), bench.P("rho", 0.3))
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	obj, err := NewObjective(bench.P("lmbd", 0.1))
	if err != nil {
		t.Fatalf("objective: %v", err)
	}
	scale, data, err := ds.GetData()
	if err != nil {
		t.Fatalf("get_data: %v", err)
	}
	if err := obj.SetData(data); err != nil {
		t.Fatalf("set_data: %v", err)
	}
	return ds, obj, scale, data
}

// TestDatasetRepeatable tests that repeated GetData calls return identical data.
func TestDatasetRepeatable(t *testing.T) {
	ds, _, scale, data := testProblem(t)

	scale2, data2, err := ds.GetData()
	if err != nil {
		t.Fatalf("second get_data: %v", err)
	}
	if scale != scale2 {
		t.Fatalf("scale changed: %d vs %d", scale, scale2)
	}
	if !reflect.DeepEqual(data, data2) {
		t.Fatal("repeated get_data returned different data")
	}
	if scale != 20 {
		t.Fatalf("scale = %d, want n_features", scale)
	}
}

// TestDatasetBadParams tests parameter validation.
func TestDatasetBadParams(t *testing.T) {
	cases := [][]bench.Param{
		{bench.P("n_samples", -1)},
		{bench.P("rho", 1.5)},
		{bench.P("bogus", 1)},
	}
	for _, params := range cases {
		if _, err := NewDataset(params...); bench.ClassOf(err) != bench.ErrorClassConfig {
			t.Fatalf("params %v: expected config error, got %v", params, err)
		}
	}
}

// TestObjectiveKnownValue tests the lasso cost on a hand-computed case.
func TestObjectiveKnownValue(t *testing.T) {
	obj, err := NewObjective(bench.P("lmbd", 0.5))
	if err != nil {
		t.Fatalf("objective: %v", err)
	}
	data := map[string]interface{}{
		"X": [][]float64{{1, 0}, {0, 2}},
		"y": []float64{1, 2},
	}
	if err := obj.SetData(data); err != nil {
		t.Fatalf("set_data: %v", err)
	}

	// residual zero, cost is the l1 term only
	got, err := obj.Evaluate([]float64{1, 1})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("cost = %v, want 1.0", got)
	}

	// at zero the cost is 0.5*(1+4)
	got, err = obj.Evaluate([]float64{0, 0})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if math.Abs(got-2.5) > 1e-12 {
		t.Fatalf("cost at zero = %v, want 2.5", got)
	}
}

// TestObjectiveMisuse tests evaluation before set_data and scale mismatch.
func TestObjectiveMisuse(t *testing.T) {
	obj, _ := NewObjective()
	if _, err := obj.Evaluate([]float64{1}); bench.ClassOf(err) != bench.ErrorClassCapability {
		t.Fatalf("evaluate before set_data: %v", err)
	}

	_, obj2, _, _ := testProblem(t)
	if _, err := obj2.Evaluate([]float64{1, 2, 3}); bench.ClassOf(err) != bench.ErrorClassConfig {
		t.Fatalf("scale mismatch: %v", err)
	}
}

// TestPGDConverges tests that larger iteration budgets do not worsen the
// objective and eventually beat the zero vector.
func TestPGDConverges(t *testing.T) {
	_, obj, scale, _ := testProblem(t)

	s, err := NewPGD()
	if err != nil {
		t.Fatalf("pgd: %v", err)
	}
	if s.Strategy() != bench.StrategyIteration {
		t.Fatalf("strategy = %v", s.Strategy())
	}
	if err := s.SetObjective(obj.ToDict()); err != nil {
		t.Fatalf("set_objective: %v", err)
	}

	ctx := context.Background()
	atZero, _ := obj.Evaluate(make([]float64, scale))

	prev := math.Inf(1)
	for _, nIter := range []int{1, 10, 100, 500} {
		if err := s.Run(ctx, nIter); err != nil {
			t.Fatalf("run(%d): %v", nIter, err)
		}
		beta, err := s.GetResult()
		if err != nil {
			t.Fatalf("get_result: %v", err)
		}
		if len(beta) != scale {
			t.Fatalf("result scale = %d, want %d", len(beta), scale)
		}
		cost, err := obj.Evaluate(beta)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if cost > prev+1e-9 {
			t.Fatalf("cost increased with budget %d: %v -> %v", nIter, prev, cost)
		}
		prev = cost
	}
	if prev >= atZero {
		t.Fatalf("converged cost %v no better than zero vector %v", prev, atZero)
	}
}

// TestPGDAcceleration tests that the accelerated variant is no worse at
// equal budget.
func TestPGDAcceleration(t *testing.T) {
	_, obj, _, _ := testProblem(t)
	ctx := context.Background()

	run := func(accel bool) float64 {
		s, err := NewPGD(bench.P("use_acceleration", accel))
		if err != nil {
			t.Fatalf("pgd: %v", err)
		}
		if err := s.SetObjective(obj.ToDict()); err != nil {
			t.Fatalf("set_objective: %v", err)
		}
		if err := s.Run(ctx, 50); err != nil {
			t.Fatalf("run: %v", err)
		}
		beta, err := s.GetResult()
		if err != nil {
			t.Fatalf("get_result: %v", err)
		}
		cost, err := obj.Evaluate(beta)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		return cost
	}

	if plain, accel := run(false), run(true); accel > plain+1e-9 {
		t.Fatalf("accelerated cost %v worse than plain %v", accel, plain)
	}
}

// TestPGDCapability tests run-before-bind and result-before-run.
func TestPGDCapability(t *testing.T) {
	s, _ := NewPGD()
	if err := s.Run(context.Background(), 1); bench.ClassOf(err) != bench.ErrorClassCapability {
		t.Fatalf("run before bind: %v", err)
	}
	if _, err := s.GetResult(); bench.ClassOf(err) != bench.ErrorClassCapability {
		t.Fatalf("result before run: %v", err)
	}
}

// TestGDToleranceAxis tests that tighter tolerances do not worsen the cost.
func TestGDToleranceAxis(t *testing.T) {
	_, obj, _, _ := testProblem(t)

	s, err := NewGD()
	if err != nil {
		t.Fatalf("gd: %v", err)
	}
	if s.Strategy() != bench.StrategyTolerance {
		t.Fatalf("strategy = %v", s.Strategy())
	}
	if err := s.SetObjective(obj.ToDict()); err != nil {
		t.Fatalf("set_objective: %v", err)
	}

	ctx := context.Background()
	prev := math.Inf(1)
	for _, tolExp := range []int{0, 1, 2} {
		if err := s.Run(ctx, tolExp); err != nil {
			t.Fatalf("run(%d): %v", tolExp, err)
		}
		beta, err := s.GetResult()
		if err != nil {
			t.Fatalf("get_result: %v", err)
		}
		cost, err := obj.Evaluate(beta)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		// subgradient steps can oscillate near the optimum, allow slack
		if cost > prev+1e-3 {
			t.Fatalf("cost increased at tolerance 1e-%d: %v -> %v", tolExp, prev, cost)
		}
		prev = cost
	}
}

// TestSolverTimeRun tests the in-process measurement primitive.
func TestSolverTimeRun(t *testing.T) {
	_, obj, _, _ := testProblem(t)
	s, _ := NewPGD()
	if err := s.SetObjective(obj.ToDict()); err != nil {
		t.Fatalf("set_objective: %v", err)
	}
	elapsed, err := s.TimeRun(context.Background(), 100)
	if err != nil {
		t.Fatalf("time_run: %v", err)
	}
	if elapsed < 0 {
		t.Fatalf("elapsed = %v", elapsed)
	}
}

// TestCLIProgramExchange tests payload round-trip and command construction.
func TestCLIProgramExchange(t *testing.T) {
	prog, err := NewCLIProgram(bench.P("binary", "pgd-bin"))
	if err != nil {
		t.Fatalf("program: %v", err)
	}

	cl := prog.CommandLine(7, "/tmp/d", "/tmp/m")
	if cl != "pgd-bin --n-iter 7 --data /tmp/d --model /tmp/m" {
		t.Fatalf("command line = %q", cl)
	}

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "data.json")
	err = prog.DumpObjective(dataFile, map[string]interface{}{
		"X":    [][]float64{{1, 2}},
		"y":    []float64{3},
		"lmbd": 0.5,
	})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if _, err := os.Stat(dataFile); err != nil {
		t.Fatalf("data file not written: %v", err)
	}

	modelFile := filepath.Join(dir, "model.json")
	if err := os.WriteFile(modelFile, []byte("[0.5, -1.5]"), 0644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	beta, err := prog.LoadResult(modelFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(beta, []float64{0.5, -1.5}) {
		t.Fatalf("beta = %v", beta)
	}
}

// TestCLIProgramInstallSpec tests the dependency declaration variants.
func TestCLIProgramInstallSpec(t *testing.T) {
	prog, _ := NewCLIProgram(bench.P("binary", "pgd-bin"))
	if sp := prog.InstallSpec(); sp.Descriptor.Mechanism != install.MechanismNone {
		t.Fatalf("mechanism without script = %v", sp.Descriptor.Mechanism)
	}

	prog, _ = NewCLIProgram(bench.P("binary", "pgd-bin"), bench.P("install_script", "install.sh"))
	sp := prog.InstallSpec()
	if sp.Descriptor.Mechanism != install.MechanismScript {
		t.Fatalf("mechanism with script = %v", sp.Descriptor.Mechanism)
	}
	if sp.Descriptor.CmdName != "pgd-bin" || sp.Descriptor.ScriptPath != "install.sh" {
		t.Fatalf("descriptor = %+v", sp.Descriptor)
	}
	if err := sp.Descriptor.Validate(); err != nil {
		t.Fatalf("descriptor invalid: %v", err)
	}
}
