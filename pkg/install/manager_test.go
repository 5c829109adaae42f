package install

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/optbench/optbench/pkg/bench"
)

// fakeRunner simulates an environment where package installs toggle a flag.
type fakeRunner struct {
	installed map[string]bool
	commands  []string
	failRuns  map[string]error
	cmdPaths  map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		installed: make(map[string]bool),
		failRuns:  make(map[string]error),
		cmdPaths:  make(map[string]string),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.commands = append(f.commands, cmd)

	for prefix, err := range f.failRuns {
		if strings.HasPrefix(cmd, prefix) {
			return "mechanism failure", err
		}
	}

	switch {
	case strings.Contains(cmd, "-c import "):
		pkg := args[len(args)-1][len("import "):]
		if f.installed[pkg] {
			return "", nil
		}
		return "ModuleNotFoundError", errors.New("exit status 1")
	case strings.Contains(cmd, "pip install"):
		f.installed[args[len(args)-1]] = true
		return "", nil
	case strings.Contains(cmd, "pip uninstall"):
		delete(f.installed, args[len(args)-1])
		return "", nil
	case name == "conda" && args[0] == "list":
		req := args[len(args)-1]
		if f.installed[req] {
			return req + "  1.0", nil
		}
		return "", nil
	case name == "conda" && args[0] == "install":
		for _, req := range args[4:] {
			f.installed[req] = true
		}
		return "", nil
	case name == "conda" && args[0] == "remove":
		for _, req := range args[4:] {
			delete(f.installed, req)
		}
		return "", nil
	case name == "bash":
		f.installed[args[0]] = true
		return "", nil
	}
	return "", nil
}

func (f *fakeRunner) LookPath(file, path string) (string, error) {
	if p, ok := f.cmdPaths[file]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func (f *fakeRunner) countPrefix(prefix string) int {
	n := 0
	for _, c := range f.commands {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func testManager(r Runner) *Manager {
	return NewManager(r, nil, zerolog.Nop())
}

var envA = Environment{Name: "envA", Prefix: "/envs/envA"}

func pkgSpec(name string) Spec {
	return Spec{
		Solver:     "Foo-solver",
		Descriptor: Descriptor{Mechanism: MechanismPackage, PackageName: name},
	}
}

// TestPackageInstallScenario tests the absent -> install -> present flow.
func TestPackageInstallScenario(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := pkgSpec("foo")

	installed, err := m.IsInstalled(ctx, envA, sp)
	if err != nil {
		t.Fatalf("IsInstalled failed: %v", err)
	}
	if installed {
		t.Fatal("foo reported installed before install")
	}

	ok, err := m.Install(ctx, envA, sp, false)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if !ok {
		t.Fatal("Install reported not installed after success")
	}

	installed, err = m.IsInstalled(ctx, envA, sp)
	if err != nil || !installed {
		t.Fatalf("IsInstalled after install = %v, %v", installed, err)
	}

	if got := r.countPrefix("/envs/envA/bin/pip install"); got != 1 {
		t.Fatalf("pip install ran %d times, want 1", got)
	}
}

// TestInstallIdempotent tests that a second Install performs no install action.
func TestInstallIdempotent(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := pkgSpec("foo")

	for i := 0; i < 2; i++ {
		if ok, err := m.Install(ctx, envA, sp, false); err != nil || !ok {
			t.Fatalf("Install #%d = %v, %v", i, ok, err)
		}
	}

	if got := r.countPrefix("/envs/envA/bin/pip install"); got != 1 {
		t.Fatalf("pip install ran %d times, want 1", got)
	}
}

// TestInstallForce tests that force always uninstalls then installs.
func TestInstallForce(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := pkgSpec("foo")

	if _, err := m.Install(ctx, envA, sp, false); err != nil {
		t.Fatalf("initial install failed: %v", err)
	}

	if ok, err := m.Install(ctx, envA, sp, true); err != nil || !ok {
		t.Fatalf("force install = %v, %v", ok, err)
	}

	if got := r.countPrefix("/envs/envA/bin/pip uninstall"); got != 1 {
		t.Fatalf("pip uninstall ran %d times, want 1", got)
	}
	if got := r.countPrefix("/envs/envA/bin/pip install"); got != 2 {
		t.Fatalf("pip install ran %d times, want 2", got)
	}
}

// TestInstallFailurePropagates tests that mechanism failures surface as
// install errors naming the solver and environment.
func TestInstallFailurePropagates(t *testing.T) {
	r := newFakeRunner()
	r.failRuns["/envs/envA/bin/pip install"] = errors.New("exit status 1")
	m := testManager(r)

	_, err := m.Install(context.Background(), envA, pkgSpec("foo"), false)
	if bench.ClassOf(err) != bench.ErrorClassInstall {
		t.Fatalf("expected install error, got %v", err)
	}
	msg := err.Error()
	for _, part := range []string{"Foo-solver", "envA", "mechanism failure"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("error %q missing %q", msg, part)
		}
	}
}

// TestScriptMechanism tests script install and command-name resolution.
func TestScriptMechanism(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := Spec{
		Solver: "Bar",
		Descriptor: Descriptor{
			Mechanism:  MechanismScript,
			ScriptPath: "/benchmarks/install_bar.sh",
			CmdName:    "bar",
		},
	}

	installed, err := m.IsInstalled(ctx, envA, sp)
	if err != nil || installed {
		t.Fatalf("pre-install check = %v, %v", installed, err)
	}

	// The install action runs, but the command only resolves once the fake
	// path is registered; Install must report the re-checked status.
	ok, err := m.Install(ctx, envA, sp, false)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if ok {
		t.Fatal("Install reported success with unresolvable command")
	}
	if got := r.countPrefix("bash /benchmarks/install_bar.sh /envs/envA"); got != 1 {
		t.Fatalf("install script ran %d times, want 1", got)
	}

	r.cmdPaths["bar"] = "/envs/envA/bin/bar"
	installed, err = m.IsInstalled(ctx, envA, sp)
	if err != nil || !installed {
		t.Fatalf("post-resolve check = %v, %v", installed, err)
	}
}

// TestScriptUninstallNoop tests that unsupported removal never raises.
func TestScriptUninstallNoop(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	sp := Spec{
		Solver:     "Bar",
		Descriptor: Descriptor{Mechanism: MechanismScript, ScriptPath: "x.sh", CmdName: "bar"},
	}
	if err := m.Uninstall(context.Background(), envA, sp); err != nil {
		t.Fatalf("script uninstall errored: %v", err)
	}
	if len(r.commands) != 0 {
		t.Fatalf("script uninstall ran commands: %v", r.commands)
	}
}

// TestNoneMechanism tests that "none" always reports installed and installs
// without any action.
func TestNoneMechanism(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := Spec{Solver: "Builtin", Descriptor: Descriptor{Mechanism: MechanismNone}}

	if installed, err := m.IsInstalled(ctx, envA, sp); err != nil || !installed {
		t.Fatalf("none check = %v, %v", installed, err)
	}
	if ok, err := m.Install(ctx, envA, sp, false); err != nil || !ok {
		t.Fatalf("none install = %v, %v", ok, err)
	}
	if err := m.Uninstall(ctx, envA, sp); err != nil {
		t.Fatalf("none uninstall errored: %v", err)
	}
	if len(r.commands) != 0 {
		t.Fatalf("none mechanism ran commands: %v", r.commands)
	}
}

// TestCondaMechanism tests environment-manager install over a requirements list.
func TestCondaMechanism(t *testing.T) {
	r := newFakeRunner()
	m := testManager(r)
	ctx := context.Background()
	sp := Spec{
		Solver: "R-pgd",
		Descriptor: Descriptor{
			Mechanism:    MechanismConda,
			Requirements: []string{"r-base", "r-matrix"},
		},
	}

	if installed, _ := m.IsInstalled(ctx, envA, sp); installed {
		t.Fatal("conda requirements reported present before install")
	}

	ok, err := m.Install(ctx, envA, sp, false)
	if err != nil || !ok {
		t.Fatalf("conda install = %v, %v", ok, err)
	}

	if got := r.countPrefix("conda install -y -n envA r-base r-matrix"); got != 1 {
		t.Fatalf("conda install command count = %d; commands: %v", got, r.commands)
	}
}

// TestLedgerRecording tests that checks and installs reach the ledger.
func TestLedgerRecording(t *testing.T) {
	type rec struct {
		kind      string
		solver    string
		env       string
		installed bool
	}
	var recs []rec
	ledger := ledgerFunc{
		check: func(solver, env, mech string, installed bool) error {
			recs = append(recs, rec{"check", solver, env, installed})
			return nil
		},
		install: func(solver, env, mech string, installed bool) error {
			recs = append(recs, rec{"install", solver, env, installed})
			return nil
		},
	}

	r := newFakeRunner()
	m := NewManager(r, ledger, zerolog.Nop())
	ctx := context.Background()
	sp := pkgSpec("foo")

	if _, err := m.IsInstalled(ctx, envA, sp); err != nil {
		t.Fatalf("IsInstalled failed: %v", err)
	}
	if _, err := m.Install(ctx, envA, sp, false); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("ledger records = %v", recs)
	}
	if recs[0].kind != "check" || recs[0].installed {
		t.Fatalf("first record = %+v", recs[0])
	}
	if recs[1].kind != "install" || !recs[1].installed || recs[1].solver != "Foo-solver" || recs[1].env != "envA" {
		t.Fatalf("second record = %+v", recs[1])
	}
}

type ledgerFunc struct {
	check   func(solver, env, mech string, installed bool) error
	install func(solver, env, mech string, installed bool) error
}

func (l ledgerFunc) RecordCheck(_ context.Context, solver, env, mech string, installed bool) error {
	return l.check(solver, env, mech, installed)
}

func (l ledgerFunc) RecordInstall(_ context.Context, solver, env, mech string, installed bool) error {
	return l.install(solver, env, mech, installed)
}
