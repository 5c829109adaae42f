package bench

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestErrorClassification tests constructors and class extraction.
func TestErrorClassification(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorClass
	}{
		{NewConfigError("missing package_name", nil), ErrorClassConfig},
		{NewInstallError("pip failed", "Foo", "envA", errors.New("exit 1")), ErrorClassInstall},
		{NewExecutionError("solver exited non-zero", "Cli-pgd", "boom", errors.New("exit 2")), ErrorClassExecution},
		{NewTimingError("no triple in timer output", "Cli-pgd", "abc", nil), ErrorClassTiming},
		{NewCapabilityError("run called before set_objective", "Pgd"), ErrorClassCapability},
	}

	for _, c := range cases {
		if got := ClassOf(c.err); got != c.want {
			t.Fatalf("ClassOf(%v) = %q, want %q", c.err, got, c.want)
		}
		if !IsClass(c.err, c.want) {
			t.Fatalf("IsClass(%v, %q) = false", c.err, c.want)
		}
	}

	if ClassOf(errors.New("plain")) != "" {
		t.Fatal("plain error classified")
	}
}

// TestInstallErrorMessage tests that install failures report the solver
// display name and target environment.
func TestInstallErrorMessage(t *testing.T) {
	err := NewInstallError("package install failed", "R-pgd", "envA", errors.New("not found"))
	msg := err.Error()
	for _, part := range []string{"solver=R-pgd", "environment=envA", "not found", "[install]"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
}

// TestTimingErrorCarriesRawOutput tests that timing failures include the
// unparsed timer output.
func TestTimingErrorCarriesRawOutput(t *testing.T) {
	raw := "abc\tdef"
	err := NewTimingError("timer output did not match", "Cli-pgd", raw, nil)
	if !strings.Contains(err.Error(), fmt.Sprintf("%q", raw)) {
		t.Fatalf("message %q missing raw output", err.Error())
	}
}

// TestErrorUnwrap tests the wrapped-cause chain.
func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewInstallError("script failed", "Foo", "envB", cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is does not reach the cause")
	}
}

// TestClassOfWrapped tests classification through fmt.Errorf wrapping.
func TestClassOfWrapped(t *testing.T) {
	inner := NewExecutionError("run failed", "Pgd", "", nil)
	wrapped := fmt.Errorf("sample 3: %w", inner)
	if ClassOf(wrapped) != ErrorClassExecution {
		t.Fatalf("wrapped classification lost: %v", ClassOf(wrapped))
	}
}
