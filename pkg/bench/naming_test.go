package bench

import (
	"fmt"
	"strings"
	"testing"
)

// TestDisplayNameNoParams tests that an entity without parameters renders as
// its capitalized family name.
func TestDisplayNameNoParams(t *testing.T) {
	id := NewIdentity("r-pgd")
	if got := id.DisplayName(); got != "R-pgd" {
		t.Fatalf("display name = %q, want %q", got, "R-pgd")
	}
}

// TestDisplayNameWithParams tests the default template rendering.
func TestDisplayNameWithParams(t *testing.T) {
	id := NewIdentity("pgd", P("use_acceleration", true), P("step", 0.5))
	got := id.DisplayName()
	want := "Pgd(use_acceleration=true,step=0.5)"
	if got != want {
		t.Fatalf("display name = %q, want %q", got, want)
	}
}

// TestDisplayNameContainsAllParams tests that every key/value pair appears in
// the display name for a range of parameter lists.
func TestDisplayNameContainsAllParams(t *testing.T) {
	cases := []Params{
		{P("a", 1)},
		{P("a", 1), P("b", "x")},
		{P("rho", 0.25), P("n_samples", 100), P("sparse", false)},
	}

	for _, params := range cases {
		id := NewIdentity("solver", params...)
		name := id.DisplayName()
		for _, p := range params {
			pair := fmt.Sprintf("%s=%v", p.Key, p.Value)
			if !strings.Contains(name, pair) {
				t.Fatalf("display name %q missing pair %q", name, pair)
			}
		}
	}
}

// TestDisplayNameDeterministic tests that two identities built from the same
// configuration render identically regardless of instance.
func TestDisplayNameDeterministic(t *testing.T) {
	a := NewIdentity("gd", P("step", 1e-3), P("momentum", 0.9))
	b := NewIdentity("gd", P("step", 1e-3), P("momentum", 0.9))
	for i := 0; i < 50; i++ {
		if a.DisplayName() != b.DisplayName() {
			t.Fatalf("display names diverge: %q vs %q", a.DisplayName(), b.DisplayName())
		}
	}
}

// TestDisplayNameCustomTemplate tests template overriding.
func TestDisplayNameCustomTemplate(t *testing.T) {
	id := NewIdentity("liblinear", P("penalty", "l1"), P("tol", 1e-6)).
		WithTemplate(func(name string, params Params) string {
			return fmt.Sprintf("%s[%s]", name, params.Format())
		})
	got := id.DisplayName()
	want := "Liblinear[penalty=l1,tol=1e-06]"
	if got != want {
		t.Fatalf("display name = %q, want %q", got, want)
	}
}

// TestParamsGet tests parameter lookup.
func TestParamsGet(t *testing.T) {
	params := Params{P("step", 0.1), P("iters", 10)}

	v, ok := params.Get("step")
	if !ok || v.(float64) != 0.1 {
		t.Fatalf("Get(step) = %v, %v", v, ok)
	}
	if _, ok := params.Get("missing"); ok {
		t.Fatal("Get(missing) reported present")
	}
}

// TestParamsMap tests conversion to an unordered map.
func TestParamsMap(t *testing.T) {
	params := Params{P("a", 1), P("b", 2)}
	m := params.Map()
	if len(m) != 2 || m["a"].(int) != 1 || m["b"].(int) != 2 {
		t.Fatalf("unexpected map: %v", m)
	}
}

// TestCapitalizeEmpty tests the empty-name edge case.
func TestCapitalizeEmpty(t *testing.T) {
	id := NewIdentity("")
	if got := id.DisplayName(); got != "" {
		t.Fatalf("display name of empty identity = %q", got)
	}
}
