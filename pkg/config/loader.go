package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/optbench/optbench/pkg/bench"
)

var validate = validator.New()

// Load reads and validates a benchmark definition from path.
func Load(path string) (*Benchmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bench.NewConfigError(fmt.Sprintf("reading benchmark definition %s", path), err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a benchmark definition. Unknown keys are
// rejected, defaults are applied before validation.
func Parse(data []byte) (*Benchmark, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var b Benchmark
	if err := dec.Decode(&b); err != nil {
		return nil, bench.NewConfigError("decoding benchmark definition", err)
	}

	b.applyDefaults()

	if err := validate.Struct(&b); err != nil {
		return nil, bench.NewConfigError("invalid benchmark definition", err)
	}

	// Descriptor tags only cover intra-field rules; declared environments
	// must also resolve.
	seen := make(map[string]bool, len(b.Environments))
	for _, e := range b.Environments {
		if seen[e.Name] {
			return nil, bench.NewConfigError(
				fmt.Sprintf("environment %q declared twice", e.Name), nil)
		}
		seen[e.Name] = true
	}
	for _, s := range b.Solvers {
		if s.Environment != "" && !seen[s.Environment] {
			return nil, bench.NewConfigError(
				fmt.Sprintf("solver %q references undeclared environment %q", s.Name, s.Environment), nil)
		}
		if s.Install != nil {
			if err := s.Install.Validate(); err != nil {
				return nil, fmt.Errorf("solver %q: %w", s.Name, err)
			}
		}
	}

	return &b, nil
}

// applyDefaults fills unset optional fields.
func (b *Benchmark) applyDefaults() {
	if b.Repetitions == 0 {
		b.Repetitions = 1
	}
}
