package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/install"
)

// Benchmark is a complete benchmark definition.
type Benchmark struct {
	// Name identifies the benchmark in logs and output.
	Name string `yaml:"name" validate:"required"`

	// Environments are the named install environments solvers may target.
	Environments []EnvironmentConfig `yaml:"environments,omitempty" validate:"dive"`

	// Datasets, Objectives and Solvers are crossed by the runner.
	Datasets   []EntityConfig `yaml:"datasets" validate:"required,min=1,dive"`
	Objectives []EntityConfig `yaml:"objectives" validate:"required,min=1,dive"`
	Solvers    []SolverConfig `yaml:"solvers" validate:"required,min=1,dive"`

	// Repetitions is the number of times each sample point is repeated.
	// Defaults to 1.
	Repetitions int `yaml:"repetitions,omitempty" validate:"min=1"`

	// SamplePoints is the sampling schedule. For iteration-strategy solvers
	// each value is an iteration budget; for tolerance-strategy solvers it
	// is the exponent n of the stopping tolerance 10^-n.
	SamplePoints []int `yaml:"sample_points" validate:"required,min=1,dive,min=0"`
}

// EnvironmentConfig names an install environment.
type EnvironmentConfig struct {
	// Name is the environment's identity in the install ledger.
	Name string `yaml:"name" validate:"required"`

	// Prefix is the filesystem prefix of the environment. Empty means the
	// ambient environment of the current process.
	Prefix string `yaml:"prefix,omitempty"`
}

// Env converts the entry to an install.Environment.
func (e EnvironmentConfig) Env() install.Environment {
	return install.Environment{Name: e.Name, Prefix: e.Prefix}
}

// EntityConfig selects one registered entity family with parameter values.
type EntityConfig struct {
	// Name is the registered family name (e.g. "simulated", "lasso").
	Name string `yaml:"name" validate:"required"`

	// Params are the parameter values, in document order.
	Params ParamMap `yaml:"params,omitempty"`
}

// SolverConfig selects a solver family plus its install requirements.
type SolverConfig struct {
	// Name is the registered solver family name.
	Name string `yaml:"name" validate:"required"`

	// Params are the parameter values, in document order.
	Params ParamMap `yaml:"params,omitempty"`

	// Environment names the install environment to use; empty targets the
	// ambient environment.
	Environment string `yaml:"environment,omitempty"`

	// Install overrides the solver's own install descriptor when set.
	Install *install.Descriptor `yaml:"install,omitempty"`
}

// ParamMap is an ordered set of parameter values. YAML mappings decode
// into it without losing key order.
type ParamMap []ParamEntry

// ParamEntry is one key/value pair of a ParamMap.
type ParamEntry struct {
	Key   string
	Value interface{}
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (p *ParamMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("params must be a mapping, got %s", node.Tag)
	}

	out := make(ParamMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("param key at line %d: %w", keyNode.Line, err)
		}

		var val interface{}
		if err := valNode.Decode(&val); err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}

		out = append(out, ParamEntry{Key: key, Value: val})
	}

	*p = out
	return nil
}

// MarshalYAML encodes the map back in its original order.
func (p ParamMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range p {
		var keyNode, valNode yaml.Node
		if err := keyNode.Encode(e.Key); err != nil {
			return nil, err
		}
		if err := valNode.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// BenchParams converts the map to the ordered form entity factories take.
func (p ParamMap) BenchParams() []bench.Param {
	out := make([]bench.Param, 0, len(p))
	for _, e := range p {
		out = append(out, bench.P(e.Key, e.Value))
	}
	return out
}

// Environment resolves a named environment, falling back to the ambient
// environment when name is empty.
func (b *Benchmark) Environment(name string) (install.Environment, error) {
	if name == "" {
		return install.Environment{Name: "current"}, nil
	}
	for _, e := range b.Environments {
		if e.Name == name {
			return e.Env(), nil
		}
	}
	return install.Environment{}, bench.NewConfigError(
		fmt.Sprintf("environment %q is not declared in the benchmark definition", name), nil)
}
