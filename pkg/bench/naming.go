package bench

import (
	"fmt"
	"strings"
	"unicode"
)

// Param is a single named configuration value of an entity.
type Param struct {
	Key   string
	Value interface{}
}

// Params is the ordered parameter mapping of an entity. Order is the
// declaration order chosen at construction and is part of the identity:
// display names render parameters in this order.
type Params []Param

// P is a shorthand constructor for a Param.
func P(key string, value interface{}) Param {
	return Param{Key: key, Value: value}
}

// Get returns the value for key and whether it is present.
func (ps Params) Get(key string) (interface{}, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Format renders the parameters as "k1=v1,k2=v2" in declaration order.
func (ps Params) Format() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s=%v", p.Key, p.Value)
	}
	return strings.Join(parts, ",")
}

// Map returns the parameters as an unordered map.
func (ps Params) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}

// Template formats an entity name together with its parameters. Custom
// templates may reorder or group parameters but must incorporate every
// parameter value, so that distinct configurations never collide on their
// display name.
type Template func(name string, params Params) string

// DefaultTemplate renders "name(k1=v1,k2=v2)".
func DefaultTemplate(name string, params Params) string {
	return fmt.Sprintf("%s(%s)", name, params.Format())
}

// Identity gives an entity its stable, parameter-qualified name. Two
// instances with the same family name and equal parameter lists share a
// display name; the display name never depends on instance identity.
type Identity struct {
	name     string
	params   Params
	template Template
}

// NewIdentity creates the identity for one entity configuration. The family
// name identifies the entity type (e.g. "R-PGD"); params are stored verbatim
// and immutable afterwards.
func NewIdentity(name string, params ...Param) Identity {
	return Identity{name: name, params: Params(params), template: DefaultTemplate}
}

// WithTemplate returns a copy of the identity using a custom format template.
func (id Identity) WithTemplate(t Template) Identity {
	id.template = t
	return id
}

// Name returns the family name.
func (id Identity) Name() string { return id.name }

// Params returns the parameter list. Callers must not mutate it.
func (id Identity) Params() Params { return id.params }

// DisplayName returns the human-readable identity: the capitalized family
// name when there are no parameters, otherwise the capitalized template
// rendering. This is the sole identity used by the installer, the Cost
// record and reporting collaborators.
func (id Identity) DisplayName() string {
	if len(id.params) == 0 {
		return capitalize(id.name)
	}
	t := id.template
	if t == nil {
		t = DefaultTemplate
	}
	return capitalize(t(id.name, id.params))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
