/*
Package rules implements the numbered payroll policies.

PURPOSE:
  Each employee carries a set of independently toggleable rule records keyed
  by an integer id. A Registry maps ids to definitions; Compile validates the
  records against it once, decoding every record's params into a typed
  policy. The resulting Program applies each policy exactly once to a
  payroll context after the day loop.

HOW IT WORKS:
  1. DefaultRegistry() holds the built-in rules (see builtin.go)
  2. Compile(records, registry) decodes params; bad params become
     configuration gaps and the rule is skipped, unknown ids are ignored
  3. Program.Apply(ctx) runs the adjust phase (overtime and incident
     adjustments) and then the charge phase (deductions, allowances, leave
     costs), by rule id within a phase

SEE ALSO:
  - params.go: Typed param decoding
  - adjust.go, charge.go: Policy implementations
  - payroll/context.go: What policies read and write
*/
package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// POLICY & DEFINITION
// =============================================================================

// Policy is a decoded rule ready to apply. Implementations touch only the
// context they are given.
type Policy interface {
	Apply(ctx *payroll.Context)
}

// Phase orders policies within a program.
type Phase int

const (
	// PhaseAdjust reshapes incidents and overtime before anything is charged.
	PhaseAdjust Phase = iota
	// PhaseCharge turns the adjusted context into money.
	PhaseCharge
)

func (p Phase) String() string {
	switch p {
	case PhaseAdjust:
		return "adjust"
	case PhaseCharge:
		return "charge"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Decoder turns a record's raw params into a policy.
type Decoder func(p Params) (Policy, error)

// Definition describes one rule id.
type Definition struct {
	ID     ID
	Name   string
	Phase  Phase
	Decode Decoder
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps rule ids to definitions. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[ID]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[ID]Definition)}
}

// DefaultRegistry returns a new registry holding every built-in rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range builtins() {
		r.MustRegister(def)
	}
	return r
}

// Register adds a definition. Ids are unique.
func (r *Registry) Register(def Definition) error {
	if def.Decode == nil {
		return fmt.Errorf("rule %d (%s): missing decoder", def.ID, def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.defs[def.ID]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateRule, def.ID, existing.Name)
	}
	r.defs[def.ID] = def
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup finds a definition by id.
func (r *Registry) Lookup(id ID) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// List returns all definitions ordered by id.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
