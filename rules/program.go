package rules

import (
	"sort"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PROGRAM - Compiled rules for one employee
// =============================================================================

type step struct {
	def    Definition
	policy Policy
}

// Program is the ordered, decoded set of an employee's active rules.
// A Program holds no per-calculation state and may be applied any number of
// times.
type Program struct {
	steps   []step
	unknown []ID
	gaps    []error
}

// Compile validates records against the registry. Disabled records are
// skipped, unknown ids are collected (see Unknown) and otherwise ignored.
// Every record that cannot be used yields a *ConfigurationGapError; when a
// rule id has several active records the first one wins.
func Compile(records []Record, reg *Registry) (*Program, []error) {
	prog := &Program{}
	var gaps []error
	seen := make(map[ID]bool)

	for _, rec := range records {
		if !rec.Status.Enabled() {
			continue
		}
		def, ok := reg.Lookup(rec.RuleID)
		if !ok {
			prog.unknown = append(prog.unknown, rec.RuleID)
			continue
		}
		if seen[rec.RuleID] {
			gaps = append(gaps, &ConfigurationGapError{RuleID: rec.RuleID, Err: ErrDuplicateRecord})
			continue
		}
		seen[rec.RuleID] = true

		policy, err := def.Decode(rec.Params)
		if err != nil {
			gaps = append(gaps, asGap(rec.RuleID, err))
			continue
		}
		prog.steps = append(prog.steps, step{def: def, policy: policy})
	}

	sort.SliceStable(prog.steps, func(i, j int) bool {
		a, b := prog.steps[i].def, prog.steps[j].def
		if a.Phase != b.Phase {
			return a.Phase < b.Phase
		}
		return a.ID < b.ID
	})
	prog.gaps = gaps
	return prog, gaps
}

// Gaps returns the configuration gaps found when the program was compiled.
func (p *Program) Gaps() []error {
	if p == nil {
		return nil
	}
	return p.gaps
}

// Apply runs every policy once against the context.
func (p *Program) Apply(ctx *payroll.Context) {
	if p == nil {
		return
	}
	for _, s := range p.steps {
		s.policy.Apply(ctx)
	}
	ctx.CompactOvertime()
}

// Rules returns the applied rule ids in application order.
func (p *Program) Rules() []ID {
	if p == nil {
		return nil
	}
	ids := make([]ID, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.def.ID
	}
	return ids
}

// Unknown returns ids that had no definition.
func (p *Program) Unknown() []ID {
	if p == nil {
		return nil
	}
	return p.unknown
}
