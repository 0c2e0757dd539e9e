/*
errors.go - Error types for rule configuration

PURPOSE:
  Rule problems never stop a calculation. A rule that cannot be decoded is
  skipped and reported as a configuration gap; an unknown rule id is ignored.
  Only registry misuse (duplicate registration) is a programming error.

USAGE:
  program, gaps := rules.Compile(records, rules.DefaultRegistry())
  for _, gap := range gaps {
      var g *rules.ConfigurationGapError
      if errors.As(gap, &g) {
          log.Printf("rule %d skipped: %v", g.RuleID, g.Err)
      }
  }

SEE ALSO:
  - params.go: Produces slot-level gaps
  - program.go: Collects gaps during Compile
*/
package rules

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfigurationGap is the sentinel behind every ConfigurationGapError.
	ErrConfigurationGap = errors.New("rule configuration gap")

	// ErrMissingParam is returned when a required param slot is empty.
	ErrMissingParam = errors.New("missing parameter")

	// ErrInvalidParam is returned when a param slot does not decode.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrDuplicateRecord is reported for a second active record of a rule id.
	ErrDuplicateRecord = errors.New("duplicate active record")

	// ErrDuplicateRule is returned when registering an id twice.
	ErrDuplicateRule = errors.New("rule already registered")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigurationGapError reports a rule skipped for this run. Slot is the
// 1-based param slot at fault, or 0 when the record as a whole is at fault.
type ConfigurationGapError struct {
	RuleID ID
	Slot   int
	Err    error
}

func (e *ConfigurationGapError) Error() string {
	if e.Slot > 0 {
		return fmt.Sprintf("rule %d param%d: %v", e.RuleID, e.Slot, e.Err)
	}
	return fmt.Sprintf("rule %d: %v", e.RuleID, e.Err)
}

// Is matches ErrConfigurationGap as well as the wrapped cause.
func (e *ConfigurationGapError) Is(target error) bool {
	return target == ErrConfigurationGap
}

func (e *ConfigurationGapError) Unwrap() error {
	return e.Err
}

// IsConfigurationGap returns true if err reports a skipped rule.
func IsConfigurationGap(err error) bool {
	return errors.Is(err, ErrConfigurationGap)
}

func slotError(slot int, err error) error {
	return &ConfigurationGapError{Slot: slot, Err: err}
}
