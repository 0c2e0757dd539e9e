package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ParamSlots is the number of param slots on a record.
const ParamSlots = 6

// Params are the raw param1..param6 payloads of a record.
type Params [ParamSlots]json.RawMessage

// raw returns the slot payload (1-based), unwrapping JSON that was stored as
// a string. Empty, null and "" count as missing.
func (p Params) raw(slot int) (json.RawMessage, bool) {
	if slot < 1 || slot > ParamSlots {
		return nil, false
	}
	v := bytes.TrimSpace(p[slot-1])
	if len(v) == 0 || bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte(`""`)) {
		return nil, false
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			inner := bytes.TrimSpace([]byte(s))
			if len(inner) > 0 && (inner[0] == '[' || inner[0] == '{') {
				return inner, true
			}
		}
	}
	return v, true
}

// Has reports whether a slot carries a value.
func (p Params) Has(slot int) bool {
	_, ok := p.raw(slot)
	return ok
}

// Decimal decodes a required non-negative amount. Numbers and numeric strings
// are accepted.
func (p Params) Decimal(slot int) (decimal.Decimal, error) {
	v, ok := p.raw(slot)
	if !ok {
		return decimal.Zero, slotError(slot, ErrMissingParam)
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(v); err != nil {
		return decimal.Zero, slotError(slot, fmt.Errorf("%w: %s", ErrInvalidParam, string(v)))
	}
	if d.IsNegative() {
		return decimal.Zero, slotError(slot, fmt.Errorf("%w: negative value %s", ErrInvalidParam, d))
	}
	return d, nil
}

// DecimalOr is Decimal with a default for a missing slot.
func (p Params) DecimalOr(slot int, def decimal.Decimal) (decimal.Decimal, error) {
	if !p.Has(slot) {
		return def, nil
	}
	return p.Decimal(slot)
}

// Int decodes a required non-negative whole number.
func (p Params) Int(slot int) (int, error) {
	d, err := p.Decimal(slot)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, slotError(slot, fmt.Errorf("%w: %s is not a whole number", ErrInvalidParam, d))
	}
	return int(d.IntPart()), nil
}

// IntOr is Int with a default for a missing slot.
func (p Params) IntOr(slot int, def int) (int, error) {
	if !p.Has(slot) {
		return def, nil
	}
	return p.Int(slot)
}

// JSON decodes a structured slot into v.
func (p Params) JSON(slot int, v any) error {
	raw, ok := p.raw(slot)
	if !ok {
		return slotError(slot, ErrMissingParam)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return slotError(slot, fmt.Errorf("%w: %v", ErrInvalidParam, err))
	}
	return nil
}

// positive rejects a zero value for a slot that needs one.
func positive(slot int, n int) error {
	if n <= 0 {
		return slotError(slot, fmt.Errorf("%w: must be greater than zero", ErrInvalidParam))
	}
	return nil
}

// asGap attaches the rule id to a decode error.
func asGap(id ID, err error) *ConfigurationGapError {
	var gap *ConfigurationGapError
	if errors.As(err, &gap) {
		out := *gap
		out.RuleID = id
		return &out
	}
	return &ConfigurationGapError{RuleID: id, Err: err}
}
