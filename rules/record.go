package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the integer key of a payroll policy.
type ID int

// Status toggles a record on or off.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// Enabled reports whether the record takes part in a calculation. A record
// with no status is enabled.
func (s Status) Enabled() bool { return s != StatusDisabled }

// UnmarshalJSON accepts "enabled"/"disabled", "active"/"inactive", booleans
// and 1/0 as stored by most HR databases.
func (s *Status) UnmarshalJSON(b []byte) error {
	raw := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch raw {
	case "enabled", "active", "true", "1", "on", "", "null":
		*s = StatusEnabled
	case "disabled", "inactive", "false", "0", "off":
		*s = StatusDisabled
	default:
		return fmt.Errorf("unknown rule status %s", string(b))
	}
	return nil
}

// =============================================================================
// RECORD - One configured policy for one employee
// =============================================================================

// Record is a configured policy. Params are opaque until the rule's
// definition decodes them.
type Record struct {
	RuleID ID
	EmpID  string
	Status Status
	Params Params
}

type recordJSON struct {
	RuleID ID              `json:"rule_id"`
	EmpID  string          `json:"emp_id,omitempty"`
	Status Status          `json:"status,omitempty"`
	Param1 json.RawMessage `json:"param1,omitempty"`
	Param2 json.RawMessage `json:"param2,omitempty"`
	Param3 json.RawMessage `json:"param3,omitempty"`
	Param4 json.RawMessage `json:"param4,omitempty"`
	Param5 json.RawMessage `json:"param5,omitempty"`
	Param6 json.RawMessage `json:"param6,omitempty"`
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Record{
		RuleID: raw.RuleID,
		EmpID:  raw.EmpID,
		Status: raw.Status,
		Params: Params{raw.Param1, raw.Param2, raw.Param3, raw.Param4, raw.Param5, raw.Param6},
	}
	if r.Status == "" {
		r.Status = StatusEnabled
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	status := r.Status
	if status == "" {
		status = StatusEnabled
	}
	return json.Marshal(recordJSON{
		RuleID: r.RuleID,
		EmpID:  r.EmpID,
		Status: status,
		Param1: r.Params[0],
		Param2: r.Params[1],
		Param3: r.Params[2],
		Param4: r.Params[3],
		Param5: r.Params[4],
		Param6: r.Params[5],
	})
}

// NewRecord builds an enabled record from Go values, one per slot. Intended
// for fixtures and programmatic configuration.
func NewRecord(id ID, params ...any) Record {
	rec := Record{RuleID: id, Status: StatusEnabled}
	for i, p := range params {
		if i >= len(rec.Params) {
			break
		}
		if p == nil {
			continue
		}
		b, err := json.Marshal(p)
		if err != nil {
			continue
		}
		rec.Params[i] = b
	}
	return rec
}
