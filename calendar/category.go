package calendar

import "fmt"

// =============================================================================
// CATEGORY - What governs a day's deduction/overtime treatment
// =============================================================================

// Kind is the top-level category of a day.
type Kind string

const (
	KindWorkday         Kind = "workday"
	KindWeekend         Kind = "weekend"
	KindHoliday         Kind = "holiday"
	KindGeneralOverride Kind = "general_override" // rest day forced back to work
	KindLeave           Kind = "leave"
)

// LeaveKind identifies a leave set in the employee calendar.
type LeaveKind string

const (
	LeaveAnnual      LeaveKind = "annual"
	LeaveReplacement LeaveKind = "replacement" // banked day off for a worked rest day
	LeaveSick        LeaveKind = "sick"
	LeaveOther       LeaveKind = "other"
)

// LeaveOrder is the fixed precedence between leave kinds when a date sits in
// more than one leave set. Paid kinds come first.
var LeaveOrder = []LeaveKind{LeaveAnnual, LeaveReplacement, LeaveSick, LeaveOther}

// ParseLeaveKind validates a leave kind name.
func ParseLeaveKind(s string) (LeaveKind, error) {
	for _, k := range LeaveOrder {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown leave kind %q", s)
}

// IsDeductible reports whether a full absence on this leave kind reduces pay
// (subject to a configured leave cost).
func (k LeaveKind) IsDeductible() bool {
	return k == LeaveSick || k == LeaveOther
}

// Category is the single classification of a date. Leave is only set when
// Kind is KindLeave.
type Category struct {
	Kind  Kind      `json:"kind"`
	Leave LeaveKind `json:"leave,omitempty"`
}

var (
	Workday         = Category{Kind: KindWorkday}
	Weekend         = Category{Kind: KindWeekend}
	Holiday         = Category{Kind: KindHoliday}
	GeneralOverride = Category{Kind: KindGeneralOverride}
)

// Leave returns the category for a leave day of the given kind.
func Leave(kind LeaveKind) Category {
	return Category{Kind: KindLeave, Leave: kind}
}

// IsRestDay is true for weekends and holidays that are not overridden.
func (c Category) IsRestDay() bool {
	return c.Kind == KindWeekend || c.Kind == KindHoliday
}

// IsWorking is true for days that carry an attendance expectation.
func (c Category) IsWorking() bool {
	return c.Kind == KindWorkday || c.Kind == KindGeneralOverride
}

func (c Category) IsLeave() bool { return c.Kind == KindLeave }

func (c Category) String() string {
	if c.Kind == KindLeave {
		return string(c.Kind) + "(" + string(c.Leave) + ")"
	}
	return string(c.Kind)
}
