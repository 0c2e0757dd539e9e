/*
Package attendance turns raw punch-clock data into per-day attendance facts.

PURPOSE:
  A pay period arrives as a list of loosely formatted daily rows. This package
  normalizes those rows into fixed-shape records, works out what the employee
  was expected to do on each date, and evaluates one day at a time into the
  shared payroll context: lateness, early departure, missed punches and
  banded overtime minutes.

KEY CONCEPTS IN THIS FILE (clock.go):
  - Clock: a time of day in whole minutes, or Absent
  - MalformedTimeError: a punch token that is not a time

SEE ALSO:
  - record.go: Raw rows and normalized records
  - shift.go: Expected windows and their resolution per date
  - evaluator.go: The per-day evaluation
*/
package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// CLOCK - Minutes since midnight
// =============================================================================

// MinutesPerDay is used to wrap overnight spans.
const MinutesPerDay = 24 * 60

// Clock is a time of day in minutes since midnight (0..1439), or Absent.
type Clock int

// Absent marks a punch slot with no valid time.
const Absent Clock = -1

// NewClock builds a clock from hours and minutes. Out-of-range values yield Absent.
func NewClock(hour, minute int) Clock {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Absent
	}
	return Clock(hour*60 + minute)
}

// IsAbsent reports whether the slot holds no time.
func (c Clock) IsAbsent() bool { return c < 0 || c >= MinutesPerDay }

// Present is the negation of IsAbsent.
func (c Clock) Present() bool { return !c.IsAbsent() }

// Minutes returns minutes since midnight. Callers must check Present first.
func (c Clock) Minutes() int { return int(c) }

// Sub returns c - other in minutes.
func (c Clock) Sub(other Clock) int { return int(c) - int(other) }

func (c Clock) String() string {
	if c.IsAbsent() {
		return "absent"
	}
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// EarlierOf returns the earlier present clock, ignoring absent ones.
func EarlierOf(a, b Clock) Clock {
	switch {
	case a.IsAbsent():
		return b
	case b.IsAbsent():
		return a
	case a < b:
		return a
	default:
		return b
	}
}

// LaterOf returns the later present clock, ignoring absent ones.
func LaterOf(a, b Clock) Clock {
	switch {
	case a.IsAbsent():
		return b
	case b.IsAbsent():
		return a
	case a > b:
		return a
	default:
		return b
	}
}

// =============================================================================
// PARSING
// =============================================================================

// ErrMalformedTime is the sentinel behind MalformedTimeError.
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError carries the offending token.
type MalformedTimeError struct {
	Token string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q", e.Token)
}

func (e *MalformedTimeError) Unwrap() error {
	return ErrMalformedTime
}

// IsMalformedTime returns true if err is a MalformedTimeError.
func IsMalformedTime(err error) bool {
	return errors.Is(err, ErrMalformedTime)
}

// absentTokens are the placeholders punch exports use for "no punch".
var absentTokens = map[string]struct{}{
	"":       {},
	"-":      {},
	"--":     {},
	"--:--":  {},
	"null":   {},
	"absent": {},
}

// ParseClock parses HH:MM, H:MM or HH:MM:SS (seconds are truncated).
// Placeholder tokens return Absent with a nil error; anything else that is
// not a time returns Absent with a *MalformedTimeError.
func ParseClock(token string) (Clock, error) {
	s := strings.TrimSpace(token)
	if _, ok := absentTokens[strings.ToLower(s)]; ok {
		return Absent, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Absent, &MalformedTimeError{Token: token}
	}

	hour, err := parseClockField(parts[0], 1, 2)
	if err != nil {
		return Absent, &MalformedTimeError{Token: token}
	}
	minute, err := parseClockField(parts[1], 2, 2)
	if err != nil {
		return Absent, &MalformedTimeError{Token: token}
	}
	if len(parts) == 3 {
		sec, err := parseClockField(parts[2], 2, 2)
		if err != nil || sec > 59 {
			return Absent, &MalformedTimeError{Token: token}
		}
	}

	c := NewClock(hour, minute)
	if c.IsAbsent() {
		return Absent, &MalformedTimeError{Token: token}
	}
	return c, nil
}

func parseClockField(s string, minLen, maxLen int) (int, error) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, ErrMalformedTime
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrMalformedTime
		}
	}
	return strconv.Atoi(s)
}

// MustParseClock is ParseClock for fixtures; it panics on malformed input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}
