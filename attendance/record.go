package attendance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// ROW - One day of raw punches as supplied by the caller
// =============================================================================

// Slot counts of a normalized record.
const (
	CoreSlots     = 4 // AM in, AM out, PM in, PM out
	OvertimeSlots = 2 // overtime in, overtime out
)

// Row is one day of raw punches. Punches holds up to six tokens in slot order:
// amIn, amOut, pmIn, pmOut, otIn, otOut. Date is optional; when zero the row
// is placed by Day within the pay period.
type Row struct {
	Day     int
	Date    calendar.Date
	Punches []string
}

// rowObject is the object wire form of a Row.
type rowObject struct {
	Day     int               `json:"day"`
	Date    calendar.Date     `json:"date"`
	Punches []json.RawMessage `json:"punches"`
}

// UnmarshalJSON accepts either the array form
// [day, amIn, amOut, pmIn, pmOut, otIn?, otOut?] or the object form
// {"day": 3, "date": "2025-03-03", "punches": [...]}.
func (r *Row) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty attendance row")
	}

	switch b[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("attendance row: %w", err)
		}
		if len(raw) == 0 {
			return errors.New("attendance row: missing day of month")
		}
		day, err := decodeDay(raw[0])
		if err != nil {
			return err
		}
		*r = Row{Day: day, Punches: decodeTokens(raw[1:])}
		return nil

	case '{':
		var obj rowObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("attendance row: %w", err)
		}
		*r = Row{Day: obj.Day, Date: obj.Date, Punches: decodeTokens(obj.Punches)}
		if r.Day == 0 && !r.Date.IsZero() {
			r.Day = r.Date.Day()
		}
		return nil

	default:
		return fmt.Errorf("attendance row must be an array or object, got %s", string(b))
	}
}

// MarshalJSON writes the array form.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, 1+len(r.Punches))
	out = append(out, r.Day)
	for _, p := range r.Punches {
		out = append(out, p)
	}
	return json.Marshal(out)
}

func decodeDay(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("attendance row: day of month must be an integer, got %s", string(raw))
}

// decodeTokens keeps strings as-is; null becomes "" and any other JSON value
// is kept as its literal text so the normalizer can report it.
func decodeTokens(raw []json.RawMessage) []string {
	tokens := make([]string, len(raw))
	for i, v := range raw {
		var s string
		switch {
		case json.Unmarshal(v, &s) == nil:
			tokens[i] = s
		case string(bytes.TrimSpace(v)) == "null":
			tokens[i] = ""
		default:
			tokens[i] = string(v)
		}
	}
	return tokens
}

// =============================================================================
// RECORD - Normalized fixed-shape day
// =============================================================================

// Record is one normalized day. Every slot is a valid clock or Absent.
type Record struct {
	Date     calendar.Date
	Core     [CoreSlots]Clock
	Overtime [OvertimeSlots]Clock
}

// EmptyRecord is a day with no punches at all.
func EmptyRecord(d calendar.Date) Record {
	r := Record{Date: d}
	for i := range r.Core {
		r.Core[i] = Absent
	}
	for i := range r.Overtime {
		r.Overtime[i] = Absent
	}
	return r
}

// CorePresent counts present core punches.
func (r Record) CorePresent() int {
	n := 0
	for _, c := range r.Core {
		if c.Present() {
			n++
		}
	}
	return n
}

// HasCorePunch reports whether any core slot is present.
func (r Record) HasCorePunch() bool { return r.CorePresent() > 0 }

// HasOvertimePair reports whether both overtime slots are present.
func (r Record) HasOvertimePair() bool {
	return r.Overtime[0].Present() && r.Overtime[1].Present()
}

// LastOut is the last present punch after the first slot, or Absent.
func (r Record) LastOut() Clock {
	for i := CoreSlots - 1; i >= 1; i-- {
		if r.Core[i].Present() {
			return r.Core[i]
		}
	}
	return Absent
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer converts raw rows into records. Malformed tokens never fail a
// run; they become Absent and are logged.
type Normalizer struct {
	logger   *slog.Logger
	employee string
}

// NewNormalizer creates a normalizer that tags its logs with the employee.
// A nil logger discards.
func NewNormalizer(logger *slog.Logger, employee string) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger, employee: employee}
}

// Normalize maps a row onto the fixed slot layout for date.
func (n *Normalizer) Normalize(date calendar.Date, row Row) Record {
	rec := EmptyRecord(date)
	for i, token := range row.Punches {
		if i >= CoreSlots+OvertimeSlots {
			n.logger.Warn("extra punch tokens ignored",
				"employee", n.employee, "date", date.String(), "count", len(row.Punches))
			break
		}
		c, err := ParseClock(token)
		if err != nil {
			n.logger.Warn("malformed punch time treated as absent",
				"employee", n.employee, "date", date.String(), "slot", i, "token", token)
		}
		if i < CoreSlots {
			rec.Core[i] = c
		} else {
			rec.Overtime[i-CoreSlots] = c
		}
	}
	return rec
}

// Index places every row on its period date and normalizes it. Rows with an
// explicit date outside the period, or a day number the period does not
// contain, are dropped. A later row for the same date replaces an earlier one.
func (n *Normalizer) Index(period calendar.Period, rows []Row) map[calendar.Date]Record {
	out := make(map[calendar.Date]Record, len(rows))
	for _, row := range rows {
		date := row.Date
		if date.IsZero() {
			dates := period.DatesForDay(row.Day)
			switch len(dates) {
			case 0:
				n.logger.Warn("attendance row outside period dropped",
					"employee", n.employee, "day", row.Day, "period", period.String())
				continue
			case 1:
				date = dates[0]
			default:
				n.logger.Warn("ambiguous attendance row dropped, give its date",
					"employee", n.employee, "day", row.Day, "period", period.String(), "matches", len(dates))
				continue
			}
		} else if !period.Contains(date) {
			n.logger.Warn("attendance row outside period dropped",
				"employee", n.employee, "date", date.String(), "period", period.String())
			continue
		}
		if _, dup := out[date]; dup {
			n.logger.Warn("duplicate attendance row, last one wins",
				"employee", n.employee, "date", date.String())
		}
		out[date] = n.Normalize(date, row)
	}
	return out
}
