package attendance

import "github.com/warp/payroll-engine/calendar"

// PunchDocument is uploaded proof for a date. Without the cut flag it
// authorizes the day (excuses missing punches, allows rest-day credit); with
// it the day's pay is cut instead.
type PunchDocument struct {
	Date      calendar.Date `json:"date"`
	CutSalary bool          `json:"cut_salary"`
}

// Documents indexes punch documents by date.
type Documents map[calendar.Date]PunchDocument

// NewDocuments indexes documents. When a date has several, any cut flag wins.
func NewDocuments(docs ...PunchDocument) Documents {
	out := make(Documents, len(docs))
	for _, d := range docs {
		if d.Date.IsZero() {
			continue
		}
		if prev, ok := out[d.Date]; ok && prev.CutSalary {
			continue
		}
		out[d.Date] = d
	}
	return out
}

// Lookup returns the document for a date.
func (d Documents) Lookup(date calendar.Date) (PunchDocument, bool) {
	doc, ok := d[date]
	return doc, ok
}
