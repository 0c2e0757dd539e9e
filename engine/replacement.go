package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/payroll"
)

// ReplacementDayRecorder persists banked replacement days. The engine never
// calls it; callers pass Outcome.ReplacementDays to Record.
type ReplacementDayRecorder interface {
	RecordReplacementDay(ctx context.Context, employeeID string, day payroll.ReplacementDay) error
}

// Record persists every fact, continuing past failures. The returned error
// joins every failure.
func Record(ctx context.Context, rec ReplacementDayRecorder, employeeID string, facts []payroll.ReplacementDay) error {
	if rec == nil || len(facts) == 0 {
		return nil
	}
	var errs []error
	for _, f := range facts {
		if err := rec.RecordReplacementDay(ctx, employeeID, f); err != nil {
			errs = append(errs, fmt.Errorf("replacement day %s: %w", f.Date, err))
		}
	}
	return errors.Join(errs...)
}
