package application

import (
	"time"

	"go-hr/internal/features/apptype"
)

// ComputeDueDate returns the deadline of the application's active step, or
// nil when the type is unresolved, the application is not pending, or the
// current step carries no SLA. The deadline is plain wall-clock addition; a
// zero base falls back to the application's UpdatedAt.
func ComputeDueDate(typ *apptype.ApplicationType, app Application, base time.Time) *time.Time {
	if typ == nil || app.Status != StatusPending {
		return nil
	}

	sla := typ.SLAForStep(app.CurrentStepIndex)
	if sla == nil {
		return nil
	}

	if base.IsZero() {
		base = app.UpdatedAt
	}
	due := base.Add(time.Duration(sla.Seconds) * time.Second)
	return &due
}
