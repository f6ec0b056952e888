package application

import (
	"time"

	"go-hr/internal/features/apptype"
)

// Fixed comments recorded on sweep-driven transitions.
const (
	autoApproveComment  = "Approved automatically because the step deadline expired."
	expireBounceComment = "Returned to the previous step because the deadline expired."
)

// Sweep walks every bundle once and enforces the SLA configuration:
//
//  1. bundles whose type is gone, or which are not pending, get their due
//     date defused;
//  2. pending bundles get the due date recomputed from the stored step;
//  3. a pending step whose deadline has elapsed fires its configured expiry
//     action — once per bundle per pass, so a cascade of expired steps is
//     worked off over successive sweeps rather than in one.
//
// The input slice is returned untouched when nothing changed, letting
// callers use slice identity to skip redundant persistence. Running the
// sweep twice without the clock moving yields the same output; it never
// returns an error, a corrupt record is defused rather than fatal.
func (e *Engine) Sweep(bundles []ApplicationBundle) ([]ApplicationBundle, bool) {
	now := e.now()
	mutated := false

	processed := make([]ApplicationBundle, len(bundles))
	for i, bundle := range bundles {
		typ := e.lookup(bundle.Application.TypeID)
		if typ == nil || bundle.Application.Status != StatusPending {
			if bundle.Application.DueAt != nil {
				mutated = true
				defused := bundle
				defused.Application.DueAt = nil
				processed[i] = defused
			} else {
				processed[i] = bundle
			}
			continue
		}

		working := bundle
		recalculated := ComputeDueDate(typ, working.Application, working.Application.UpdatedAt)
		if !timesEqual(recalculated, working.Application.DueAt) {
			mutated = true
			working.Application.DueAt = recalculated
		}

		if recalculated == nil {
			processed[i] = working
			continue
		}

		sla := typ.SLAForStep(working.Application.CurrentStepIndex)
		if sla != nil && !recalculated.After(now) {
			mutated = true
			if sla.OnExpire == apptype.ExpireBounceBack {
				working, _ = e.Reject(working, nil, ActionExpireBounce, expireBounceComment)
			} else {
				working, _ = e.Approve(working, nil, ActionAutoApprove, autoApproveComment)
			}
		}

		processed[i] = working
	}

	if !mutated {
		return bundles, false
	}
	return processed, true
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
