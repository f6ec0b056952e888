package application

import (
	"slices"

	"go-hr/internal/features/apptype"
)

// IsVisibleTo decides whether an actor may see a bundle at all: the
// requester always can, anyone whose role appears in the type's flow can,
// and so can any user holding a delegate entry on the bundle. Bundles whose
// type is gone are hidden from everyone.
func IsVisibleTo(bundle ApplicationBundle, typ *apptype.ApplicationType, userID, roleID int64) bool {
	if typ == nil {
		return false
	}

	if bundle.Application.RequesterID == userID {
		return true
	}
	if slices.Contains(typ.Flow, roleID) {
		return true
	}
	for _, delegate := range bundle.Delegates {
		if delegate.DelegateUserID == userID {
			return true
		}
	}
	return false
}

// IsPendingFor narrows visibility to "actionable right now": the bundle is
// pending and the actor is the current step's approver role, or the delegate
// recorded for that role.
func IsPendingFor(bundle ApplicationBundle, typ *apptype.ApplicationType, userID, roleID int64) bool {
	if typ == nil || bundle.Application.Status != StatusPending {
		return false
	}

	step := bundle.Application.CurrentStepIndex
	if step < 0 || step >= len(typ.Flow) {
		return false
	}
	currentRole := typ.Flow[step]

	if currentRole == roleID {
		return true
	}
	for _, delegate := range bundle.Delegates {
		if delegate.ForRoleID == currentRole && delegate.DelegateUserID == userID {
			return true
		}
	}
	return false
}

// IsReturned marks bundles sitting back with the requester: rejected
// outright, finalized with no active step, or whose latest audit entry was a
// rejection or an expiry bounce.
func IsReturned(bundle ApplicationBundle) bool {
	if bundle.Application.Status == StatusRejected || bundle.Application.CurrentStepIndex < 0 {
		return true
	}
	if len(bundle.AuditTrail) == 0 {
		return false
	}
	last := bundle.AuditTrail[len(bundle.AuditTrail)-1]
	return last.Action == ActionReject || last.Action == ActionExpireBounce
}
