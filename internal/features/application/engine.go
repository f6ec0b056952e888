package application

import (
	"slices"
	"time"

	"go-hr/internal/features/apptype"
)

// TypeLookup resolves a type id against the current normalized type set.
// A nil result means the type was deleted; every transition treats that as a
// silent no-op so callers detect "nothing changed" instead of catching an
// error.
type TypeLookup func(id int64) *apptype.ApplicationType

// Engine applies workflow transitions. Every method is pure over the bundle:
// it returns a new bundle plus an applied flag and never mutates its input,
// which is what lets the sweep use slice identity as a dirty marker.
type Engine struct {
	lookup TypeLookup
	ids    *IDAllocator
	now    func() time.Time
}

func NewEngine(lookup TypeLookup, ids *IDAllocator, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{lookup: lookup, ids: ids, now: now}
}

// AttachmentDraft is the caller-supplied part of a new attachment; id,
// application id and timestamp are assigned by the engine.
type AttachmentDraft struct {
	Name       string
	URL        string
	UploadedBy int64
	SizeBytes  int64
}

// Create starts a new bundle in DRAFT. The number is derived from the fresh
// id, and the only audit entry is CREATE.
func (e *Engine) Create(typeID, requesterID int64, values []FieldValue) (ApplicationBundle, bool) {
	typ := e.lookup(typeID)
	if typ == nil || len(typ.Flow) == 0 {
		return ApplicationBundle{}, false
	}

	now := e.now()
	id := e.ids.NextApplicationID()
	app := Application{
		ID:               id,
		Number:           BuildNumber(id, now),
		TypeID:           typeID,
		RequesterID:      requesterID,
		Status:           StatusDraft,
		CurrentStepIndex: -1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	bundle := ApplicationBundle{
		Application: app,
		Values:      retagValues(values, id),
		Attachments: []Attachment{},
		AuditTrail:  []AuditLog{},
		Delegates:   []Delegate{},
	}
	bundle.AuditTrail = append(bundle.AuditTrail, e.newAuditEntry(id, &requesterID, ActionCreate, "", now))
	return bundle, true
}

// Submit moves a bundle to PENDING at step 0 and stamps the submission time.
// A delegate for the first step's role is installed when given, otherwise
// any existing first-step delegate is cleared.
func (e *Engine) Submit(bundle ApplicationBundle, actorID int64, comment string, delegateUserID *int64) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil || len(typ.Flow) == 0 {
		return bundle, false
	}

	now := e.now()
	app := bundle.Application
	app.Status = StatusPending
	app.CurrentStepIndex = 0
	app.UpdatedAt = now
	app.SubmittedAt = &now
	app.DueAt = ComputeDueDate(typ, app, now)

	next := bundle
	next.Application = app
	next.Delegates = replaceDelegate(bundle.Delegates, typ.Flow[0], delegateUserID, app.ID, e.ids)
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(app.ID, &actorID, ActionSubmit, comment, now))
	return next, true
}

// Approve advances one step, or finalizes to APPROVED at the last step with
// the step index left untouched. action distinguishes a human APPROVE from
// the sweep's AUTO_APPROVE; actorID is nil for the latter.
func (e *Engine) Approve(bundle ApplicationBundle, actorID *int64, action AuditAction, comment string) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	app := bundle.Application
	lastStep := len(typ.Flow) - 1
	isFinal := app.CurrentStepIndex >= lastStep

	if isFinal {
		app.Status = StatusApproved
	} else {
		app.Status = StatusPending
		app.CurrentStepIndex++
	}
	if app.SubmittedAt == nil {
		app.SubmittedAt = &now
	}
	app.UpdatedAt = now
	app.DueAt = ComputeDueDate(typ, app, now)

	next := bundle
	next.Application = app
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(app.ID, actorID, action, comment, now))
	return next, true
}

// Reject regresses one step, or finalizes to REJECTED when already at the
// first step (step index becomes -1). action distinguishes a human REJECT
// from the sweep's EXPIRE_BOUNCE.
func (e *Engine) Reject(bundle ApplicationBundle, actorID *int64, action AuditAction, comment string) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	app := bundle.Application
	previousStep := app.CurrentStepIndex - 1

	if previousStep < 0 {
		app.Status = StatusRejected
		app.CurrentStepIndex = -1
	} else {
		app.Status = StatusPending
		app.CurrentStepIndex = previousStep
	}
	app.UpdatedAt = now
	app.DueAt = ComputeDueDate(typ, app, now)

	next := bundle
	next.Application = app
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(app.ID, actorID, action, comment, now))
	return next, true
}

// Resend puts a rejected bundle back into the pipeline at step 0. The
// original submission time survives; it is only stamped when missing.
func (e *Engine) Resend(bundle ApplicationBundle, actorID int64, comment string, delegateUserID *int64) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil || len(typ.Flow) == 0 {
		return bundle, false
	}

	now := e.now()
	app := bundle.Application
	app.Status = StatusPending
	app.CurrentStepIndex = 0
	app.UpdatedAt = now
	if app.SubmittedAt == nil {
		app.SubmittedAt = &now
	}
	app.DueAt = ComputeDueDate(typ, app, now)

	next := bundle
	next.Application = app
	next.Delegates = replaceDelegate(bundle.Delegates, typ.Flow[0], delegateUserID, app.ID, e.ids)
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(app.ID, &actorID, ActionResend, comment, now))
	return next, true
}

// Close is terminal. The step index is left alone so the record still shows
// where the application stopped.
func (e *Engine) Close(bundle ApplicationBundle, actorID int64, comment string) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	app := bundle.Application
	app.Status = StatusClosed
	app.UpdatedAt = now
	app.DueAt = nil

	next := bundle
	next.Application = app
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(app.ID, &actorID, ActionClose, comment, now))
	return next, true
}

// EditValues replaces the form values wholesale. Status and step stay put;
// only the timing is refreshed.
func (e *Engine) EditValues(bundle ApplicationBundle, actorID int64, values []FieldValue, comment string) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	next := bundle
	next.Application = refreshTiming(bundle.Application, typ, now)
	next.Values = retagValues(values, bundle.Application.ID)
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(bundle.Application.ID, &actorID, ActionEdit, comment, now))
	return next, true
}

// AddAttachment appends one attachment with a fresh id.
func (e *Engine) AddAttachment(bundle ApplicationBundle, actorID int64, draft AttachmentDraft) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	attachment := Attachment{
		ID:            e.ids.NextAttachmentID(),
		ApplicationID: bundle.Application.ID,
		Name:          draft.Name,
		URL:           draft.URL,
		UploadedBy:    draft.UploadedBy,
		SizeBytes:     draft.SizeBytes,
		CreatedAt:     now,
	}

	comment := ""
	if draft.Name != "" {
		comment = "Attached file: " + draft.Name
	}

	next := bundle
	next.Application = refreshTiming(bundle.Application, typ, now)
	next.Attachments = append(slices.Clone(bundle.Attachments), attachment)
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(bundle.Application.ID, &actorID, ActionEdit, comment, now))
	return next, true
}

// AssignDelegate replaces (or clears, when delegateUserID is nil) the
// delegate bound to the given role, independent of the active step.
func (e *Engine) AssignDelegate(bundle ApplicationBundle, actorID int64, forRoleID int64, delegateUserID *int64) (ApplicationBundle, bool) {
	typ := e.lookup(bundle.Application.TypeID)
	if typ == nil {
		return bundle, false
	}

	now := e.now()
	next := bundle
	next.Application = refreshTiming(bundle.Application, typ, now)
	next.Delegates = replaceDelegate(bundle.Delegates, forRoleID, delegateUserID, bundle.Application.ID, e.ids)
	next.AuditTrail = appendAudit(bundle.AuditTrail, e.newAuditEntry(bundle.Application.ID, &actorID, ActionEdit, "Delegate assignment updated.", now))
	return next, true
}

func (e *Engine) newAuditEntry(applicationID int64, actorID *int64, action AuditAction, comment string, at time.Time) AuditLog {
	return AuditLog{
		ID:            e.ids.NextAuditID(),
		ApplicationID: applicationID,
		ActorID:       actorID,
		Action:        action,
		Comment:       comment,
		At:            at,
	}
}

// refreshTiming bumps UpdatedAt and recomputes the due date from the
// unchanged step: pending applications get a fresh deadline from the given
// base time, everything else loses its deadline.
func refreshTiming(app Application, typ *apptype.ApplicationType, now time.Time) Application {
	app.UpdatedAt = now
	if app.Status == StatusPending {
		app.DueAt = ComputeDueDate(typ, app, now)
	} else {
		app.DueAt = nil
	}
	return app
}

func retagValues(values []FieldValue, applicationID int64) []FieldValue {
	out := make([]FieldValue, len(values))
	for i, value := range values {
		out[i] = FieldValue{
			ApplicationID: applicationID,
			Key:           value.Key,
			Value:         value.Value,
		}
	}
	return out
}

func appendAudit(trail []AuditLog, entry AuditLog) []AuditLog {
	return append(slices.Clone(trail), entry)
}

// replaceDelegate drops any delegate for the role and installs the new one
// when a user is given.
func replaceDelegate(delegates []Delegate, forRoleID int64, delegateUserID *int64, applicationID int64, ids *IDAllocator) []Delegate {
	out := make([]Delegate, 0, len(delegates)+1)
	for _, delegate := range delegates {
		if delegate.ForRoleID != forRoleID {
			out = append(out, delegate)
		}
	}
	if delegateUserID != nil {
		out = append(out, Delegate{
			ID:             ids.NextDelegateID(),
			ApplicationID:  applicationID,
			ForRoleID:      forRoleID,
			DelegateUserID: *delegateUserID,
		})
	}
	return out
}
