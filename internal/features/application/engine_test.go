package application

import (
	"testing"
	"time"

	"go-hr/internal/features/apptype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func lookupFor(types ...apptype.ApplicationType) TypeLookup {
	byID := make(map[int64]apptype.ApplicationType, len(types))
	for _, t := range types {
		byID[t.ID] = apptype.Normalize(t)
	}
	return func(id int64) *apptype.ApplicationType {
		if t, ok := byID[id]; ok {
			return &t
		}
		return nil
	}
}

func vacationType() apptype.ApplicationType {
	return apptype.ApplicationType{
		ID:   1,
		Flow: []int64{10, 20},
		SLAPerStep: []apptype.StepSLA{
			{StepIndex: 0, Seconds: 3600, OnExpire: apptype.ExpireAutoApprove},
			{StepIndex: 1, Seconds: 7200, OnExpire: apptype.ExpireBounceBack},
		},
	}
}

func newTestEngine(at time.Time, types ...apptype.ApplicationType) *Engine {
	return NewEngine(lookupFor(types...), NewIDAllocator(), fixedClock(at))
}

func TestCreateStartsDraft(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())

	bundle, ok := engine.Create(1, 42, []FieldValue{{Key: "reason", Value: "Trip"}})
	require.True(t, ok)

	assert.Equal(t, StatusDraft, bundle.Application.Status)
	assert.Equal(t, -1, bundle.Application.CurrentStepIndex)
	assert.Equal(t, "TKT-2025-00001", bundle.Application.Number)
	assert.Equal(t, int64(42), bundle.Application.RequesterID)
	assert.Nil(t, bundle.Application.SubmittedAt)
	assert.Nil(t, bundle.Application.DueAt)

	require.Len(t, bundle.AuditTrail, 1)
	assert.Equal(t, ActionCreate, bundle.AuditTrail[0].Action)
	require.NotNil(t, bundle.AuditTrail[0].ActorID)
	assert.Equal(t, int64(42), *bundle.AuditTrail[0].ActorID)

	require.Len(t, bundle.Values, 1)
	assert.Equal(t, bundle.Application.ID, bundle.Values[0].ApplicationID)
}

func TestCreateFailsWithoutType(t *testing.T) {
	engine := newTestEngine(testNow)

	_, ok := engine.Create(99, 42, nil)
	assert.False(t, ok)
}

func TestSubmitEntersFlow(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)

	submitted, ok := engine.Submit(bundle, 42, "please review", nil)
	require.True(t, ok)

	assert.Equal(t, StatusPending, submitted.Application.Status)
	assert.Equal(t, 0, submitted.Application.CurrentStepIndex)
	require.NotNil(t, submitted.Application.SubmittedAt)
	assert.True(t, submitted.Application.SubmittedAt.Equal(testNow))
	require.NotNil(t, submitted.Application.DueAt)
	assert.True(t, submitted.Application.DueAt.Equal(testNow.Add(time.Hour)))

	// the draft input must be untouched
	assert.Equal(t, StatusDraft, bundle.Application.Status)
	assert.Len(t, bundle.AuditTrail, 1)
	assert.Len(t, submitted.AuditTrail, 2)
}

func TestSubmitInstallsDelegate(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)

	delegate := int64(77)
	submitted, ok := engine.Submit(bundle, 42, "", &delegate)
	require.True(t, ok)

	require.Len(t, submitted.Delegates, 1)
	assert.Equal(t, int64(10), submitted.Delegates[0].ForRoleID)
	assert.Equal(t, int64(77), submitted.Delegates[0].DelegateUserID)

	// resubmitting without a delegate clears the previous one
	resent, ok := engine.Resend(submitted, 42, "", nil)
	require.True(t, ok)
	assert.Empty(t, resent.Delegates)
}

func TestApproveAdvancesThenFinalizes(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	bundle, _ = engine.Submit(bundle, 42, "", nil)

	actor := int64(10)
	mid, ok := engine.Approve(bundle, &actor, ActionApprove, "looks fine")
	require.True(t, ok)
	assert.Equal(t, StatusPending, mid.Application.Status)
	assert.Equal(t, 1, mid.Application.CurrentStepIndex)
	require.NotNil(t, mid.Application.DueAt)
	assert.True(t, mid.Application.DueAt.Equal(testNow.Add(2*time.Hour)))

	final, ok := engine.Approve(mid, &actor, ActionApprove, "")
	require.True(t, ok)
	assert.Equal(t, StatusApproved, final.Application.Status)
	// step index freezes at the last step after the final approval
	assert.Equal(t, 1, final.Application.CurrentStepIndex)
	assert.Nil(t, final.Application.DueAt)
}

func TestRejectStepsBackThenFinalizes(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	bundle, _ = engine.Submit(bundle, 42, "", nil)
	actor := int64(10)
	bundle, _ = engine.Approve(bundle, &actor, ActionApprove, "")
	require.Equal(t, 1, bundle.Application.CurrentStepIndex)

	actor2 := int64(20)
	back, ok := engine.Reject(bundle, &actor2, ActionReject, "missing info")
	require.True(t, ok)
	assert.Equal(t, StatusPending, back.Application.Status)
	assert.Equal(t, 0, back.Application.CurrentStepIndex)

	terminal, ok := engine.Reject(back, &actor, ActionReject, "cannot support this")
	require.True(t, ok)
	assert.Equal(t, StatusRejected, terminal.Application.Status)
	assert.Equal(t, -1, terminal.Application.CurrentStepIndex)
	assert.Nil(t, terminal.Application.DueAt)
}

func TestResendKeepsOriginalSubmissionTime(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	bundle, _ = engine.Submit(bundle, 42, "", nil)
	actor := int64(10)
	bundle, _ = engine.Reject(bundle, &actor, ActionReject, "redo")
	require.Equal(t, StatusRejected, bundle.Application.Status)

	later := NewEngine(lookupFor(vacationType()), NewIDAllocator(), fixedClock(testNow.Add(24*time.Hour)))
	resent, ok := later.Resend(bundle, 42, "fixed", nil)
	require.True(t, ok)

	assert.Equal(t, StatusPending, resent.Application.Status)
	assert.Equal(t, 0, resent.Application.CurrentStepIndex)
	require.NotNil(t, resent.Application.SubmittedAt)
	assert.True(t, resent.Application.SubmittedAt.Equal(testNow), "first submission time survives a resend")
}

func TestCloseIsTerminalButKeepsStep(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	bundle, _ = engine.Submit(bundle, 42, "", nil)

	closed, ok := engine.Close(bundle, 42, "no longer needed")
	require.True(t, ok)
	assert.Equal(t, StatusClosed, closed.Application.Status)
	assert.Equal(t, 0, closed.Application.CurrentStepIndex)
	assert.Nil(t, closed.Application.DueAt)
}

func TestEditValuesReplacesWholesale(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, []FieldValue{{Key: "reason", Value: "old"}})

	edited, ok := engine.EditValues(bundle, 42, []FieldValue{
		{Key: "reason", Value: "new"},
		{Key: "start_date", Value: "2025-04-01"},
	}, "")
	require.True(t, ok)

	require.Len(t, edited.Values, 2)
	assert.Equal(t, "new", edited.Values[0].Value)
	assert.Equal(t, bundle.Application.ID, edited.Values[1].ApplicationID)
	assert.Equal(t, StatusDraft, edited.Application.Status)
}

func TestAddAttachmentRecordsAuditComment(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)

	withFile, ok := engine.AddAttachment(bundle, 42, AttachmentDraft{
		Name:       "doctor-note.pdf",
		URL:        "/files/doctor-note.pdf",
		UploadedBy: 42,
		SizeBytes:  2048,
	})
	require.True(t, ok)

	require.Len(t, withFile.Attachments, 1)
	assert.Equal(t, int64(1), withFile.Attachments[0].ID)

	last := withFile.AuditTrail[len(withFile.AuditTrail)-1]
	assert.Equal(t, ActionEdit, last.Action)
	assert.Equal(t, "Attached file: doctor-note.pdf", last.Comment)
}

func TestAssignDelegateReplacesPerRole(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)

	first := int64(7)
	bundle, ok := engine.AssignDelegate(bundle, 42, 10, &first)
	require.True(t, ok)
	second := int64(8)
	bundle, ok = engine.AssignDelegate(bundle, 42, 10, &second)
	require.True(t, ok)

	require.Len(t, bundle.Delegates, 1)
	assert.Equal(t, int64(8), bundle.Delegates[0].DelegateUserID)

	bundle, ok = engine.AssignDelegate(bundle, 42, 10, nil)
	require.True(t, ok)
	assert.Empty(t, bundle.Delegates)
}

func TestTransitionsNoOpWhenTypeDeleted(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)

	orphaned := newTestEngine(testNow) // no types resolvable
	actor := int64(10)

	_, ok := orphaned.Submit(bundle, 42, "", nil)
	assert.False(t, ok)
	_, ok = orphaned.Approve(bundle, &actor, ActionApprove, "")
	assert.False(t, ok)
	_, ok = orphaned.Reject(bundle, &actor, ActionReject, "x")
	assert.False(t, ok)
	_, ok = orphaned.Close(bundle, 42, "")
	assert.False(t, ok)
	_, ok = orphaned.EditValues(bundle, 42, nil, "")
	assert.False(t, ok)
}
