package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVisibleTo(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle := pendingBundle(engine, 1)
	typ := lookupFor(vacationType())(1)
	require.NotNil(t, typ)

	tests := []struct {
		name   string
		userID int64
		roleID int64
		want   bool
	}{
		{name: "Requester", userID: 42, roleID: 3, want: true},
		{name: "Role In Flow", userID: 500, roleID: 10, want: true},
		{name: "Later Flow Role", userID: 501, roleID: 20, want: true},
		{name: "Unrelated User", userID: 502, roleID: 3, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisibleTo(bundle, typ, tt.userID, tt.roleID))
		})
	}
}

func TestIsVisibleToDelegate(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	delegate := int64(77)
	bundle, _ = engine.Submit(bundle, 42, "", &delegate)
	typ := lookupFor(vacationType())(1)

	assert.True(t, IsVisibleTo(bundle, typ, 77, 3))
	assert.False(t, IsVisibleTo(bundle, typ, 78, 3))
}

func TestIsVisibleToHidesOrphanedBundles(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle := pendingBundle(engine, 1)

	assert.False(t, IsVisibleTo(bundle, nil, 42, 10), "even the requester loses access when the type is gone")
}

func TestIsPendingFor(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle := pendingBundle(engine, 1)
	typ := lookupFor(vacationType())(1)

	assert.True(t, IsPendingFor(bundle, typ, 500, 10), "current step role")
	assert.False(t, IsPendingFor(bundle, typ, 501, 20), "a later step is not actionable yet")
	assert.False(t, IsPendingFor(bundle, typ, 42, 3), "the requester has nothing to approve")

	actor := int64(10)
	advanced, _ := engine.Approve(bundle, &actor, ActionApprove, "")
	assert.False(t, IsPendingFor(advanced, typ, 500, 10))
	assert.True(t, IsPendingFor(advanced, typ, 501, 20))
}

func TestIsPendingForDelegate(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	bundle, _ := engine.Create(1, 42, nil)
	delegate := int64(77)
	bundle, _ = engine.Submit(bundle, 42, "", &delegate)
	typ := lookupFor(vacationType())(1)

	assert.True(t, IsPendingFor(bundle, typ, 77, 3), "delegate acts for the current step role")

	actor := int64(10)
	advanced, _ := engine.Approve(bundle, &actor, ActionApprove, "")
	assert.False(t, IsPendingFor(advanced, typ, 77, 3), "the delegation was for the first step's role only")
}

func TestIsPendingForNonPendingStatuses(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	typ := lookupFor(vacationType())(1)

	draft, _ := engine.Create(1, 42, nil)
	assert.False(t, IsPendingFor(draft, typ, 500, 10))

	closed, _ := engine.Close(pendingBundle(engine, 1), 42, "")
	assert.False(t, IsPendingFor(closed, typ, 500, 10))
}

func TestIsReturned(t *testing.T) {
	engine := newTestEngine(testNow, vacationType())
	actor := int64(10)

	draft, _ := engine.Create(1, 42, nil)
	assert.True(t, IsReturned(draft), "a draft sits with the requester")

	pending := pendingBundle(engine, 1)
	assert.False(t, IsReturned(pending))

	rejected, _ := engine.Reject(pending, &actor, ActionReject, "no")
	assert.True(t, IsReturned(rejected))

	// a mid-flow rejection keeps the bundle pending but flags it returned
	advanced, _ := engine.Approve(pending, &actor, ActionApprove, "")
	actor2 := int64(20)
	bounced, _ := engine.Reject(advanced, &actor2, ActionReject, "fix")
	assert.Equal(t, StatusPending, bounced.Application.Status)
	assert.True(t, IsReturned(bounced))
}
