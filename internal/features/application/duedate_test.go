package application

import (
	"testing"
	"time"

	"go-hr/internal/features/apptype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDueDate(t *testing.T) {
	typ := apptype.Normalize(vacationType())

	pending := Application{Status: StatusPending, CurrentStepIndex: 0, UpdatedAt: testNow}

	t.Run("Pending Step With SLA", func(t *testing.T) {
		due := ComputeDueDate(&typ, pending, testNow)
		require.NotNil(t, due)
		assert.True(t, due.Equal(testNow.Add(time.Hour)))
	})

	t.Run("Zero Base Falls Back To UpdatedAt", func(t *testing.T) {
		due := ComputeDueDate(&typ, pending, time.Time{})
		require.NotNil(t, due)
		assert.True(t, due.Equal(testNow.Add(time.Hour)))
	})

	t.Run("Nil Type", func(t *testing.T) {
		assert.Nil(t, ComputeDueDate(nil, pending, testNow))
	})

	t.Run("Not Pending", func(t *testing.T) {
		app := pending
		app.Status = StatusApproved
		assert.Nil(t, ComputeDueDate(&typ, app, testNow))
	})

	t.Run("Step Without SLA", func(t *testing.T) {
		bare := apptype.Normalize(apptype.ApplicationType{ID: 2, Flow: []int64{10}})
		assert.Nil(t, ComputeDueDate(&bare, pending, testNow))
	})

	t.Run("Zero Second SLA Is Immediately Due", func(t *testing.T) {
		instant := apptype.Normalize(apptype.ApplicationType{
			ID:         3,
			Flow:       []int64{10},
			SLAPerStep: []apptype.StepSLA{{StepIndex: 0, Seconds: 0, OnExpire: apptype.ExpireAutoApprove}},
		})
		due := ComputeDueDate(&instant, pending, testNow)
		require.NotNil(t, due)
		assert.True(t, due.Equal(testNow))
	})
}
