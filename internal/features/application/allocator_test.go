package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildNumber(t *testing.T) {
	createdAt := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "TKT-2025-00007", BuildNumber(7, createdAt))
	assert.Equal(t, "TKT-2024-12345", BuildNumber(12345, time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "TKT-2025-123456", BuildNumber(123456, createdAt), "ids wider than the pad keep all digits")
}

func TestAllocatorSyncResumesAfterMax(t *testing.T) {
	alloc := NewIDAllocator()
	alloc.Sync([]ApplicationBundle{
		{
			Application: Application{ID: 4},
			Attachments: []Attachment{{ID: 9}},
			AuditTrail:  []AuditLog{{ID: 31}, {ID: 12}},
			Delegates:   []Delegate{{ID: 2}},
		},
		{
			Application: Application{ID: 7},
		},
	})

	assert.Equal(t, int64(8), alloc.NextApplicationID())
	assert.Equal(t, int64(10), alloc.NextAttachmentID())
	assert.Equal(t, int64(32), alloc.NextAuditID())
	assert.Equal(t, int64(3), alloc.NextDelegateID())

	// counters are monotonic after a sync
	assert.Equal(t, int64(9), alloc.NextApplicationID())
}

func TestAllocatorSyncResetsStaleCounters(t *testing.T) {
	alloc := NewIDAllocator()
	alloc.Sync([]ApplicationBundle{{Application: Application{ID: 100}}})
	assert.Equal(t, int64(101), alloc.NextApplicationID())

	// the collection shrank underneath us; Sync recomputes from scratch
	alloc.Sync([]ApplicationBundle{{Application: Application{ID: 3}}})
	assert.Equal(t, int64(4), alloc.NextApplicationID())
}

func TestAllocatorEmptyCollectionStartsAtOne(t *testing.T) {
	alloc := NewIDAllocator()
	alloc.Sync(nil)
	assert.Equal(t, int64(1), alloc.NextApplicationID())
	assert.Equal(t, int64(1), alloc.NextAttachmentID())
	assert.Equal(t, int64(1), alloc.NextAuditID())
	assert.Equal(t, int64(1), alloc.NextDelegateID())
}
