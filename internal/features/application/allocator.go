package application

// IDAllocator owns the monotonic id counters for everything the engine
// creates. It is never trusted as durable state: Sync recomputes every
// counter as max(existing)+1 so externally edited or partially deleted data
// can never cause a collision.
type IDAllocator struct {
	nextApplication int64
	nextAttachment  int64
	nextAudit       int64
	nextDelegate    int64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		nextApplication: 1,
		nextAttachment:  1,
		nextAudit:       1,
		nextDelegate:    1,
	}
}

// Sync rebuilds all counters from the collection.
func (a *IDAllocator) Sync(bundles []ApplicationBundle) {
	a.nextApplication = 1
	a.nextAttachment = 1
	a.nextAudit = 1
	a.nextDelegate = 1

	for _, bundle := range bundles {
		a.observeApplication(bundle.Application.ID)
		for _, attachment := range bundle.Attachments {
			if attachment.ID >= a.nextAttachment {
				a.nextAttachment = attachment.ID + 1
			}
		}
		for _, entry := range bundle.AuditTrail {
			if entry.ID >= a.nextAudit {
				a.nextAudit = entry.ID + 1
			}
		}
		for _, delegate := range bundle.Delegates {
			if delegate.ID >= a.nextDelegate {
				a.nextDelegate = delegate.ID + 1
			}
		}
	}
}

func (a *IDAllocator) observeApplication(id int64) {
	if id >= a.nextApplication {
		a.nextApplication = id + 1
	}
}

func (a *IDAllocator) NextApplicationID() int64 {
	id := a.nextApplication
	a.nextApplication++
	return id
}

func (a *IDAllocator) NextAttachmentID() int64 {
	id := a.nextAttachment
	a.nextAttachment++
	return id
}

func (a *IDAllocator) NextAuditID() int64 {
	id := a.nextAudit
	a.nextAudit++
	return id
}

func (a *IDAllocator) NextDelegateID() int64 {
	id := a.nextDelegate
	a.nextDelegate++
	return id
}
