package application

// NormalizeBundle repairs a bundle loaded from the store against the current
// type set: the public number and submission time are backfilled, child rows
// are re-tagged with the owning application id, nil collections become empty,
// and the due date is recomputed from scratch (it is derived state, never
// authoritative as persisted).
func NormalizeBundle(bundle ApplicationBundle, lookup TypeLookup) ApplicationBundle {
	app := bundle.Application

	if app.Number == "" {
		app.Number = BuildNumber(app.ID, app.CreatedAt)
	}
	if app.SubmittedAt == nil && app.Status != StatusDraft {
		createdAt := app.CreatedAt
		app.SubmittedAt = &createdAt
	}

	app.DueAt = nil
	if app.Status == StatusPending {
		app.DueAt = ComputeDueDate(lookup(app.TypeID), app, app.UpdatedAt)
	}

	next := bundle
	next.Application = app
	next.Values = retagValues(bundle.Values, app.ID)
	next.Attachments = retagAttachments(bundle.Attachments, app.ID)
	if next.AuditTrail == nil {
		next.AuditTrail = []AuditLog{}
	}
	if next.Delegates == nil {
		next.Delegates = []Delegate{}
	}
	return next
}

// NormalizeBundles normalizes the whole collection, preserving order.
func NormalizeBundles(bundles []ApplicationBundle, lookup TypeLookup) []ApplicationBundle {
	out := make([]ApplicationBundle, len(bundles))
	for i, bundle := range bundles {
		out[i] = NormalizeBundle(bundle, lookup)
	}
	return out
}

func retagAttachments(attachments []Attachment, applicationID int64) []Attachment {
	out := make([]Attachment, len(attachments))
	for i, attachment := range attachments {
		attachment.ApplicationID = applicationID
		out[i] = attachment
	}
	return out
}
