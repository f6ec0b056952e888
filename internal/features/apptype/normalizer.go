package apptype

// Normalize returns the canonical form of a raw type definition. Every type
// passes through here on write and on read, so the engine only ever sees
// deduplicated flows, clamped SLA indices and the synthesized field set.
func Normalize(t ApplicationType) ApplicationType {
	t.Capabilities = ensureCapabilities(t.Capabilities)
	t.AllowedRoleIDs = dedupeRoleIDs(t.AllowedRoleIDs)
	t.Fields = buildFieldsForCapabilities(t.Fields, t.Capabilities)
	t.Flow = normalizeFlow(t.Flow)
	t.SLAPerStep = normalizeSLAs(t.SLAPerStep, len(t.Flow))
	return t
}

// NormalizeList normalizes every type in place-order.
func NormalizeList(types []ApplicationType) []ApplicationType {
	out := make([]ApplicationType, len(types))
	for i, t := range types {
		out[i] = Normalize(t)
	}
	return out
}

func ensureCapabilities(c Capabilities) Capabilities {
	if c.AttachmentMaxSizeMB <= 0 {
		c.AttachmentMaxSizeMB = DefaultAttachmentMaxSizeMB
	}
	return c
}

func dedupeRoleIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// normalizeFlow drops zero entries and repeats: a role keeps only its first
// occurrence even when the input repeats it non-adjacently.
func normalizeFlow(flow []int64) []int64 {
	seen := make(map[int64]struct{}, len(flow))
	out := make([]int64, 0, len(flow))
	for _, roleID := range flow {
		if roleID == 0 {
			continue
		}
		if _, ok := seen[roleID]; ok {
			continue
		}
		seen[roleID] = struct{}{}
		out = append(out, roleID)
	}
	return out
}

// normalizeSLAs clamps each step index into [0, flowLen-1] and discards
// entries whose clamped index has no flow step (all of them when the flow is
// empty). Non-positive durations are stored as 0, meaning immediately
// overdue; unknown expiry actions fall back to AUTO_APPROVE.
func normalizeSLAs(entries []StepSLA, flowLen int) []StepSLA {
	out := make([]StepSLA, 0, len(entries))
	for _, entry := range entries {
		normalized := StepSLA{
			StepIndex: clampStepIndex(entry.StepIndex, flowLen),
			Seconds:   entry.Seconds,
			OnExpire:  ExpireAutoApprove,
		}
		if normalized.Seconds < 0 {
			normalized.Seconds = 0
		}
		if entry.OnExpire == ExpireBounceBack {
			normalized.OnExpire = ExpireBounceBack
		}
		if normalized.StepIndex >= flowLen {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func clampStepIndex(index, flowLen int) int {
	upper := 0
	if flowLen > 0 {
		upper = flowLen - 1
	}
	if index < 0 {
		return 0
	}
	if index > upper {
		return upper
	}
	return index
}
