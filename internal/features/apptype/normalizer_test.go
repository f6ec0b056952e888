package apptype

import (
	"reflect"
	"testing"
)

func TestNormalizeFlow(t *testing.T) {
	tests := []struct {
		name string
		flow []int64
		want []int64
	}{
		{
			name: "Already Clean",
			flow: []int64{3, 7, 2},
			want: []int64{3, 7, 2},
		},
		{
			name: "Adjacent Duplicates",
			flow: []int64{3, 3, 7},
			want: []int64{3, 7},
		},
		{
			name: "Non Adjacent Duplicates Keep First Occurrence",
			flow: []int64{3, 7, 3, 2, 7},
			want: []int64{3, 7, 2},
		},
		{
			name: "Zero Entries Dropped",
			flow: []int64{0, 3, 0, 7},
			want: []int64{3, 7},
		},
		{
			name: "Empty",
			flow: nil,
			want: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeFlow(tt.flow)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeFlow(%v) = %v, want %v", tt.flow, got, tt.want)
			}
		})
	}
}

func TestNormalizeSLAs(t *testing.T) {
	tests := []struct {
		name    string
		entries []StepSLA
		flowLen int
		want    []StepSLA
	}{
		{
			name: "Valid Entry Untouched",
			entries: []StepSLA{
				{StepIndex: 1, Seconds: 3600, OnExpire: ExpireBounceBack},
			},
			flowLen: 3,
			want: []StepSLA{
				{StepIndex: 1, Seconds: 3600, OnExpire: ExpireBounceBack},
			},
		},
		{
			name: "Index Clamped Into Flow",
			entries: []StepSLA{
				{StepIndex: -2, Seconds: 60, OnExpire: ExpireAutoApprove},
				{StepIndex: 9, Seconds: 60, OnExpire: ExpireAutoApprove},
			},
			flowLen: 2,
			want: []StepSLA{
				{StepIndex: 0, Seconds: 60, OnExpire: ExpireAutoApprove},
				{StepIndex: 1, Seconds: 60, OnExpire: ExpireAutoApprove},
			},
		},
		{
			name: "Negative Seconds Become Zero",
			entries: []StepSLA{
				{StepIndex: 0, Seconds: -5, OnExpire: ExpireAutoApprove},
			},
			flowLen: 1,
			want: []StepSLA{
				{StepIndex: 0, Seconds: 0, OnExpire: ExpireAutoApprove},
			},
		},
		{
			name: "Unknown Action Falls Back To Auto Approve",
			entries: []StepSLA{
				{StepIndex: 0, Seconds: 60, OnExpire: ExpireAction("ESCALATE")},
			},
			flowLen: 1,
			want: []StepSLA{
				{StepIndex: 0, Seconds: 60, OnExpire: ExpireAutoApprove},
			},
		},
		{
			name: "Empty Flow Discards Everything",
			entries: []StepSLA{
				{StepIndex: 0, Seconds: 60, OnExpire: ExpireAutoApprove},
			},
			flowLen: 0,
			want:    []StepSLA{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeSLAs(tt.entries, tt.flowLen)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeSLAs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	normalized := Normalize(ApplicationType{
		ID:             5,
		Flow:           []int64{2, 2, 4},
		AllowedRoleIDs: []int64{3, 0, 3},
	})

	if normalized.Capabilities.AttachmentMaxSizeMB != DefaultAttachmentMaxSizeMB {
		t.Errorf("AttachmentMaxSizeMB = %d, want %d", normalized.Capabilities.AttachmentMaxSizeMB, DefaultAttachmentMaxSizeMB)
	}
	if want := []int64{2, 4}; !reflect.DeepEqual(normalized.Flow, want) {
		t.Errorf("Flow = %v, want %v", normalized.Flow, want)
	}
	if want := []int64{3}; !reflect.DeepEqual(normalized.AllowedRoleIDs, want) {
		t.Errorf("AllowedRoleIDs = %v, want %v", normalized.AllowedRoleIDs, want)
	}
	if len(normalized.Fields) == 0 || normalized.Fields[0].Key != FieldKeyReason {
		t.Errorf("Fields = %v, want reason synthesized first", normalized.Fields)
	}
}

func TestNormalizeExplicitMaxSizeKept(t *testing.T) {
	normalized := Normalize(ApplicationType{
		Flow:         []int64{2},
		Capabilities: Capabilities{AttachmentMaxSizeMB: 10},
	})
	if normalized.Capabilities.AttachmentMaxSizeMB != 10 {
		t.Errorf("AttachmentMaxSizeMB = %d, want 10", normalized.Capabilities.AttachmentMaxSizeMB)
	}
}
