package apptype

import (
	"time"

	common_models "go-hr/internal/common/models"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeNumber   FieldType = "number"
)

// FieldDefinition describes one input the request form renders.
type FieldDefinition struct {
	Key         string                      `bson:"key" json:"key"`
	Label       common_models.LocalizedText `bson:"label" json:"label"`
	Type        FieldType                   `bson:"type" json:"type"`
	Required    bool                        `bson:"required" json:"required"`
	Placeholder *common_models.LocalizedText `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// ExpireAction is what the sweep does when a step deadline elapses.
type ExpireAction string

const (
	ExpireAutoApprove ExpireAction = "AUTO_APPROVE"
	ExpireBounceBack  ExpireAction = "BOUNCE_BACK"
)

// StepSLA binds a maximum pending duration to one flow step.
type StepSLA struct {
	StepIndex int          `bson:"step_index" json:"stepIndex"`
	Seconds   int64        `bson:"seconds" json:"seconds"`
	OnExpire  ExpireAction `bson:"on_expire" json:"onExpire"`
}

// Capabilities are the flags that drive field synthesis for a type.
type Capabilities struct {
	RequiresDateRange   bool `bson:"requires_date_range" json:"requiresDateRange"`
	DateRangeRequired   bool `bson:"date_range_required" json:"dateRangeRequired"`
	RequiresTimeRange   bool `bson:"requires_time_range" json:"requiresTimeRange"`
	TimeRangeRequired   bool `bson:"time_range_required" json:"timeRangeRequired"`
	HasCommentField     bool `bson:"has_comment_field" json:"hasCommentField"`
	CommentRequired     bool `bson:"comment_required" json:"commentRequired"`
	AllowsAttachments   bool `bson:"allows_attachments" json:"allowsAttachments"`
	AttachmentsRequired bool `bson:"attachments_required" json:"attachmentsRequired"`
	AttachmentMaxSizeMB int  `bson:"attachment_max_size_mb" json:"attachmentMaxSizeMb"`
}

const DefaultAttachmentMaxSizeMB = 50

// ApplicationType is a request template: which roles approve in which order,
// which fields the requester fills in, and the per-step deadlines.
type ApplicationType struct {
	ID             int64                       `bson:"id" json:"id"`
	Name           common_models.LocalizedText `bson:"name" json:"name"`
	Description    common_models.LocalizedText `bson:"description" json:"description"`
	Flow           []int64                     `bson:"flow" json:"flow"`
	Fields         []FieldDefinition           `bson:"fields" json:"fields"`
	Capabilities   Capabilities                `bson:"capabilities" json:"capabilities"`
	SLAPerStep     []StepSLA                   `bson:"sla_per_step" json:"slaPerStep"`
	AllowedRoleIDs []int64                     `bson:"allowed_role_ids" json:"allowedRoleIds"`
	CreatedAt      time.Time                   `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time                   `bson:"updated_at" json:"updated_at"`
}

// SLAForStep returns the SLA entry bound to the given step, or nil when the
// step has no deadline and never auto-expires.
func (t *ApplicationType) SLAForStep(stepIndex int) *StepSLA {
	for i := range t.SLAPerStep {
		if t.SLAPerStep[i].StepIndex == stepIndex {
			return &t.SLAPerStep[i]
		}
	}
	return nil
}
