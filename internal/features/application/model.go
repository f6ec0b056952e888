package application

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	StatusDraft    ApplicationStatus = "DRAFT"
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
	StatusClosed   ApplicationStatus = "CLOSED"
)

type AuditAction string

const (
	ActionCreate       AuditAction = "CREATE"
	ActionSubmit       AuditAction = "SUBMIT"
	ActionApprove      AuditAction = "APPROVE"
	ActionReject       AuditAction = "REJECT"
	ActionEdit         AuditAction = "EDIT"
	ActionResend       AuditAction = "RESEND"
	ActionClose        AuditAction = "CLOSE"
	ActionAutoApprove  AuditAction = "AUTO_APPROVE"
	ActionExpireBounce AuditAction = "EXPIRE_BOUNCE"
)

// Application is one workflow instance. CurrentStepIndex is -1 before
// submission and after a terminal rejection; DueAt is derived state and is
// recomputed on every load rather than trusted from the store.
type Application struct {
	ID               int64             `bson:"id" json:"id"`
	Number           string            `bson:"number" json:"number"`
	TypeID           int64             `bson:"type_id" json:"typeId"`
	RequesterID      int64             `bson:"requester_id" json:"requesterId"`
	Status           ApplicationStatus `bson:"status" json:"status"`
	CurrentStepIndex int               `bson:"current_step_index" json:"currentStepIndex"`
	CreatedAt        time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updated_at" json:"updatedAt"`
	SubmittedAt      *time.Time        `bson:"submitted_at,omitempty" json:"submittedAt"`
	DueAt            *time.Time        `bson:"due_at,omitempty" json:"dueAt"`
}

// FieldValue is one key/value row of the request form. The whole list is
// replaced wholesale on edit.
type FieldValue struct {
	ApplicationID int64  `bson:"application_id" json:"applicationId"`
	Key           string `bson:"key" json:"key"`
	Value         string `bson:"value" json:"value"`
}

type Attachment struct {
	ID            int64     `bson:"id" json:"id"`
	ApplicationID int64     `bson:"application_id" json:"applicationId"`
	Name          string    `bson:"name" json:"name"`
	URL           string    `bson:"url" json:"url"`
	UploadedBy    int64     `bson:"uploaded_by" json:"uploadedBy"`
	SizeBytes     int64     `bson:"size_bytes" json:"sizeBytes"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// AuditLog is immutable. ActorID is nil for system-driven actions such as
// SLA expiry.
type AuditLog struct {
	ID            int64       `bson:"id" json:"id"`
	ApplicationID int64       `bson:"application_id" json:"applicationId"`
	ActorID       *int64      `bson:"actor_id,omitempty" json:"actorId"`
	Action        AuditAction `bson:"action" json:"action"`
	Comment       string      `bson:"comment,omitempty" json:"comment,omitempty"`
	At            time.Time   `bson:"at" json:"at"`
}

// Delegate authorizes a user to act on behalf of a role for one application.
// At most one delegate per role is kept at a time.
type Delegate struct {
	ID             int64 `bson:"id" json:"id"`
	ApplicationID  int64 `bson:"application_id" json:"applicationId"`
	ForRoleID      int64 `bson:"for_role_id" json:"forRoleId"`
	DelegateUserID int64 `bson:"delegate_user_id" json:"delegateUserId"`
}

// ApplicationBundle is the aggregate root the store persists as one document.
type ApplicationBundle struct {
	Application Application  `bson:"application" json:"application"`
	Values      []FieldValue `bson:"values" json:"values"`
	Attachments []Attachment `bson:"attachments" json:"attachments"`
	AuditTrail  []AuditLog   `bson:"audit_trail" json:"auditTrail"`
	Delegates   []Delegate   `bson:"delegates" json:"delegates"`
}

// BuildNumber renders the public application number, e.g. TKT-2025-00007.
// The year comes from the application's creation time.
func BuildNumber(id int64, createdAt time.Time) string {
	return fmt.Sprintf("TKT-%d-%05d", createdAt.Year(), id)
}
