package role

import "time"

// Role is a flat permission holder. Approval pipelines reference roles by id
// in their flow, so role ids are stable numeric values rather than ObjectIDs.
type Role struct {
	ID          int64     `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Permissions []string  `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type Permission struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Permission ids consumed by the route gates and the permission editor.
const (
	PermViewDashboard      = "view_dashboard"
	PermViewUsers          = "view_users"
	PermCreateUsers        = "create_users"
	PermEditUsers          = "edit_users"
	PermDeleteUsers        = "delete_users"
	PermViewRoles          = "view_roles"
	PermCreateRoles        = "create_roles"
	PermEditRoles          = "edit_roles"
	PermDeleteRoles        = "delete_roles"
	PermViewRequests       = "view_requests"
	PermCreateRequests     = "create_requests"
	PermApproveRequests    = "approve_requests"
	PermManageRequestTypes = "manage_request_types"
	PermPrintRequests      = "print_requests"
	PermResetPasswords     = "reset_passwords"
	PermManagePermissions  = "manage_permissions"
)

// AllPermissions is the closed catalog the permission screens render.
var AllPermissions = []Permission{
	{ID: PermViewDashboard, Name: "View dashboard", Category: "Dashboard"},
	{ID: PermViewUsers, Name: "View users", Category: "Users"},
	{ID: PermCreateUsers, Name: "Create users", Category: "Users"},
	{ID: PermEditUsers, Name: "Edit users", Category: "Users"},
	{ID: PermDeleteUsers, Name: "Delete users", Category: "Users"},
	{ID: PermViewRoles, Name: "View roles", Category: "Roles"},
	{ID: PermCreateRoles, Name: "Create roles", Category: "Roles"},
	{ID: PermEditRoles, Name: "Edit roles", Category: "Roles"},
	{ID: PermDeleteRoles, Name: "Delete roles", Category: "Roles"},
	{ID: PermViewRequests, Name: "View requests", Category: "Requests"},
	{ID: PermCreateRequests, Name: "Create requests", Category: "Requests"},
	{ID: PermApproveRequests, Name: "Approve requests", Category: "Requests"},
	{ID: PermManageRequestTypes, Name: "Manage request types", Category: "Requests"},
	{ID: PermPrintRequests, Name: "Print requests", Category: "Requests"},
	{ID: PermResetPasswords, Name: "Reset passwords", Category: "System"},
	{ID: PermManagePermissions, Name: "Manage permissions", Category: "System"},
}

// Reserved role ids with hard-wired permission grants.
const (
	AdminRoleID int64 = 1
	HRRoleID    int64 = 2
)
