package main

import (
	"context"
	"log"

	common_models "go-hr/internal/common/models"
	"go-hr/internal/config"
	"go-hr/internal/database"
	"go-hr/internal/features/apptype"
	"go-hr/internal/features/role"
	"go-hr/internal/features/user"

	"go.uber.org/fx"
)

// Seed bootstraps a fresh database with the reserved roles, a few demo
// accounts and two request types, then exits. Running it twice is harmless:
// every insert is guarded by a lookup first.
func main() {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			role.NewRoleRepository,
			user.NewUserRepository,
			apptype.NewTypeRepository,
			role.NewRoleService,
			user.NewUserService,
			apptype.NewTypeService,
		),
		fx.Invoke(runSeed),
	)
	app.Run()
}

func runSeed(shutdowner fx.Shutdowner, roles role.RoleService, users user.UserService, types apptype.TypeService) {
	ctx := context.Background()

	if err := seedRoles(ctx, roles); err != nil {
		log.Fatalf("seeding roles: %v", err)
	}
	if err := seedUsers(ctx, users); err != nil {
		log.Fatalf("seeding users: %v", err)
	}
	if err := seedTypes(ctx, types); err != nil {
		log.Fatalf("seeding request types: %v", err)
	}

	log.Println("seed complete")
	_ = shutdowner.Shutdown()
}

func seedRoles(ctx context.Context, roles role.RoleService) error {
	existing, err := roles.ListRoles(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	// Admin and HR ids are reserved; the role service widens their grants
	// on every save anyway, the explicit lists just keep the seed readable.
	seeds := []role.Role{
		{Name: "Administrator", Description: "Full system access"},
		{Name: "HR", Description: "Human resources department", Permissions: []string{
			role.PermViewDashboard,
			role.PermViewUsers, role.PermCreateUsers, role.PermEditUsers,
			role.PermViewRequests, role.PermCreateRequests, role.PermApproveRequests,
			role.PermManageRequestTypes, role.PermPrintRequests,
		}},
		{Name: "Employee", Description: "Regular staff member", Permissions: []string{
			role.PermViewDashboard,
			role.PermViewRequests, role.PermCreateRequests,
		}},
		{Name: "Department Head", Description: "Approves department requests", Permissions: []string{
			role.PermViewDashboard,
			role.PermViewRequests, role.PermCreateRequests, role.PermApproveRequests,
		}},
	}
	for i := range seeds {
		if _, err := roles.CreateRole(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, users user.UserService) error {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []user.User{
		{Name: "Admin", Email: "admin@example.com", Password: "admin", RoleID: role.AdminRoleID},
		{Name: "Nino Beridze", Email: "hr@example.com", Password: "hr", RoleID: role.HRRoleID},
		{Name: "Giorgi Maisuradze", Email: "head@example.com", Password: "head", RoleID: 4},
		{Name: "Tamar Kiknadze", Email: "employee@example.com", Password: "employee", RoleID: 3},
	}
	for i := range seeds {
		if _, err := users.CreateUser(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedTypes(ctx context.Context, types apptype.TypeService) error {
	existing, err := types.ListTypes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []apptype.ApplicationType{
		{
			Name:        common_models.LocalizedText{Ka: "შვებულება", En: "Vacation"},
			Description: common_models.LocalizedText{Ka: "ანაზღაურებადი შვებულების მოთხოვნა", En: "Paid vacation request"},
			Flow:        []int64{4, role.HRRoleID},
			Capabilities: apptype.Capabilities{
				RequiresDateRange: true,
				DateRangeRequired: true,
				HasCommentField:   true,
				AllowsAttachments: true,
			},
			SLAPerStep: []apptype.StepSLA{
				{StepIndex: 0, Seconds: 172800, OnExpire: apptype.ExpireAutoApprove},
				{StepIndex: 1, Seconds: 259200, OnExpire: apptype.ExpireBounceBack},
			},
		},
		{
			Name:        common_models.LocalizedText{Ka: "დასწრების კორექტირება", En: "Attendance correction"},
			Description: common_models.LocalizedText{Ka: "მოსვლის ან წასვლის დროის შესწორება", En: "Fix a clock-in or clock-out time"},
			Flow:        []int64{role.HRRoleID},
			Capabilities: apptype.Capabilities{
				RequiresTimeRange: true,
				TimeRangeRequired: true,
				HasCommentField:   true,
				CommentRequired:   true,
			},
			SLAPerStep: []apptype.StepSLA{
				{StepIndex: 0, Seconds: 86400, OnExpire: apptype.ExpireAutoApprove},
			},
		},
	}
	for i := range seeds {
		if _, err := types.CreateType(ctx, seeds[i]); err != nil {
			return err
		}
	}
	return nil
}
