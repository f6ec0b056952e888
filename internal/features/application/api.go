package application

import (
	"go-hr/internal/config"
	"go-hr/internal/features/role"
	"go-hr/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApplicationApi struct {
	controller  *ApplicationController
	roleService role.RoleService
	config      *config.Config
}

func NewApplicationApi(controller *ApplicationController, roleService role.RoleService, config *config.Config) *ApplicationApi {
	return &ApplicationApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *ApplicationApi) Setup(app *fiber.App) {
	apps := app.Group("/api/applications", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequirePermission(h.roleService, role.PermViewRequests)
	create := middleware.RequirePermission(h.roleService, role.PermCreateRequests)
	approve := middleware.RequirePermission(h.roleService, role.PermApproveRequests)
	export := middleware.RequirePermission(h.roleService, role.PermPrintRequests)

	// Export before :id, fiber matches routes in registration order.
	apps.Get("/export", export, h.controller.ExportApplications)
	apps.Get("/", view, h.controller.ListApplications)
	apps.Get("/:id", view, h.controller.GetApplication)

	apps.Post("/", create, h.controller.CreateApplication)
	apps.Post("/:id/submit", create, h.controller.SubmitApplication)
	apps.Post("/:id/resend", create, h.controller.ResendApplication)
	apps.Put("/:id/values", create, h.controller.UpdateApplicationValues)
	apps.Post("/:id/attachments", create, h.controller.AddApplicationAttachment)
	apps.Post("/:id/close", create, h.controller.CloseApplication)

	apps.Post("/:id/approve", approve, h.controller.ApproveApplication)
	apps.Post("/:id/reject", approve, h.controller.RejectApplication)
	apps.Put("/:id/delegate", approve, h.controller.AssignApplicationDelegate)
}
