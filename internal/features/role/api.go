package role

import (
	"go-hr/internal/config"
	"go-hr/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	service    RoleService
	config     *config.Config
}

func NewRoleApi(controller *RoleController, service RoleService, config *config.Config) *RoleApi {
	return &RoleApi{
		controller: controller,
		service:    service,
		config:     config,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(h.config.SkipAuth))

	roles.Get("/", middleware.RequirePermission(h.service, PermViewRoles), h.controller.ListRoles)
	roles.Get("/:id", middleware.RequirePermission(h.service, PermViewRoles), h.controller.GetRole)
	roles.Post("/", middleware.RequirePermission(h.service, PermCreateRoles), h.controller.CreateRole)
	roles.Put("/:id", middleware.RequirePermission(h.service, PermEditRoles), h.controller.UpdateRole)
	roles.Delete("/:id", middleware.RequirePermission(h.service, PermDeleteRoles), h.controller.DeleteRole)

	permissions := app.Group("/api/permissions", middleware.AuthMiddleware(h.config.SkipAuth))
	permissions.Get("/", middleware.RequirePermission(h.service, PermManagePermissions), h.controller.ListPermissions)
}
