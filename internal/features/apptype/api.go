package apptype

import (
	"go-hr/internal/config"
	"go-hr/internal/features/role"
	"go-hr/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TypeApi struct {
	controller  *TypeController
	roleService role.RoleService
	config      *config.Config
}

func NewTypeApi(controller *TypeController, roleService role.RoleService, config *config.Config) *TypeApi {
	return &TypeApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *TypeApi) Setup(app *fiber.App) {
	types := app.Group("/api/application-types", middleware.AuthMiddleware(h.config.SkipAuth))

	// Reading the catalog only needs an authenticated session: the create
	// form has to render the available types for every user.
	types.Get("/", h.controller.ListTypes)
	types.Get("/:id", h.controller.GetType)

	manage := middleware.RequirePermission(h.roleService, role.PermManageRequestTypes)
	types.Post("/", manage, h.controller.CreateType)
	types.Put("/:id", manage, h.controller.UpdateType)
	types.Delete("/:id", manage, h.controller.DeleteType)
}
