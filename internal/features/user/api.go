package user

import (
	"go-hr/internal/config"
	"go-hr/internal/features/role"
	"go-hr/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller  *UserController
	roleService role.RoleService
	config      *config.Config
}

func NewUserApi(controller *UserController, roleService role.RoleService, config *config.Config) *UserApi {
	return &UserApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", middleware.RequirePermission(h.roleService, role.PermViewUsers), h.controller.ListUsers)
	users.Get("/:id", middleware.RequirePermission(h.roleService, role.PermViewUsers), h.controller.GetUser)
	users.Post("/", middleware.RequirePermission(h.roleService, role.PermCreateUsers), h.controller.CreateUser)
	users.Put("/:id", middleware.RequirePermission(h.roleService, role.PermEditUsers), h.controller.UpdateUser)
	users.Delete("/:id", middleware.RequirePermission(h.roleService, role.PermDeleteUsers), h.controller.DeleteUser)
}
