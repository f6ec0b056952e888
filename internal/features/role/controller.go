package role

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

// CreateRole godoc
// @Summary Create a new role
// @Tags roles
// @Accept json
// @Produce json
// @Param role body Role true "Role"
// @Success 201 {object} Role
// @Router /api/roles [post]
func (c *RoleController) CreateRole(ctx *fiber.Ctx) error {
	var input Role
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateRole(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// GetRole godoc
// @Summary Get a role by id
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} Role
// @Router /api/roles/{id} [get]
func (c *RoleController) GetRole(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	role, err := c.Service.GetRoleByID(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(role)
}

// ListRoles godoc
// @Summary List all roles
// @Tags roles
// @Produce json
// @Success 200 {array} Role
// @Router /api/roles [get]
func (c *RoleController) ListRoles(ctx *fiber.Ctx) error {
	roles, err := c.Service.ListRoles(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(roles)
}

// UpdateRole godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Param id path int true "Role ID"
// @Param role body Role true "Role"
// @Success 200 {object} map[string]string
// @Router /api/roles/{id} [put]
func (c *RoleController) UpdateRole(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	var input Role
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateRole(ctx.UserContext(), id, &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Role updated successfully"})
}

// DeleteRole godoc
// @Summary Delete a role
// @Tags roles
// @Param id path int true "Role ID"
// @Success 204 {object} nil
// @Router /api/roles/{id} [delete]
func (c *RoleController) DeleteRole(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	if err := c.Service.DeleteRole(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ListPermissions godoc
// @Summary List the permission catalog
// @Tags roles
// @Produce json
// @Success 200 {array} Permission
// @Router /api/permissions [get]
func (c *RoleController) ListPermissions(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.ListPermissions())
}
