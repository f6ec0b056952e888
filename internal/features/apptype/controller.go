package apptype

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type TypeController struct {
	Service TypeService
}

func NewTypeController(service TypeService) *TypeController {
	return &TypeController{Service: service}
}

// CreateType godoc
// @Summary Create a request type
// @Tags application-types
// @Accept json
// @Produce json
// @Param type body ApplicationType true "Type definition"
// @Success 201 {object} ApplicationType
// @Failure 400 {object} map[string]string
// @Router /api/application-types [post]
func (c *TypeController) CreateType(ctx *fiber.Ctx) error {
	var input ApplicationType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateType(ctx.UserContext(), input)
	if err != nil {
		if errors.Is(err, ErrEmptyFlow) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// GetType godoc
// @Summary Get a request type by id
// @Tags application-types
// @Produce json
// @Param id path int true "Type ID"
// @Success 200 {object} ApplicationType
// @Router /api/application-types/{id} [get]
func (c *TypeController) GetType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid type id"})
	}

	t, err := c.Service.GetTypeByID(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application type not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(t)
}

// ListTypes godoc
// @Summary List request types
// @Tags application-types
// @Produce json
// @Success 200 {array} ApplicationType
// @Router /api/application-types [get]
func (c *TypeController) ListTypes(ctx *fiber.Ctx) error {
	types, err := c.Service.ListTypes(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(types)
}

// UpdateType godoc
// @Summary Update a request type
// @Tags application-types
// @Accept json
// @Produce json
// @Param id path int true "Type ID"
// @Param type body ApplicationType true "Type definition"
// @Success 200 {object} ApplicationType
// @Router /api/application-types/{id} [put]
func (c *TypeController) UpdateType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid type id"})
	}

	var input ApplicationType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := c.Service.UpdateType(ctx.UserContext(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrTypeNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application type not found"})
		case errors.Is(err, ErrEmptyFlow):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(updated)
}

// DeleteType godoc
// @Summary Delete a request type
// @Tags application-types
// @Param id path int true "Type ID"
// @Success 204 {object} nil
// @Router /api/application-types/{id} [delete]
func (c *TypeController) DeleteType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid type id"})
	}

	if err := c.Service.DeleteType(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
