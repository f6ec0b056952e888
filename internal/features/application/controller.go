package application

import (
	"errors"
	"strconv"

	"go-hr/internal/middleware"
	"go-hr/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ApplicationController struct {
	Service ApplicationService
}

func NewApplicationController(service ApplicationService) *ApplicationController {
	return &ApplicationController{Service: service}
}

type CreateApplicationRequest struct {
	TypeID int64            `json:"typeId" validate:"required"`
	Values []FieldValueBody `json:"values"`
}

type FieldValueBody struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

type TransitionRequest struct {
	Comment string `json:"comment"`
}

type RejectRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type SubmitRequest struct {
	Comment        string `json:"comment"`
	DelegateUserID *int64 `json:"delegateUserId"`
}

type UpdateValuesRequest struct {
	Values  []FieldValueBody `json:"values" validate:"required"`
	Comment string           `json:"comment"`
}

type AddAttachmentRequest struct {
	Name      string `json:"name" validate:"required"`
	URL       string `json:"url" validate:"required"`
	SizeBytes int64  `json:"sizeBytes" validate:"gte=0"`
}

type AssignDelegateRequest struct {
	ForRoleID      int64  `json:"forRoleId" validate:"required"`
	DelegateUserID *int64 `json:"delegateUserId"`
}

// ListApplications godoc
// @Summary List applications visible to the caller
// @Tags applications
// @Produce json
// @Param tab query string false "Tab filter: all, pending, sent, returned"
// @Success 200 {array} ApplicationBundle
// @Router /api/applications [get]
func (c *ApplicationController) ListApplications(ctx *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(ctx)

	tab := ctx.Query("tab", TabAll)
	switch tab {
	case TabAll, TabPending, TabSent, TabReturned:
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tab"})
	}

	bundles, err := c.Service.List(ctx.UserContext(), claims.UserID, claims.RoleID, tab)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(bundles)
}

// GetApplication godoc
// @Summary Get one application bundle
// @Tags applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(ctx)
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application id"})
	}

	bundle, err := c.Service.Get(ctx.UserContext(), id, claims.UserID, claims.RoleID)
	if err != nil {
		return c.renderError(ctx, err)
	}
	return ctx.JSON(bundle)
}

// CreateApplication godoc
// @Summary Create a draft application
// @Tags applications
// @Accept json
// @Produce json
// @Param application body CreateApplicationRequest true "Draft"
// @Success 201 {object} ApplicationBundle
// @Router /api/applications [post]
func (c *ApplicationController) CreateApplication(ctx *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(ctx)

	var input CreateApplicationRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bundle, err := c.Service.Create(ctx.UserContext(), claims.UserID, input.TypeID, toFieldValues(input.Values))
	if err != nil {
		return c.renderError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(bundle)
}

// SubmitApplication godoc
// @Summary Submit a draft into the approval flow
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body SubmitRequest true "Submission"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/submit [post]
func (c *ApplicationController) SubmitApplication(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input SubmitRequest
		if err := ctx.BodyParser(&input); err != nil && len(ctx.Body()) > 0 {
			return nil, errBadBody
		}
		return c.Service.Submit(ctx.UserContext(), id, claims.UserID, input.Comment, input.DelegateUserID)
	})
}

// ApproveApplication godoc
// @Summary Approve the current step
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body TransitionRequest true "Approval"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/approve [post]
func (c *ApplicationController) ApproveApplication(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input TransitionRequest
		if err := ctx.BodyParser(&input); err != nil && len(ctx.Body()) > 0 {
			return nil, errBadBody
		}
		return c.Service.Approve(ctx.UserContext(), id, claims.UserID, input.Comment)
	})
}

// RejectApplication godoc
// @Summary Reject the current step
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body RejectRequest true "Rejection, comment required"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/reject [post]
func (c *ApplicationController) RejectApplication(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input RejectRequest
		if err := ctx.BodyParser(&input); err != nil {
			return nil, errBadBody
		}
		if err := validate.Struct(input); err != nil {
			return nil, errBadBody
		}
		return c.Service.Reject(ctx.UserContext(), id, claims.UserID, input.Comment)
	})
}

// ResendApplication godoc
// @Summary Resend a returned application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body SubmitRequest true "Resubmission"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/resend [post]
func (c *ApplicationController) ResendApplication(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input SubmitRequest
		if err := ctx.BodyParser(&input); err != nil && len(ctx.Body()) > 0 {
			return nil, errBadBody
		}
		return c.Service.Resend(ctx.UserContext(), id, claims.UserID, input.Comment, input.DelegateUserID)
	})
}

// CloseApplication godoc
// @Summary Close an application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body TransitionRequest true "Closing note"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/close [post]
func (c *ApplicationController) CloseApplication(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input TransitionRequest
		if err := ctx.BodyParser(&input); err != nil && len(ctx.Body()) > 0 {
			return nil, errBadBody
		}
		return c.Service.Close(ctx.UserContext(), id, claims.UserID, input.Comment)
	})
}

// UpdateApplicationValues godoc
// @Summary Replace the application's form values
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body UpdateValuesRequest true "Values"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/values [put]
func (c *ApplicationController) UpdateApplicationValues(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input UpdateValuesRequest
		if err := ctx.BodyParser(&input); err != nil {
			return nil, errBadBody
		}
		if err := validate.Struct(input); err != nil {
			return nil, errBadBody
		}
		return c.Service.UpdateValues(ctx.UserContext(), id, claims.UserID, toFieldValues(input.Values), input.Comment)
	})
}

// AddApplicationAttachment godoc
// @Summary Attach a file reference
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body AddAttachmentRequest true "Attachment"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/attachments [post]
func (c *ApplicationController) AddApplicationAttachment(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input AddAttachmentRequest
		if err := ctx.BodyParser(&input); err != nil {
			return nil, errBadBody
		}
		if err := validate.Struct(input); err != nil {
			return nil, errBadBody
		}
		return c.Service.AddAttachment(ctx.UserContext(), id, claims.UserID, AttachmentDraft{
			Name:       input.Name,
			URL:        input.URL,
			UploadedBy: claims.UserID,
			SizeBytes:  input.SizeBytes,
		})
	})
}

// AssignApplicationDelegate godoc
// @Summary Assign or clear a delegate for a flow role
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body AssignDelegateRequest true "Delegate"
// @Success 200 {object} ApplicationBundle
// @Router /api/applications/{id}/delegate [put]
func (c *ApplicationController) AssignApplicationDelegate(ctx *fiber.Ctx) error {
	return c.transition(ctx, func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error) {
		var input AssignDelegateRequest
		if err := ctx.BodyParser(&input); err != nil {
			return nil, errBadBody
		}
		if err := validate.Struct(input); err != nil {
			return nil, errBadBody
		}
		return c.Service.AssignDelegate(ctx.UserContext(), id, claims.UserID, input.ForRoleID, input.DelegateUserID)
	})
}

// ExportApplications godoc
// @Summary Export visible applications as XLSX
// @Tags applications
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/applications/export [get]
func (c *ApplicationController) ExportApplications(ctx *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(ctx)

	data, filename, err := c.Service.ExportExcel(ctx.UserContext(), claims.UserID, claims.RoleID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(data)
}

var errBadBody = errors.New("invalid request body")

// transition factors the id parsing and error mapping shared by every
// state-changing endpoint.
func (c *ApplicationController) transition(ctx *fiber.Ctx, fn func(claims *utils.UserClaims, id int64) (*ApplicationBundle, error)) error {
	claims := middleware.ClaimsFromContext(ctx)
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application id"})
	}

	bundle, err := fn(claims, id)
	if err != nil {
		return c.renderError(ctx, err)
	}
	return ctx.JSON(bundle)
}

func (c *ApplicationController) renderError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBadBody):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	case errors.Is(err, ErrApplicationNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	case errors.Is(err, ErrTypeNotResolved):
		// The type was deleted underneath the bundle; nothing was changed.
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrValidation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotPermitted):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func toFieldValues(body []FieldValueBody) []FieldValue {
	values := make([]FieldValue, 0, len(body))
	for _, item := range body {
		values = append(values, FieldValue{Key: item.Key, Value: item.Value})
	}
	return values
}
