package middleware

import (
	"context"

	"go-hr/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// PermissionChecker is the capability gate of the role feature. Declared here
// so middleware does not depend on the feature package.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleID int64, permissionID string) (bool, error)
}

// RequirePermission checks that the actor's role carries the given permission id
func RequirePermission(checker PermissionChecker, permissionID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: No role assigned",
			})
		}

		hasPermission, err := checker.HasPermission(c.UserContext(), claims.RoleID, permissionID)
		if err != nil || !hasPermission {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Insufficient permissions for this action",
			})
		}

		return c.Next()
	}
}
