package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-hr/internal/common/api"
	"go-hr/internal/config"
	"go-hr/internal/database"
	"go-hr/internal/features/application"
	"go-hr/internal/features/apptype"
	"go-hr/internal/features/auth"
	"go-hr/internal/features/role"
	"go-hr/internal/features/user"
	"go-hr/internal/logger"
	"go-hr/internal/middleware"
	"go-hr/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			role.NewRoleRepository,
			user.NewUserRepository,
			apptype.NewTypeRepository,
			application.NewBundleRepository,

			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			apptype.NewTypeService,
			application.NewApplicationService,

			role.NewRoleController,
			user.NewUserController,
			auth.NewAuthController,
			apptype.NewTypeController,
			application.NewApplicationController,

			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(apptype.NewTypeApi),
			AsRoute(application.NewApplicationApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			application.NewSweeper,
		),
	)

	app.Run()
}
