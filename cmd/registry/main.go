package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/repository"
	"github.com/asaase-aban/registry/cmd/registry/routes"
	"github.com/asaase-aban/registry/common/bootstrap"
	"github.com/asaase-aban/registry/common/db"
	"github.com/asaase-aban/registry/common/metrics"
	commonmw "github.com/asaase-aban/registry/common/middleware"
	"github.com/asaase-aban/registry/common/ratelimit"
	"github.com/asaase-aban/registry/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (DB, logger, queue, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "registry",
		bootstrap.WithDBInitHook(func(database *db.DB) error {
			return repository.InitSchema(ctx, database)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap registry: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	sys := metrics.Capture()
	components.Logger.Info("Runtime environment",
		"os", sys.OSVersion,
		"arch", sys.Arch,
		"cpus", sys.CPULogical,
		"memory_mb", sys.TotalMemoryMB,
		"go", sys.GoVersion,
		"container", sys.InContainer,
	)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(ctx, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e, serviceContainer)

	// Setup health check
	setupHealthCheck(e, components)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start server with graceful shutdown
	srv := server.New("registry", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, c *container.Container) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(commonmw.GlobalRateLimitMiddleware(c.RateLimiter, ratelimit.DefaultGlobalConfig.Limit))
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status": "unhealthy",
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "registry",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterLandRoutes(e, serviceContainer)
	routes.RegisterAdminRoutes(e, serviceContainer)
	routes.RegisterTransferRoutes(e, serviceContainer)
	routes.RegisterUserRoutes(e, serviceContainer)
	routes.RegisterDocumentRoutes(e, serviceContainer)
}
