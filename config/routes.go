package config

import (
	"github.com/labstack/echo/v4"

	"promptdeck/app"
	"promptdeck/app/controller/endpoints"
	"promptdeck/app/controller/health"
	"promptdeck/app/controller/prompts"
	"promptdeck/app/controller/tasks"
)

func AddRoutes(e *echo.Echo, container *app.Container) {
	root := e.Group("")
	health.Register(root)

	// Initialize handlers with dependencies
	tasksHandler := tasks.NewHandler(container.Tasks, container.Endpoints, container.Executor, container.Sessions)
	endpointsHandler := endpoints.NewHandler(container.Endpoints)
	promptsHandler := prompts.NewHandler()

	tasksHandler.RegisterRoutes(e.Group("/api/v1/tasks"))
	endpointsHandler.RegisterRoutes(e.Group("/api/v1/endpoints"))
	promptsHandler.RegisterRoutes(e.Group("/api/v1/prompts"))
}
