package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gradeflow/gradeflow-api/internal/config"
	"github.com/gradeflow/gradeflow-api/internal/handler"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	SubmissionHandler    *handler.SubmissionHandler
	ProfessorFileHandler *handler.ProfessorFileHandler
	EvaluationHandler    *handler.EvaluationHandler
	DashboardHandler     *handler.DashboardHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)

		if deps.EvaluationHandler != nil {
			deps.EvaluationHandler.RegisterSubmissionRoutes(submissions)
		}
	}

	if deps.ProfessorFileHandler != nil {
		files := api.Group("/professor-files", jwtMiddleware, middleware.RequireRole(middleware.RoleProfessor))
		deps.ProfessorFileHandler.Register(files)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware, middleware.RequireRole(middleware.RoleProfessor))
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware, middleware.RequireRole(middleware.RoleProfessor))
		deps.DashboardHandler.Register(dashboard)
	}
}
