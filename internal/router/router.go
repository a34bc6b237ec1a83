package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/config"
	"github.com/noah-isme/lor-tracker-api/internal/handler"
	"github.com/noah-isme/lor-tracker-api/internal/middleware"
	"github.com/noah-isme/lor-tracker-api/internal/observability"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler         *handler.HealthHandler
	SubmissionHandler     *handler.SubmissionHandler
	FileHandler           *handler.FileHandler
	StudentProfileHandler *handler.StudentProfileHandler
	FacultyProfileHandler *handler.FacultyProfileHandler
	NotificationHandler   *handler.NotificationHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.HealthHandler != nil {
		api.Get("/health", deps.HealthHandler.Check)
	}
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	studentOnly := middleware.RequireRole(policy.RoleStudent, policy.RoleAlumni)
	facultyOnly := middleware.RequireRole(policy.RoleFaculty)

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		submissions.Post("/", studentOnly, deps.SubmissionHandler.Create)
		submissions.Get("/", deps.SubmissionHandler.List)
		submissions.Get("/:id", deps.SubmissionHandler.Get)
		submissions.Patch("/:id/status", deps.SubmissionHandler.UpdateStatus)
		submissions.Delete("/:id", studentOnly, deps.SubmissionHandler.Delete)

		if deps.FileHandler != nil {
			submissions.Get("/:id/files", deps.FileHandler.ListForSubmission)
			submissions.Post("/:id/files/draft", studentOnly, deps.FileHandler.UploadDraft)
			submissions.Post("/:id/files/final", facultyOnly, deps.FileHandler.UploadFinal)
		}
	}

	if deps.FileHandler != nil {
		files := api.Group("/files", jwtMiddleware)
		files.Post("/certificates", studentOnly, deps.FileHandler.UploadCertificate)
		files.Get("/:id/download", deps.FileHandler.Download)
	}

	if deps.StudentProfileHandler != nil {
		profile := api.Group("/students/me", jwtMiddleware, studentOnly)
		profile.Get("/", deps.StudentProfileHandler.Get)
		profile.Put("/employment", deps.StudentProfileHandler.UpdateEmployment)
		profile.Post("/targets", deps.StudentProfileHandler.AddTargetUniversity)
		profile.Delete("/targets/:targetId", deps.StudentProfileHandler.RemoveTargetUniversity)
		profile.Post("/certificates", deps.StudentProfileHandler.AddCertificate)
		profile.Delete("/certificates/:certificateId", deps.StudentProfileHandler.RemoveCertificate)
	}

	if deps.FacultyProfileHandler != nil {
		api.Get("/faculty", jwtMiddleware, deps.FacultyProfileHandler.Directory)

		faculty := api.Group("/faculty/me", jwtMiddleware, facultyOnly)
		faculty.Get("/", deps.FacultyProfileHandler.Get)
		faculty.Put("/", deps.FacultyProfileHandler.Update)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		notifications.Get("/", deps.NotificationHandler.List)
		notifications.Patch("/:id/read", deps.NotificationHandler.MarkRead)
	}
}
