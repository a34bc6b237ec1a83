package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/middleware"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// principal returns the authenticated caller. The second return is false
// when the request carries no principal; the caller writes the 401.
func principal(c *fiber.Ctx) (middleware.Principal, bool) {
	return middleware.PrincipalFromCtx(c)
}

// idParam parses the named route parameter as an unsigned id.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func unauthorized(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
}

func badParam(c *fiber.Ctx, name string) error {
	return utils.SendError(c, fiber.StatusBadRequest, "invalid "+name)
}

// validationDetails flattens validator errors into a field → rule map.
func validationDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// handleError maps service errors to HTTP responses. The fallback is a 500
// with a generic message; internal detail never leaks to the client.
func handleError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(verrs))
	}

	var terr *policy.TransitionError
	if errors.As(err, &terr) {
		status := fiber.StatusBadRequest
		if terr.Forbidden {
			status = fiber.StatusForbidden
		}
		return utils.SendError(c, status, terr.Error())
	}

	switch {
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrStudentProfileNotFound),
		errors.Is(err, service.ErrFacultyProfileNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrCertificateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvalidRole):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrFileTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())

	// Duplicate-key races surface the same way as the pre-check: the
	// client sees one "duplicate" rejection regardless of which guard
	// fired first.
	case errors.Is(err, service.ErrDuplicateActivePair),
		errors.Is(err, service.ErrDeadlinePast),
		errors.Is(err, service.ErrInactiveFaculty),
		errors.Is(err, service.ErrUndeletableStatus),
		errors.Is(err, service.ErrDraftNotAllowed),
		errors.Is(err, service.ErrFinalNotAllowed),
		errors.Is(err, service.ErrFinalAlreadyUploaded),
		errors.Is(err, service.ErrTargetLimit),
		errors.Is(err, service.ErrCertificateLimit),
		errors.Is(err, service.ErrEmploymentFields),
		errors.Is(err, service.ErrUnsupportedFileType):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
