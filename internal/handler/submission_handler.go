package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// SubmissionHandler exposes the submission lifecycle over HTTP.
type SubmissionHandler struct {
	submissions service.SubmissionService
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(submissions service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Create opens a new LoR submission for the authenticated student.
func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	detail, err := h.submissions.Create(c.UserContext(), p.UserID, p.Role, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "submission created", detail)
}

// List returns the caller's role-scoped submissions.
func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var filter dto.SubmissionFilter
	if raw := c.Query("status"); raw != "" {
		status := policy.Status(raw)
		filter.Status = &status
	}
	if raw := c.Query("is_active"); raw != "" {
		isActive := raw == "true"
		filter.IsActive = &isActive
	}

	items, err := h.submissions.List(c.UserContext(), p.UserID, p.Role, filter)
	if err != nil {
		return handleError(c, err)
	}

	return utils.OK(c, items, "submissions retrieved", fiber.Map{"count": len(items)})
}

// Get returns one submission with its full audit trail.
func (h *SubmissionHandler) Get(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	detail, err := h.submissions.GetByID(c.UserContext(), id, p.UserID, p.Role)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", detail)
}

// UpdateStatus applies one lifecycle transition.
func (h *SubmissionHandler) UpdateStatus(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	var payload dto.SubmissionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	detail, err := h.submissions.UpdateStatus(c.UserContext(), id, p.UserID, p.Role, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "status updated", detail)
}

// Delete soft-deletes the caller's submission.
func (h *SubmissionHandler) Delete(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	if err := h.submissions.Delete(c.UserContext(), id, p.UserID, p.Role); err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "submission deleted", nil)
}
