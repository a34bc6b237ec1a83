package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// FacultyProfileHandler exposes faculty profile endpoints and the public
// directory.
type FacultyProfileHandler struct {
	profiles service.FacultyProfileService
}

// NewFacultyProfileHandler constructs a FacultyProfileHandler.
func NewFacultyProfileHandler(profiles service.FacultyProfileService) *FacultyProfileHandler {
	return &FacultyProfileHandler{profiles: profiles}
}

// Get returns the caller's faculty profile.
func (h *FacultyProfileHandler) Get(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.profiles.GetOwn(c.UserContext(), p.UserID)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

// Update changes the caller's designation.
func (h *FacultyProfileHandler) Update(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var payload dto.FacultyUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.UpdateOwn(c.UserContext(), p.UserID, payload)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendSuccess(c, "profile updated", profile)
}

// Directory lists active faculty for submission targeting.
func (h *FacultyProfileHandler) Directory(c *fiber.Ctx) error {
	entries, err := h.profiles.ListDirectory(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return utils.OK(c, entries, "faculty directory retrieved", fiber.Map{"count": len(entries)})
}
