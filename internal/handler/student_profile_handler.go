package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// StudentProfileHandler exposes the student's own profile endpoints.
type StudentProfileHandler struct {
	profiles service.StudentProfileService
}

// NewStudentProfileHandler constructs a StudentProfileHandler.
func NewStudentProfileHandler(profiles service.StudentProfileService) *StudentProfileHandler {
	return &StudentProfileHandler{profiles: profiles}
}

// Get returns the caller's profile.
func (h *StudentProfileHandler) Get(c *fiber.Ctx) error {
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

// UpdateEmployment replaces the embedded employment record.
func (h *StudentProfileHandler) UpdateEmployment(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var payload dto.EmploymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.UpdateEmployment(c.UserContext(), p.UserID, payload)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendSuccess(c, "employment updated", profile)
}

// AddTargetUniversity appends a target to the bounded list.
func (h *StudentProfileHandler) AddTargetUniversity(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var payload dto.TargetUniversityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.AddTargetUniversity(c.UserContext(), p.UserID, payload)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendCreated(c, "target university added", profile)
}

// RemoveTargetUniversity removes a target by its entry id.
func (h *StudentProfileHandler) RemoveTargetUniversity(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.profiles.RemoveTargetUniversity(c.UserContext(), p.UserID, c.Params("targetId"))
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendSuccess(c, "target university removed", profile)
}

// AddCertificate links an uploaded certificate file to the profile.
func (h *StudentProfileHandler) AddCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var payload dto.CertificateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.AddCertificate(c.UserContext(), p.UserID, payload)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendCreated(c, "certificate added", profile)
}

// RemoveCertificate removes a certificate entry.
func (h *StudentProfileHandler) RemoveCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.profiles.RemoveCertificate(c.UserContext(), p.UserID, c.Params("certificateId"))
	if err != nil {
		return handleError(c, err)
	}
	return utils.SendSuccess(c, "certificate removed", profile)
}
