package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/middleware"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

type submissionServiceStub struct {
	createErr error
	updateErr error
	detail    dto.SubmissionDetail
	items     []dto.SubmissionListItem

	gotStatus dto.SubmissionStatusRequest
}

func (s *submissionServiceStub) Create(_ context.Context, _ uint, _ policy.Role, _ dto.SubmissionCreateRequest) (dto.SubmissionDetail, error) {
	if s.createErr != nil {
		return dto.SubmissionDetail{}, s.createErr
	}
	return s.detail, nil
}

func (s *submissionServiceStub) List(_ context.Context, _ uint, _ policy.Role, _ dto.SubmissionFilter) ([]dto.SubmissionListItem, error) {
	return s.items, nil
}

func (s *submissionServiceStub) GetByID(_ context.Context, _ uint, _ uint, _ policy.Role) (dto.SubmissionDetail, error) {
	return s.detail, nil
}

func (s *submissionServiceStub) UpdateStatus(_ context.Context, _ uint, _ uint, _ policy.Role, payload dto.SubmissionStatusRequest) (dto.SubmissionDetail, error) {
	s.gotStatus = payload
	if s.updateErr != nil {
		return dto.SubmissionDetail{}, s.updateErr
	}
	return s.detail, nil
}

func (s *submissionServiceStub) Delete(_ context.Context, _ uint, _ uint, _ policy.Role) error {
	return nil
}

func (s *submissionServiceStub) AlignDraftVersion(_ context.Context, _ uint, _ int) error {
	return nil
}

func newSubmissionApp(stub *submissionServiceStub, asRole policy.Role) *fiber.App {
	app := fiber.New()
	if asRole != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalUserID, uint(10))
			c.Locals(middleware.LocalUserRole, asRole)
			return c.Next()
		})
	}

	h := NewSubmissionHandler(stub)
	app.Post("/submissions", h.Create)
	app.Get("/submissions", h.List)
	app.Get("/submissions/:id", h.Get)
	app.Patch("/submissions/:id/status", h.UpdateStatus)
	app.Delete("/submissions/:id", h.Delete)
	return app
}

func decodeResponse(t *testing.T, body io.Reader) utils.APIResponse {
	t.Helper()
	var out utils.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestSubmissionCreateEndpoint(t *testing.T) {
	stub := &submissionServiceStub{detail: dto.SubmissionDetail{
		SubmissionListItem: dto.SubmissionListItem{ID: 1, Status: policy.StatusSubmitted},
	}}
	app := newSubmissionApp(stub, policy.RoleStudent)

	payload := bytes.NewBufferString(`{"faculty_id":2,"deadline":"2026-06-01T00:00:00Z"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/submissions", payload)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeResponse(t, resp.Body)
	assert.True(t, body.Success)
	assert.Equal(t, "submission created", body.Message)
}

func TestSubmissionCreateWithoutPrincipal(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{}, "")

	req := httptest.NewRequest(fiber.MethodPost, "/submissions", bytes.NewBufferString(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmissionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"duplicate pair", service.ErrDuplicateActivePair, fiber.StatusBadRequest},
		{"past deadline", service.ErrDeadlinePast, fiber.StatusBadRequest},
		{"forbidden", service.ErrForbidden, fiber.StatusForbidden},
		{"missing profile", service.ErrStudentProfileNotFound, fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &submissionServiceStub{createErr: tc.err}
			app := newSubmissionApp(stub, policy.RoleStudent)

			req := httptest.NewRequest(fiber.MethodPost, "/submissions", bytes.NewBufferString(`{"faculty_id":2}`))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			body := decodeResponse(t, resp.Body)
			assert.False(t, body.Success)
			assert.Equal(t, tc.err.Error(), body.Message)
		})
	}
}

func TestSubmissionTransitionErrorMapping(t *testing.T) {
	t.Run("invalid transition is a bad request", func(t *testing.T) {
		stub := &submissionServiceStub{updateErr: &policy.TransitionError{
			From: policy.StatusSubmitted, To: policy.StatusCompleted,
			Reason: "invalid transition: submitted → completed",
		}}
		app := newSubmissionApp(stub, policy.RoleFaculty)

		req := httptest.NewRequest(fiber.MethodPatch, "/submissions/1/status", bytes.NewBufferString(`{"new_status":"completed"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ownership violation is forbidden", func(t *testing.T) {
		stub := &submissionServiceStub{updateErr: &policy.TransitionError{
			From: policy.StatusSubmitted, To: policy.StatusApproved,
			Reason: "faculty can only manage assigned submissions", Forbidden: true,
		}}
		app := newSubmissionApp(stub, policy.RoleFaculty)

		req := httptest.NewRequest(fiber.MethodPatch, "/submissions/1/status", bytes.NewBufferString(`{"new_status":"approved"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestSubmissionStatusPayloadPassthrough(t *testing.T) {
	stub := &submissionServiceStub{}
	app := newSubmissionApp(stub, policy.RoleFaculty)

	req := httptest.NewRequest(fiber.MethodPatch, "/submissions/7/status",
		bytes.NewBufferString(`{"new_status":"resubmission","remark":"expand section 2"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, policy.StatusResubmission, stub.gotStatus.NewStatus)
	assert.Equal(t, "expand section 2", stub.gotStatus.Remark)
}

func TestSubmissionInvalidIDParam(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{}, policy.RoleStudent)

	req := httptest.NewRequest(fiber.MethodGet, "/submissions/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionListMeta(t *testing.T) {
	stub := &submissionServiceStub{items: []dto.SubmissionListItem{{ID: 1}, {ID: 2}}}
	app := newSubmissionApp(stub, policy.RoleAdmin)

	req := httptest.NewRequest(fiber.MethodGet, "/submissions?status=submitted", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp.Body)
	meta, ok := body.Meta.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, meta["count"])
}
