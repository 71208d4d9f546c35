package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/api/dto"
	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/repository"
	"github.com/lexkit/practice-service/internal/service"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// MeetingsHandler manages consultation scheduling endpoints.
type MeetingsHandler struct {
	service *service.MeetingService
}

// NewMeetingsHandler constructs handler.
func NewMeetingsHandler(meetingService *service.MeetingService) *MeetingsHandler {
	return &MeetingsHandler{service: meetingService}
}

// CreateMeeting POST /meetings.
func (h *MeetingsHandler) CreateMeeting(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" {
		return apperrors.NewValidationError("customer_id required", nil)
	}

	meeting, err := h.service.ScheduleMeeting(c.Context(), viewer.ConsultantID, service.MeetingCreateInput{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		ScheduledAt: req.ScheduledAt,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": meetingResponse(meeting)})
}

// ListMeetings GET /meetings.
func (h *MeetingsHandler) ListMeetings(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	meetings, err := h.service.ListMeetings(c.Context(), viewer, parseMeetingQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		items = append(items, meetingResponse(&meetings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetStatus PATCH /meetings/:id/status.
func (h *MeetingsHandler) SetStatus(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SetMeetingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	meeting, err := h.service.SetStatus(c.Context(), viewer, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meetingResponse(meeting)})
}

func parseMeetingQuery(c *fiber.Ctx) repository.MeetingFilter {
	filter := repository.MeetingFilter{}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.MeetingStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func meetingResponse(m *domain.Meeting) dto.MeetingResponse {
	return dto.MeetingResponse{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Title:       m.Title,
		ScheduledAt: m.ScheduledAt,
		Status:      m.Status,
		AssignedTo:  m.AssignedTo,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
