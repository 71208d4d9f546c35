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

// CasesHandler manages matter endpoints.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

// CreateCase POST /cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" {
		return apperrors.NewValidationError("customer_id required", nil)
	}

	created, err := h.service.CreateCase(c.Context(), viewer.ConsultantID, service.CaseCreateInput{
		CustomerID: req.CustomerID,
		Title:      req.Title,
		CaseType:   req.CaseType,
		Deadline:   req.Deadline,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": caseResponse(created)})
}

// ListCases GET /cases.
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	cases, err := h.service.ListCases(c.Context(), viewer, parseCaseQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		items = append(items, caseResponse(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCase GET /cases/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	found, err := h.service.GetCase(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(found)})
}

// ChangeState POST /cases/:id/state.
func (h *CasesHandler) ChangeState(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ChangeCaseStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.State == "" {
		return apperrors.NewValidationError("state required", nil)
	}

	updated, err := h.service.ChangeState(c.Context(), viewer, c.Params("id"), req.State)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(updated)})
}

// SetReady PATCH /cases/:id/ready.
func (h *CasesHandler) SetReady(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SetCaseReadyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.service.ToggleReadyForWork(c.Context(), viewer, c.Params("id"), req.Ready)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(updated)})
}

// GetHistory GET /cases/:id/history.
func (h *CasesHandler) GetHistory(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	if _, err := h.service.GetCase(c.Context(), viewer, c.Params("id")); err != nil {
		return err
	}
	entries, err := h.service.GetHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CaseHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.CaseHistoryResponse{
			ID:        entry.ID,
			FromState: entry.FromState,
			ToState:   entry.ToState,
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseCaseQuery(c *fiber.Ctx) repository.CaseFilter {
	filter := repository.CaseFilter{}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if stateStr := c.Query("state"); stateStr != "" {
		for _, part := range strings.Split(stateStr, ",") {
			filter.States = append(filter.States, domain.CaseState(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func caseResponse(cs *domain.Case) dto.CaseResponse {
	return dto.CaseResponse{
		ID:              cs.ID,
		CustomerID:      cs.CustomerID,
		Title:           cs.Title,
		CaseType:        cs.CaseType,
		State:           cs.State,
		LastStateChange: cs.LastStateChange,
		Deadline:        cs.Deadline,
		ReadyForWork:    cs.ReadyForWork,
		Priority:        cs.Priority,
		AssignedTo:      cs.AssignedTo,
		CreatedAt:       cs.CreatedAt,
		UpdatedAt:       cs.UpdatedAt,
	}
}
