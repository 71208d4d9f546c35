package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/api/dto"
	"github.com/lexkit/practice-service/internal/auth"
	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/repository"
	"github.com/lexkit/practice-service/internal/service"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// CustomersHandler manages lead and client endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.service.CreateCustomer(c.Context(), viewer.ConsultantID, service.CustomerCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Services: req.Services,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	customers, err := h.service.ListCustomers(c.Context(), viewer, parseCustomerQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListConfirmedClients GET /customers/confirmed.
func (h *CustomersHandler) ListConfirmedClients(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	customers, err := h.service.ListConfirmedClients(c.Context(), viewer)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	customer, err := h.service.GetCustomer(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// UpdateCustomer PATCH /customers/:id.
func (h *CustomersHandler) UpdateCustomer(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.service.UpdateCustomer(c.Context(), viewer, c.Params("id"), service.CustomerPatch{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Services:        req.Services,
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		FollowUpDate:    req.FollowUpDate,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// AdvanceCustomer POST /customers/:id/advance.
func (h *CustomersHandler) AdvanceCustomer(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AdvanceCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, advanced, err := h.service.AdvanceCustomer(c.Context(), viewer, c.Params("id"), req.Version)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdvanceCustomerResponse{
		Customer: customerResponse(customer),
		Advanced: advanced,
	}})
}

// GetHistory GET /customers/:id/history.
func (h *CustomersHandler) GetHistory(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	if _, err := h.service.GetCustomer(c.Context(), viewer, c.Params("id")); err != nil {
		return err
	}
	entries, err := h.service.GetHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.StatusHistoryResponse{
			ID:        entry.ID,
			Status:    entry.Status,
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseCustomerQuery(c *fiber.Ctx) repository.CustomerFilter {
	filter := repository.CustomerFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.CustomerStatus(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:               customer.ID,
		Name:             customer.Name,
		Email:            customer.Email,
		Phone:            customer.Phone,
		Services:         customer.Services,
		Status:           customer.Status,
		AssignedTo:       customer.AssignedTo,
		FollowUpDate:     customer.FollowUpDate,
		Version:          customer.Version,
		LastStatusChange: customer.LastStatusChange,
		CreatedAt:        customer.CreatedAt,
		UpdatedAt:        customer.UpdatedAt,
	}
}

// viewerFromContext derives the viewer capability object from the
// authenticated principal. The optional case_type query narrows case
// visibility for this request.
func viewerFromContext(c *fiber.Ctx) (domain.ViewerContext, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Consultant == nil {
		return domain.ViewerContext{}, apperrors.NewUnauthorized("consultant required")
	}
	return principal.Viewer(strings.TrimSpace(c.Query("case_type"))), nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
