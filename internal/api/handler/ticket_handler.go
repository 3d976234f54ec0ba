package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
)

// TicketHandler handles HTTP requests for support tickets.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Create handles POST /v1/tickets (multipart form).
//
// @Summary      Create a support ticket
// @Tags         tickets
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Ticket title"
// @Param        description  formData  string  true   "Problem description"
// @Param        reported_by  formData  string  true   "Reporter name"
// @Param        email        formData  string  true   "Reporter email"
// @Param        phone        formData  string  true   "Reporter phone"
// @Param        type         formData  string  false  "Ticket type (default: General Request)"
// @Param        attachment   formData  file    false  "Optional attachment"
// @Success      201          {object}  createTicketResponse
// @Failure      422          {object}  errorResponse  "lists every missing field"
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	input := ports.CreateTicketInput{
		Type:        c.FormValue("type"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		ReportedBy:  c.FormValue("reported_by"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
	}

	// Attachment is optional; file storage lives elsewhere, only the opaque
	// reference is kept.
	if file, err := c.FormFile("attachment"); err == nil && file != nil {
		input.AttachmentRef = file.Filename
	}

	result, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createTicketResponse{
		TicketNumber: result.TicketNumber,
		TicketID:     result.TicketID,
		EmailsSent: emailsSentResponse{
			Admin: result.EmailsSent.Admin,
			User:  result.EmailsSent.User,
		},
	})
}

// UpdateStatus handles PATCH /v1/tickets/:id/status.
//
// @Summary      Update a ticket's status
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Ticket id"
// @Param        body  body      updateTicketStatusRequest  true  "New status (open, in_progress, resolved, closed)"
// @Success      200   {object}  updateTicketStatusResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	var req updateTicketStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ticket, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateTicketStatusResponse{
		TicketID:  ticket.ID,
		Status:    string(ticket.Status),
		UpdatedAt: ticket.UpdatedAt,
	})
}

// Get handles GET /v1/tickets/:id.
//
// @Summary      Get a ticket by id
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  ticketResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	ticket, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		TicketID:     t.ID,
		TicketNumber: t.TicketNumber,
		Type:         t.Type,
		Title:        t.Title,
		Description:  t.Description,
		Reporter: reporterResponse{
			Name:  t.Reporter.Name,
			Email: t.Reporter.Email,
			Phone: t.Reporter.Phone,
		},
		AttachmentRef: t.AttachmentRef,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
