package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// CreateTicketInput carries all data for creating a support ticket.
type CreateTicketInput struct {
	Type          string // empty = domain.DefaultTicketType
	Title         string
	Description   string
	ReportedBy    string
	Email         string
	Phone         string
	AttachmentRef string // optional, opaque
}

// EmailsSent reports which notifications were delivered. A false value never
// implies the ticket write failed.
type EmailsSent struct {
	Admin bool
	User  bool
}

// CreateTicketResult is returned after a ticket is created.
type CreateTicketResult struct {
	TicketID     string
	TicketNumber string
	EmailsSent   EmailsSent
}

// TicketService defines the support ticket lifecycle.
type TicketService interface {
	Create(ctx context.Context, input CreateTicketInput) (*CreateTicketResult, error)
	// UpdateStatus sets a new status. Returns domain.ErrInvalidStatus when
	// status is outside the four-value enum; transitions between valid
	// statuses are otherwise unconstrained.
	UpdateStatus(ctx context.Context, ticketID string, status string) (*domain.Ticket, error)
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
}
