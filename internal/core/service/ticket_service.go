package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coursedesk/credits-system/internal/api/metrics"
	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
)

type TicketService struct {
	repo     ports.TicketRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewTicketService(repo ports.TicketRepository, notifier ports.Notifier, logger zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, notifier: notifier, logger: logger}
}

// Create writes a new ticket with status "open" and then fires both email
// notifications. Notification failures are logged and reported as booleans;
// they never roll back or fail the ticket write.
func (s *TicketService) Create(ctx context.Context, input ports.CreateTicketInput) (*ports.CreateTicketResult, error) {
	if err := validateTicket(input); err != nil {
		return nil, err
	}

	ticketType := input.Type
	if ticketType == "" {
		ticketType = domain.DefaultTicketType
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:           uuid.NewString(),
		TicketNumber: domain.NewID(domain.TicketIDPrefix),
		Type:         ticketType,
		Title:        input.Title,
		Description:  input.Description,
		Reporter: domain.Reporter{
			Name:  input.ReportedBy,
			Email: input.Email,
			Phone: input.Phone,
		},
		AttachmentRef: input.AttachmentRef,
		Status:        domain.TicketOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, ticket); err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	metrics.TicketsCreatedTotal.WithLabelValues(ticket.Type).Inc()

	result := &ports.CreateTicketResult{
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
	}
	result.EmailsSent.Admin = s.notify(ctx, "admin", ticket, s.notifier.NotifyAdmin)
	result.EmailsSent.User = s.notify(ctx, "reporter", ticket, s.notifier.NotifyReporter)

	s.logger.Info().
		Str("ticket_number", ticket.TicketNumber).
		Str("type", ticket.Type).
		Bool("admin_notified", result.EmailsSent.Admin).
		Bool("reporter_notified", result.EmailsSent.User).
		Msg("ticket created")

	return result, nil
}

func (s *TicketService) notify(ctx context.Context, recipient string, ticket *domain.Ticket, send func(context.Context, *domain.Ticket) error) bool {
	if err := send(ctx, ticket); err != nil {
		metrics.NotificationsTotal.WithLabelValues(recipient, "failed").Inc()
		s.logger.Warn().Err(err).
			Str("ticket_number", ticket.TicketNumber).
			Str("recipient", recipient).
			Msg("ticket notification failed")
		return false
	}
	metrics.NotificationsTotal.WithLabelValues(recipient, "sent").Inc()
	return true
}

// UpdateStatus overwrites the ticket's status. Any status in the four-value
// enum may replace any other; values outside it are rejected.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status string) (*domain.Ticket, error) {
	newStatus := domain.TicketStatus(status)
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, ticketID, newStatus, now); err != nil {
		return nil, err
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("ticket_id", ticketID).
		Str("status", status).
		Msg("ticket status updated")

	return ticket, nil
}

// Get returns a ticket by id.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.repo.FindByID(ctx, ticketID)
}

func validateTicket(input ports.CreateTicketInput) error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"title", input.Title},
		{"description", input.Description},
		{"reported_by", input.ReportedBy},
		{"email", input.Email},
		{"phone", input.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}
