package ports

import (
	"context"
	"time"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// TicketRepository defines persistence operations for support tickets.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// UpdateStatus overwrites the status and updated_at of an existing
	// ticket. Returns domain.ErrTicketNotFound when no ticket has that id.
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, updatedAt time.Time) error
}
