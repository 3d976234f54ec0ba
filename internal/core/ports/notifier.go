package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// Notifier delivers fire-and-forget email notifications. Implementations may
// be stubs; callers must treat failures as non-fatal.
type Notifier interface {
	// NotifyAdmin informs the support inbox that a ticket was created.
	NotifyAdmin(ctx context.Context, ticket *domain.Ticket) error
	// NotifyReporter acknowledges receipt to the person who filed the ticket.
	NotifyReporter(ctx context.Context, ticket *domain.Ticket) error
}
