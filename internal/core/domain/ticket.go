package domain

import "time"

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the four accepted statuses. Transitions
// between statuses are intentionally unconstrained: any valid status may
// replace any other at any time.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// DefaultTicketType is applied when a ticket is created without a type.
const DefaultTicketType = "General Request"

// Reporter holds the contact details of the person who filed a ticket.
type Reporter struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Ticket is a support request. Status is the only mutable field.
type Ticket struct {
	ID            string       `json:"id" bson:"_id"`
	TicketNumber  string       `json:"ticket_number" bson:"ticket_number"`
	Type          string       `json:"type" bson:"type"`
	Title         string       `json:"title" bson:"title"`
	Description   string       `json:"description" bson:"description"`
	Reporter      Reporter     `json:"reporter" bson:"reporter"`
	AttachmentRef string       `json:"attachment_ref,omitempty" bson:"attachment_ref,omitempty"`
	Status        TicketStatus `json:"status" bson:"status"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}
