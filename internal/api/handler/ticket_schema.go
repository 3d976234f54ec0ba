package handler

import "time"

type emailsSentResponse struct {
	Admin bool `json:"admin"`
	User  bool `json:"user"`
}

type createTicketResponse struct {
	TicketNumber string             `json:"ticket_number"`
	TicketID     string             `json:"ticket_id"`
	EmailsSent   emailsSentResponse `json:"emails_sent"`
}

type updateTicketStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type updateTicketStatusResponse struct {
	TicketID  string    `json:"ticket_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type reporterResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ticketResponse struct {
	TicketID      string           `json:"ticket_id"`
	TicketNumber  string           `json:"ticket_number"`
	Type          string           `json:"type"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Reporter      reporterResponse `json:"reporter"`
	AttachmentRef string           `json:"attachment_ref,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
