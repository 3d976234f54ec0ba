// Package notify implements ports.Notifier over SMTP. Without an SMTP host
// configured it degrades to logging each message, which keeps local
// development and tests free of a mail server.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// Config captures the mailer settings.
type Config struct {
	Host       string // empty = log-only stub
	Port       string
	From       string
	AdminEmail string
}

type Mailer struct {
	cfg Config
	log zerolog.Logger
}

func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// NotifyAdmin informs the support inbox that a ticket was created.
func (m *Mailer) NotifyAdmin(ctx context.Context, ticket *domain.Ticket) error {
	subject := fmt.Sprintf("[%s] New ticket: %s", ticket.TicketNumber, ticket.Title)
	body := fmt.Sprintf(
		"Ticket %s (%s) was created by %s <%s>.\n\n%s\n",
		ticket.TicketNumber, ticket.Type, ticket.Reporter.Name, ticket.Reporter.Email, ticket.Description,
	)
	return m.send(ctx, m.cfg.AdminEmail, subject, body)
}

// NotifyReporter acknowledges receipt to the person who filed the ticket.
func (m *Mailer) NotifyReporter(ctx context.Context, ticket *domain.Ticket) error {
	subject := fmt.Sprintf("We received your request (%s)", ticket.TicketNumber)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour request %q was received and assigned number %s. We will follow up by email.\n",
		ticket.Reporter.Name, ticket.Title, ticket.TicketNumber,
	)
	return m.send(ctx, ticket.Reporter.Email, subject, body)
}

func (m *Mailer) send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	if m.cfg.Host == "" {
		m.log.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("smtp not configured, notification logged only")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.cfg.From, to, subject, body)
	addr := m.cfg.Host + ":" + m.cfg.Port
	return smtp.SendMail(addr, nil, m.cfg.From, []string{to}, []byte(msg))
}
