package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
)

type stubTicketService struct {
	createFn       func(ctx context.Context, input ports.CreateTicketInput) (*ports.CreateTicketResult, error)
	updateStatusFn func(ctx context.Context, ticketID, status string) (*domain.Ticket, error)
	getFn          func(ctx context.Context, ticketID string) (*domain.Ticket, error)
}

func (s *stubTicketService) Create(ctx context.Context, input ports.CreateTicketInput) (*ports.CreateTicketResult, error) {
	return s.createFn(ctx, input)
}

func (s *stubTicketService) UpdateStatus(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
	return s.updateStatusFn(ctx, ticketID, status)
}

func (s *stubTicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getFn(ctx, ticketID)
}

func multipartTicketBody(t *testing.T, fields map[string]string, attachment string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if attachment != "" {
		fw, err := w.CreateFormFile("attachment", attachment)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("file-content")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestTicketHandler_Create_Success(t *testing.T) {
	e := echo.New()
	stub := &stubTicketService{
		createFn: func(ctx context.Context, input ports.CreateTicketInput) (*ports.CreateTicketResult, error) {
			if input.Title != "Broken link" || input.Email != "sam@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.AttachmentRef != "screenshot.png" {
				t.Fatalf("expected attachment ref, got %q", input.AttachmentRef)
			}
			return &ports.CreateTicketResult{
				TicketID:     "id-1",
				TicketNumber: "TK-ABC-123",
				EmailsSent:   ports.EmailsSent{Admin: true, User: false},
			}, nil
		},
	}
	handler := NewTicketHandler(stub)

	body, contentType := multipartTicketBody(t, map[string]string{
		"title":       "Broken link",
		"description": "The certificate link 404s.",
		"reported_by": "Sam",
		"email":       "sam@example.com",
		"phone":       "555-0101",
	}, "screenshot.png")

	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["ticket_number"] != "TK-ABC-123" {
		t.Errorf("unexpected ticket number: %v", resp["ticket_number"])
	}
	emails, ok := resp["emails_sent"].(map[string]any)
	if !ok || emails["admin"] != true || emails["user"] != false {
		t.Errorf("unexpected emails_sent payload: %+v", resp["emails_sent"])
	}
}

func TestTicketHandler_Create_NoAttachment(t *testing.T) {
	e := echo.New()
	stub := &stubTicketService{
		createFn: func(ctx context.Context, input ports.CreateTicketInput) (*ports.CreateTicketResult, error) {
			if input.AttachmentRef != "" {
				t.Fatalf("expected empty attachment ref, got %q", input.AttachmentRef)
			}
			return &ports.CreateTicketResult{TicketID: "id-2", TicketNumber: "TK-DEF-456"}, nil
		},
	}
	handler := NewTicketHandler(stub)

	body, contentType := multipartTicketBody(t, map[string]string{
		"title":       "No file here",
		"description": "desc",
		"reported_by": "Sam",
		"email":       "sam@example.com",
		"phone":       "555-0101",
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestTicketHandler_UpdateStatus_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	updatedAt := time.Now().UTC()
	stub := &stubTicketService{
		updateStatusFn: func(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
			if ticketID != "id-1" || status != "resolved" {
				t.Fatalf("unexpected args: %s %s", ticketID, status)
			}
			return &domain.Ticket{ID: "id-1", Status: domain.TicketResolved, UpdatedAt: updatedAt}, nil
		},
	}
	handler := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/v1/tickets/id-1/status", strings.NewReader(`{"status":"resolved"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "resolved" {
		t.Errorf("unexpected status: %v", resp["status"])
	}
}

func TestTicketHandler_UpdateStatus_MissingStatus(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubTicketService{
		updateStatusFn: func(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/v1/tickets/id-1/status", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	err := handler.UpdateStatus(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestTicketHandler_Get_PropagatesNotFound(t *testing.T) {
	e := echo.New()
	stub := &stubTicketService{
		getFn: func(ctx context.Context, ticketID string) (*domain.Ticket, error) {
			return nil, domain.ErrTicketNotFound
		},
	}
	handler := NewTicketHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tickets/ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := handler.Get(c); err != domain.ErrTicketNotFound {
		t.Fatalf("expected ErrTicketNotFound to propagate, got %v", err)
	}
}
