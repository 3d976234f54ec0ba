package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coursedesk/credits-system/internal/core/ports"
)

type stubIssuanceService struct {
	submitFn   func(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error)
	getGroupFn func(ctx context.Context, groupID string) (*ports.GroupDetail, error)
}

func (s *stubIssuanceService) Submit(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error) {
	return s.submitFn(ctx, input)
}

func (s *stubIssuanceService) GetGroup(ctx context.Context, groupID string) (*ports.GroupDetail, error) {
	return s.getGroupFn(ctx, groupID)
}

const submitBody = `{
	"program": "CPI-FA-2020",
	"site": "Main Campus",
	"class_type": "initial",
	"start_date": "2026-03-01",
	"end_date": "2026-03-02",
	"primary_instructor": "Jordan Rivera",
	"students": [
		{"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"}
	]
}`

func submitContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/issuances", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-42")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")
	c.Set("email", "owner@example.com")
	return c, rec
}

func TestIssuanceHandler_Submit_Success(t *testing.T) {
	stub := &stubIssuanceService{
		submitFn: func(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error) {
			// Identity and idempotency key must come from auth context and
			// header, never from the body.
			if input.OwnerID != "user_1" || input.SubmittedBy != "owner@example.com" {
				t.Fatalf("unexpected identity: %s %s", input.OwnerID, input.SubmittedBy)
			}
			if input.IdempotencyKey != "key-42" {
				t.Fatalf("idempotency key not forwarded: %q", input.IdempotencyKey)
			}
			if len(input.Students) != 1 || input.Students[0].Email != "ada@example.com" {
				t.Fatalf("unexpected students: %+v", input.Students)
			}
			return &ports.SubmitIssuanceResult{GroupID: "DC-X-Y", ClassID: "cls-1", CreditsUsed: 1, StudentsCount: 1}, nil
		},
	}
	handler := NewIssuanceHandler(stub)

	c, rec := submitContext(t, submitBody)
	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["group_id"] != "DC-X-Y" || resp["credits_used"] != float64(1) {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp["class_id"] != "cls-1" {
		t.Errorf("class_id missing from payload: %+v", resp)
	}
}

func TestIssuanceHandler_Submit_ReplayReturnsOK(t *testing.T) {
	stub := &stubIssuanceService{
		submitFn: func(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error) {
			return &ports.SubmitIssuanceResult{GroupID: "DC-X-Y", CreditsUsed: 1, StudentsCount: 1, AlreadyExisted: true}, nil
		},
	}
	handler := NewIssuanceHandler(stub)

	c, rec := submitContext(t, submitBody)
	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for idempotent replay, got %d", rec.Code)
	}
}

func TestIssuanceHandler_Submit_MissingIdentity(t *testing.T) {
	stub := &stubIssuanceService{
		submitFn: func(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewIssuanceHandler(stub)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/issuances", strings.NewReader(submitBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Submit(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
