package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// StudentInput is one student entry in a class submission.
type StudentInput struct {
	FirstName string
	LastName  string
	Email     string
}

// SubmitIssuanceInput carries all data for a class submission. OwnerID and
// SubmittedBy come from the authenticated caller, never from the body.
type SubmitIssuanceInput struct {
	Program             string
	Site                string
	ClassType           string
	StartDate           string
	EndDate             string
	PrimaryInstructor   string
	SecondaryInstructor string
	OpenEnrollment      bool
	Students            []StudentInput
	OwnerID             string
	SubmittedBy         string
	IdempotencyKey      string
}

// SubmitIssuanceResult is returned after a submission is committed. ClassID
// identifies the class the group was issued for and is generated with the
// group.
type SubmitIssuanceResult struct {
	GroupID       string
	ClassID       string
	CreditsUsed   int
	StudentsCount int
	// AlreadyExisted is true when the Idempotency-Key matched a previously
	// committed group.
	AlreadyExisted bool
}

// GroupDetail is the full view of a committed group.
type GroupDetail struct {
	Group   domain.IssuanceGroup
	Records []domain.IssuedRecord
}

// IssuanceService defines the certification issuance workflow.
type IssuanceService interface {
	Submit(ctx context.Context, input SubmitIssuanceInput) (*SubmitIssuanceResult, error)
	GetGroup(ctx context.Context, groupID string) (*GroupDetail, error)
}
