package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coursedesk/credits-system/internal/api/metrics"
	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
)

// SubmissionGuard abstracts the short-lived idempotency claim store (Redis).
// It blocks two in-flight submissions carrying the same key; committed
// submissions are replayed from the store instead.
type SubmissionGuard interface {
	// Claim returns false when another submission already holds the key.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type IssuanceService struct {
	repo   ports.IssuanceRepository
	guard  SubmissionGuard
	logger zerolog.Logger
}

func NewIssuanceService(repo ports.IssuanceRepository, guard SubmissionGuard, logger zerolog.Logger) *IssuanceService {
	return &IssuanceService{repo: repo, guard: guard, logger: logger}
}

// Submit turns a class submission into a locked issuance group plus one
// issued record per student, charging one credit per student against the
// owner's aggregate balance. The sufficiency check, the group and record
// inserts, and the balance decrement are committed as one transaction, so a
// failed submission leaves no trace and two concurrent submissions cannot
// overdraw the same balance.
func (s *IssuanceService) Submit(ctx context.Context, input ports.SubmitIssuanceInput) (*ports.SubmitIssuanceResult, error) {
	started := time.Now()

	if err := validateSubmission(input); err != nil {
		metrics.IssuanceErrorsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	// Idempotent replay: a key that already produced a group returns that
	// group without side effects.
	claimed := false
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindGroupByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().
				Str("idempotency_key", input.IdempotencyKey).
				Str("group_id", existing.GroupID).
				Msg("idempotent replay")
			return replayResult(existing), nil
		}

		ok, claimErr := s.guard.Claim(ctx, input.IdempotencyKey)
		if claimErr != nil {
			s.logger.Warn().Err(claimErr).Str("idempotency_key", input.IdempotencyKey).
				Msg("idempotency claim failed, proceeding anyway")
		} else if !ok {
			metrics.IssuanceErrorsTotal.WithLabelValues("duplicate_in_flight").Inc()
			return nil, domain.ErrSubmissionInFlight
		} else {
			claimed = true
		}
	}

	now := time.Now().UTC()
	group := &domain.IssuanceGroup{
		GroupID:             domain.NewID(domain.GroupIDPrefix),
		ClassID:             uuid.NewString(),
		Program:             input.Program,
		Site:                input.Site,
		ClassType:           input.ClassType,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		PrimaryInstructor:   input.PrimaryInstructor,
		SecondaryInstructor: input.SecondaryInstructor,
		OpenEnrollment:      input.OpenEnrollment,
		IsLocked:            true,
		CreditsUsed:         len(input.Students),
		SubmittedBy:         input.SubmittedBy,
		OwnerID:             input.OwnerID,
		IdempotencyKey:      input.IdempotencyKey,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	records := make([]domain.IssuedRecord, 0, len(input.Students))
	for i, st := range input.Students {
		records = append(records, domain.IssuedRecord{
			GroupID:        group.GroupID,
			FirstName:      st.FirstName,
			LastName:       st.LastName,
			Email:          st.Email,
			CertificateRef: fmt.Sprintf("certificates/%s/%03d.pdf", group.GroupID, i+1),
			CreatedAt:      now,
		})
	}

	if err := s.repo.CommitIssuance(ctx, group, records); err != nil {
		if claimed {
			if relErr := s.guard.Release(ctx, input.IdempotencyKey); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", input.IdempotencyKey).
					Msg("failed to release idempotency claim")
			}
		}

		// A unique index on idempotency_key aborts the transaction when a
		// concurrent submission with the same key committed first (the replay
		// check above can miss it when the Redis claim is unavailable). Treat
		// it like a replay: fetch and return the committed group.
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicateSubmission) {
			existing, findErr := s.repo.FindGroupByIdempotencyKey(ctx, input.IdempotencyKey)
			if findErr == nil {
				s.logger.Info().
					Str("idempotency_key", input.IdempotencyKey).
					Str("group_id", existing.GroupID).
					Msg("concurrent duplicate resolved as replay")
				return replayResult(existing), nil
			}
			s.logger.Error().Err(findErr).Str("idempotency_key", input.IdempotencyKey).
				Msg("duplicate submission detected but replay fetch failed")
		}

		var insufficient *domain.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			metrics.IssuanceErrorsTotal.WithLabelValues("insufficient_credits").Inc()
			s.logger.Info().
				Str("owner_id", input.OwnerID).
				Int("available", insufficient.Available).
				Int("required", insufficient.Required).
				Msg("submission rejected: insufficient credits")
			return nil, err
		}

		metrics.IssuanceErrorsTotal.WithLabelValues("commit_failed").Inc()
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to commit issuance")
		return nil, fmt.Errorf("submit issuance: %w", err)
	}

	metrics.IssuancesTotal.Inc()
	metrics.CreditsDeductedTotal.Add(float64(group.CreditsUsed))
	metrics.IssuanceDuration.Observe(time.Since(started).Seconds())

	s.logger.Info().
		Str("group_id", group.GroupID).
		Str("owner_id", input.OwnerID).
		Int("credits_used", group.CreditsUsed).
		Msg("issuance committed")

	return &ports.SubmitIssuanceResult{
		GroupID:       group.GroupID,
		ClassID:       group.ClassID,
		CreditsUsed:   group.CreditsUsed,
		StudentsCount: len(records),
	}, nil
}

func replayResult(group *domain.IssuanceGroup) *ports.SubmitIssuanceResult {
	return &ports.SubmitIssuanceResult{
		GroupID:        group.GroupID,
		ClassID:        group.ClassID,
		CreditsUsed:    group.CreditsUsed,
		StudentsCount:  group.CreditsUsed,
		AlreadyExisted: true,
	}
}

// GetGroup returns a committed group and its issued records.
func (s *IssuanceService) GetGroup(ctx context.Context, groupID string) (*ports.GroupDetail, error) {
	group, records, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &ports.GroupDetail{Group: *group, Records: records}, nil
}

// validateSubmission collects every missing field so the caller can report
// them all at once.
func validateSubmission(input ports.SubmitIssuanceInput) error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"program", input.Program},
		{"site", input.Site},
		{"class_type", input.ClassType},
		{"start_date", input.StartDate},
		{"end_date", input.EndDate},
		{"primary_instructor", input.PrimaryInstructor},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(input.Students) == 0 {
		missing = append(missing, "students")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}
