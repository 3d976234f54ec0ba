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

type LedgerService struct {
	repo   ports.LedgerRepository
	logger zerolog.Logger
}

func NewLedgerService(repo ports.LedgerRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{repo: repo, logger: logger}
}

// GetBalance returns the user's aggregate balance and its per-course-type
// breakdown.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (*ports.BalanceResult, error) {
	balances, err := s.repo.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return toBalanceResult(balances), nil
}

// Purchase adds credits to the (user, courseType) balance and appends an
// immutable purchase record for audit, committed as one transaction.
func (s *LedgerService) Purchase(ctx context.Context, input ports.PurchaseInput) (*ports.PurchaseResult, error) {
	if input.Credits <= 0 || input.Price <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	record := &domain.PurchaseRecord{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		UserEmail:  input.UserEmail,
		PackageID:  input.PackageID,
		CourseType: input.CourseType,
		Credits:    input.Credits,
		Price:      input.Price,
		Status:     domain.PurchaseCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	newTotal, err := s.repo.RecordPurchase(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to record purchase")
		return nil, fmt.Errorf("purchase: %w", err)
	}

	metrics.PurchasesTotal.WithLabelValues(input.CourseType).Inc()
	s.logger.Info().
		Str("user_id", input.UserID).
		Str("course_type", input.CourseType).
		Int("credits", input.Credits).
		Msg("credits purchased")

	return &ports.PurchaseResult{
		CreditRecordID:  record.ID,
		CourseType:      input.CourseType,
		NewTotalForType: newTotal,
	}, nil
}

// PurchaseHistory returns the user's purchase records, newest first.
func (s *LedgerService) PurchaseHistory(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	records, err := s.repo.ListPurchases(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase history: %w", err)
	}
	return records, nil
}

// Deduct removes amount credits from the user's aggregate balance and
// returns the balance left afterwards.
func (s *LedgerService) Deduct(ctx context.Context, userID string, amount int) (*ports.BalanceResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if err := s.repo.DeductCredits(ctx, userID, amount); err != nil {
		return nil, err
	}
	metrics.CreditsDeductedTotal.Add(float64(amount))

	balances, err := s.repo.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("deduct: re-read balance: %w", err)
	}
	return toBalanceResult(balances), nil
}

func toBalanceResult(balances []domain.CreditBalance) *ports.BalanceResult {
	result := &ports.BalanceResult{
		CreditBreakdown: make([]ports.CreditBreakdownItem, 0, len(balances)),
	}
	for _, b := range balances {
		result.AvailableCredits += b.Credits
		result.CreditBreakdown = append(result.CreditBreakdown, ports.CreditBreakdownItem{
			Type:    b.CourseType,
			Credits: b.Credits,
		})
	}
	return result
}
