package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// PurchaseInput carries all data needed to record a credit purchase. UserID
// and UserEmail come from the authenticated caller's identity, never from
// the request body.
type PurchaseInput struct {
	UserID     string
	UserEmail  string
	PackageID  string
	CourseType string
	Credits    int
	Price      float64
}

// PurchaseResult is returned after a successful purchase.
type PurchaseResult struct {
	CreditRecordID  string
	CourseType      string
	NewTotalForType int
}

// CreditBreakdownItem is one course type's share of a user's balance.
type CreditBreakdownItem struct {
	Type    string
	Credits int
}

// BalanceResult is the aggregate balance view for a user.
type BalanceResult struct {
	AvailableCredits int
	CreditBreakdown  []CreditBreakdownItem
}

// LedgerService defines use-case operations for the credit ledger.
type LedgerService interface {
	GetBalance(ctx context.Context, userID string) (*BalanceResult, error)
	Purchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error)
	PurchaseHistory(ctx context.Context, userID string) ([]domain.PurchaseRecord, error)
	// Deduct removes amount credits from the user's aggregate balance and
	// returns the balance after the deduction. Returns
	// *domain.InsufficientCreditsError without writing when the balance is
	// too low.
	Deduct(ctx context.Context, userID string, amount int) (*BalanceResult, error)
}
