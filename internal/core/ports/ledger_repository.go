package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// LedgerRepository defines persistence operations for credit balances and
// purchase audit records.
type LedgerRepository interface {
	// GetBalances returns all balance rows for a user, sorted by course type.
	GetBalances(ctx context.Context, userID string) ([]domain.CreditBalance, error)

	// RecordPurchase increments the (user, courseType) balance by
	// record.Credits, creating the row when it does not exist, and appends
	// the immutable purchase audit record. Both writes commit in a single
	// transaction, so credits never land without their audit row. The
	// increment must be a store-side atomic operation, never a
	// read-modify-write. Returns the new credit total for that course type.
	RecordPurchase(ctx context.Context, record *domain.PurchaseRecord) (int, error)

	// DeductCredits removes amount credits from the user's aggregate
	// balance. Credits are fungible across course types: rows are drained in
	// ascending course-type order until the amount is covered. The
	// sufficiency check and the decrement run in a single transaction;
	// *domain.InsufficientCreditsError is returned — and nothing is written —
	// when the aggregate balance is too low.
	DeductCredits(ctx context.Context, userID string, amount int) error

	// ListPurchases returns a user's purchase records, newest first.
	ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseRecord, error)
}
