package ports

import (
	"context"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// IssuanceRepository defines persistence for issuance groups and their child
// records.
type IssuanceRepository interface {
	// CommitIssuance writes the group, all of its child records, and the
	// balance decrement for group.CreditsUsed as one transaction. The
	// sufficiency check happens inside the same transaction; on
	// *domain.InsufficientCreditsError no document is written. Either every
	// child record exists afterwards or none do.
	CommitIssuance(ctx context.Context, group *domain.IssuanceGroup, records []domain.IssuedRecord) error

	// FindGroupByIdempotencyKey returns the group previously created with
	// the given key, or domain.ErrGroupNotFound.
	FindGroupByIdempotencyKey(ctx context.Context, key string) (*domain.IssuanceGroup, error)

	// GetGroup returns a group and its child records, or
	// domain.ErrGroupNotFound.
	GetGroup(ctx context.Context, groupID string) (*domain.IssuanceGroup, []domain.IssuedRecord, error)
}
