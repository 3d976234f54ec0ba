package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

type IssuanceRepository struct {
	db *mongo.Database
}

func NewIssuanceRepository(db *mongo.Database) *IssuanceRepository {
	return &IssuanceRepository{db: db}
}

// CommitIssuance writes the group, its child records, and the balance
// decrement as a single transaction. The sufficiency check runs first inside
// the same transaction, so an insufficient balance aborts before any
// document is written and two concurrent submissions cannot both spend the
// same credits.
func (r *IssuanceRepository) CommitIssuance(ctx context.Context, group *domain.IssuanceGroup, records []domain.IssuedRecord) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("commit issuance: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := drainBalances(sessCtx, r.db, group.OwnerID, group.CreditsUsed); err != nil {
			return nil, err
		}

		if _, err := r.db.Collection(collectionGroups).InsertOne(sessCtx, group); err != nil {
			// The unique idempotency_key index is the last line of defense
			// when the in-flight claim was unavailable.
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateSubmission
			}
			return nil, fmt.Errorf("insert group: %w", err)
		}

		docs := make([]interface{}, len(records))
		for i := range records {
			docs[i] = records[i]
		}
		if _, err := r.db.Collection(collectionRecords).InsertMany(sessCtx, docs); err != nil {
			return nil, fmt.Errorf("insert records: %w", err)
		}

		return nil, nil
	})
	return err
}

// FindGroupByIdempotencyKey retrieves the group previously committed with
// the given key.
func (r *IssuanceRepository) FindGroupByIdempotencyKey(ctx context.Context, key string) (*domain.IssuanceGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var group domain.IssuanceGroup
	err := r.db.Collection(collectionGroups).FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetGroup returns a group and its child records.
func (r *IssuanceRepository) GetGroup(ctx context.Context, groupID string) (*domain.IssuanceGroup, []domain.IssuedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var group domain.IssuanceGroup
	err := r.db.Collection(collectionGroups).FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, domain.ErrGroupNotFound
		}
		return nil, nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "certificate_ref", Value: 1}})
	cursor, err := r.db.Collection(collectionRecords).Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, nil, err
	}

	var records []domain.IssuedRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, nil, err
	}
	return &group, records, nil
}

// EnsureIndexes creates the indexes the issuance workflow depends on.
func (r *IssuanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Unique so that two concurrent submissions with the same key cannot both
	// commit; sparse so groups submitted without a key are exempt.
	_, err := r.db.Collection(collectionGroups).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return err
	}

	_, err = r.db.Collection(collectionRecords).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "group_id", Value: 1}},
	})
	return err
}
