package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

type LedgerRepository struct {
	db *mongo.Database
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalances returns all balance rows for a user, sorted by course type.
func (r *LedgerRepository) GetBalances(ctx context.Context, userID string) ([]domain.CreditBalance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "course_type", Value: 1}})
	cursor, err := r.db.Collection(collectionBalances).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var rows []domain.CreditBalance
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// RecordPurchase upserts the (user, courseType) row with an atomic $inc and
// appends the purchase audit record, both inside one transaction: a failed
// record insert rolls back the increment, so the history never misses a
// purchase that changed the balance. No read-modify-write: concurrent
// purchases for the same row cannot lose updates.
func (r *LedgerRepository) RecordPurchase(ctx context.Context, record *domain.PurchaseRecord) (int, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return 0, fmt.Errorf("record purchase: start session: %w", err)
	}
	defer session.EndSession(ctx)

	total, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"user_id": record.UserID, "course_type": record.CourseType}
		update := bson.M{
			"$inc": bson.M{"credits": record.Credits},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		}
		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After)

		var row domain.CreditBalance
		if err := r.db.Collection(collectionBalances).
			FindOneAndUpdate(sessCtx, filter, update, opts).
			Decode(&row); err != nil {
			return nil, fmt.Errorf("add credits: %w", err)
		}

		if _, err := r.db.Collection(collectionPurchases).InsertOne(sessCtx, record); err != nil {
			return nil, fmt.Errorf("insert purchase record: %w", err)
		}
		return row.Credits, nil
	})
	if err != nil {
		return 0, err
	}
	return total.(int), nil
}

// DeductCredits runs the sufficiency check and the decrement in one
// transaction, retried by the driver on transient conflicts.
func (r *LedgerRepository) DeductCredits(ctx context.Context, userID string, amount int) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("deduct credits: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, drainBalances(sessCtx, r.db, userID, amount)
	})
	return err
}

// ListPurchases returns a user's purchase records, newest first.
func (r *LedgerRepository) ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection(collectionPurchases).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var records []domain.PurchaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the indexes the ledger depends on.
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(collectionBalances).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "course_type", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.db.Collection(collectionPurchases).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}
