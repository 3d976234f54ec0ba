package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

const (
	collectionBalances  = "credit_balances"
	collectionPurchases = "purchase_records"
	collectionGroups    = "issuance_groups"
	collectionRecords   = "issued_records"
	collectionTickets   = "tickets"
)

// drainBalances performs the sufficiency check and the decrement against a
// user's balance rows. It must run inside an open transaction (sessCtx), so
// the check and the writes are serialized against concurrent deductions.
//
// Credits are fungible across course types: rows are drained in ascending
// course-type order until amount is covered. Returns
// *domain.InsufficientCreditsError (and writes nothing) when the aggregate
// balance is below amount.
func drainBalances(sessCtx mongo.SessionContext, db *mongo.Database, userID string, amount int) error {
	coll := db.Collection(collectionBalances)

	opts := options.Find().SetSort(bson.D{{Key: "course_type", Value: 1}})
	cursor, err := coll.Find(sessCtx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return fmt.Errorf("read balances: %w", err)
	}

	var rows []domain.CreditBalance
	if err := cursor.All(sessCtx, &rows); err != nil {
		return fmt.Errorf("decode balances: %w", err)
	}

	total := 0
	for _, row := range rows {
		total += row.Credits
	}
	if total < amount {
		return &domain.InsufficientCreditsError{Available: total, Required: amount}
	}

	now := time.Now().UTC()
	remaining := amount
	for _, row := range rows {
		if remaining == 0 {
			break
		}
		take := row.Credits
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}

		filter := bson.M{"user_id": userID, "course_type": row.CourseType}
		update := bson.M{
			"$inc": bson.M{"credits": -take},
			"$set": bson.M{"updated_at": now},
		}
		if _, err := coll.UpdateOne(sessCtx, filter, update); err != nil {
			return fmt.Errorf("decrement %s: %w", row.CourseType, err)
		}
		remaining -= take
	}

	return nil
}
