package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"servana/database"
	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository on MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.Collection("bookings")}
}

// EnsureIndexes creates the indexes the repository relies on. The unique
// partial index on (provider_id, date, start_time) is the storage-level
// guard against double booking: two concurrent creates for the same slot
// cannot both commit.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": occupyingStatusStrings()},
				}),
		},
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func occupyingStatusStrings() []string {
	out := make([]string, 0, len(models.OccupyingStatuses))
	for _, s := range models.OccupyingStatuses {
		out = append(out, string(s))
	}
	return out
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) FindOccupying(ctx context.Context, providerID, date, excludeBookingID string) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"status":      bson.M{"$in": occupyingStatusStrings()},
	}
	if excludeBookingID != "" {
		filter["id"] = bson.M{"$ne": excludeBookingID}
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupying bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode occupying bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode customer bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) FindExpiredPending(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error) {
	// Lexicographic compare works for YYYY-MM-DD dates.
	filter := bson.M{
		"status":         models.StatusPending,
		"payment_status": "pending",
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": date}},
			bson.M{"date": date, "start_minute": bson.M{"$lte": minuteOfDay}},
		},
	}
	return r.findAll(ctx, filter)
}

func (r *MongoBookingRepo) FindOverdueInProgress(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.StatusInProgress,
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": date}},
			bson.M{"date": date, "end_minute": bson.M{"$lte": minuteOfDay}},
		},
	}
	return r.findAll(ctx, filter)
}

func (r *MongoBookingRepo) findAll(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Create inserts the booking inside a transaction. The overlap re-check and
// the insert commit atomically, so two concurrent creates for colliding
// intervals cannot both pass; the loser sees ErrSlotTaken either from the
// re-check or from the unique slot index.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		conflictFilter := bson.M{
			"provider_id":  booking.ProviderID,
			"date":         booking.Date,
			"status":       bson.M{"$in": occupyingStatusStrings()},
			"start_minute": bson.M{"$lt": booking.EndMinute},
			"end_minute":   bson.M{"$gt": booking.StartMinute},
		}
		n, err := r.coll.CountDocuments(sc, conflictFilter)
		if err != nil {
			return fmt.Errorf("conflict re-check failed: %w", err)
		}
		if n > 0 {
			return ErrSlotTaken
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *MongoBookingRepo) Cancel(ctx context.Context, id string, refundCents int64, notes string) error {
	update := bson.M{"$set": bson.M{
		"status":              models.StatusCancelled,
		"refund_amount_cents": refundCents,
		"notes":               notes,
		"updated_at":          time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *MongoBookingRepo) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	update := bson.M{"$set": bson.M{"payment_intent_id": paymentIntentID, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to attach payment intent: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) MarkPaid(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"payment_status": "paid",
		"status":         models.StatusConfirmed,
		"updated_at":     time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.StatusPending}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found or not pending", id)
	}
	return nil
}

// Reschedule moves the booking to its new date/time inside a transaction,
// re-checking the target interval with the booking's own id excluded.
func (r *MongoBookingRepo) Reschedule(ctx context.Context, id string, booking *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		conflictFilter := bson.M{
			"provider_id":  booking.ProviderID,
			"date":         booking.Date,
			"id":           bson.M{"$ne": id},
			"status":       bson.M{"$in": occupyingStatusStrings()},
			"start_minute": bson.M{"$lt": booking.EndMinute},
			"end_minute":   bson.M{"$gt": booking.StartMinute},
		}
		n, err := r.coll.CountDocuments(sc, conflictFilter)
		if err != nil {
			return fmt.Errorf("conflict re-check failed: %w", err)
		}
		if n > 0 {
			return ErrSlotTaken
		}
		update := bson.M{"$set": bson.M{
			"date":         booking.Date,
			"start_time":   booking.StartTime,
			"end_time":     booking.EndTime,
			"start_minute": booking.StartMinute,
			"end_minute":   booking.EndMinute,
			"notes":        booking.Notes,
			"updated_at":   time.Now(),
		}}
		res, err := r.coll.UpdateOne(sc, bson.M{"id": id}, update)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("reschedule update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s not found", id)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("reschedule transaction failed: %w", err)
	}
	return nil
}
