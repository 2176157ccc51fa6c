package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

const (
	leadsCollection    = "leads"
	countersCollection = "counters"
)

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// LeadStore implements repository.LeadStore on MongoDB. Numeric lead ids come
// from a counters collection so they stay opaque and monotonic.
type LeadStore struct {
	db  *mongo.Database
	now func() time.Time
}

// NewLeadStore builds a MongoDB-backed lead store.
func NewLeadStore(client *mongo.Client, dbName string) *LeadStore {
	return &LeadStore{db: client.Database(dbName), now: time.Now}
}

func (s *LeadStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": leadsCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate lead id: %w", err)
	}

	return counter.Seq, nil
}

// GetAll returns every lead, newest first.
func (s *LeadStore) GetAll(ctx context.Context) ([]models.Lead, error) {
	cursor, err := s.db.Collection(leadsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}

// GetByID returns one lead by its numeric id.
func (s *LeadStore) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %d: %w", id, err)
	}
	return &lead, nil
}

// Create allocates an id and inserts the lead.
func (s *LeadStore) Create(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	lead.ID = id
	if lead.Status == "" {
		lead.Status = models.LeadStatusOpen
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}
	if lead.Quotes == nil {
		lead.Quotes = []models.Quote{}
	}

	if _, err := s.db.Collection(leadsCollection).InsertOne(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}
	return &lead, nil
}

// Update applies the non-nil patch fields with a $set.
func (s *LeadStore) Update(ctx context.Context, id int64, upd models.LeadUpdate) (*models.Lead, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Mobile != nil {
		set["mobile"] = *upd.Mobile
	}
	if upd.CheckinDate != nil {
		set["checkin_date"] = *upd.CheckinDate
	}
	if upd.CheckoutDate != nil {
		set["checkout_date"] = *upd.CheckoutDate
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.ReminderAt != nil {
		set["reminder_at"] = *upd.ReminderAt
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}

	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update lead %d: %w", id, err)
	}
	return &lead, nil
}

// Delete removes the lead, reporting whether a document was deleted.
func (s *LeadStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.Collection(leadsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete lead %d: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// AddQuote pushes a quote onto the lead's quote history.
func (s *LeadStore) AddQuote(ctx context.Context, leadID int64, quote models.Quote) (*models.Quote, error) {
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = s.now()
	}

	res, err := s.db.Collection(leadsCollection).UpdateOne(ctx,
		bson.M{"_id": leadID},
		bson.M{"$push": bson.M{"quotes": quote}})
	if err != nil {
		return nil, fmt.Errorf("failed to append quote to lead %d: %w", leadID, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrLeadNotFound
	}
	return &quote, nil
}

// UpdateStatus changes the funnel status and returns the updated lead.
func (s *LeadStore) UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update lead %d status: %w", id, err)
	}
	return &lead, nil
}

// DueReminders returns leads with a reminder at or before the given instant.
func (s *LeadStore) DueReminders(ctx context.Context, now time.Time) ([]models.Lead, error) {
	cursor, err := s.db.Collection(leadsCollection).Find(ctx, bson.M{
		"reminder_at": bson.M{"$lte": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode due reminders: %w", err)
	}
	return leads, nil
}

// ClearReminder unsets the reminder timestamp.
func (s *LeadStore) ClearReminder(ctx context.Context, id int64) error {
	res, err := s.db.Collection(leadsCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{"reminder_at": ""}})
	if err != nil {
		return fmt.Errorf("failed to clear reminder on lead %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrLeadNotFound
	}
	return nil
}
