package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

const tariffsCollection = "tariffs"

// TariffStore implements repository.TariffStore on MongoDB. Season rates are
// persisted as a string column holding either the structured JSON encoding or
// the legacy "Label: rate" free-text list; both normalize to the canonical
// slice on read.
type TariffStore struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewTariffStore builds a MongoDB-backed tariff store.
func NewTariffStore(client *mongo.Client, dbName string, logger *zap.Logger) *TariffStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffStore{db: client.Database(dbName), logger: logger}
}

// tariffDoc is the persisted shape; season_rates stays an opaque string so
// legacy free-text rows keep loading.
type tariffDoc struct {
	RoomType         string  `bson:"_id"`
	SeasonRates      string  `bson:"season_rates"`
	ACCharge         float64 `bson:"ac_charges"`
	ExtraAdultCharge float64 `bson:"extra_adult_charge"`
	ChildCharge      float64 `bson:"child_charge"`
}

// toProfile normalizes a document into the canonical profile. Malformed
// season-rate data degrades to an empty list and is logged, never surfaced.
func (s *TariffStore) toProfile(doc tariffDoc) models.TariffProfile {
	rates, err := models.DecodeSeasonRates(doc.SeasonRates)
	if err != nil {
		s.logger.Warn("malformed season rates, falling back to empty list",
			zap.String("room_type", doc.RoomType),
			zap.Error(err))
		rates = nil
	}

	return models.TariffProfile{
		RoomType:         doc.RoomType,
		SeasonRates:      rates,
		ACCharge:         doc.ACCharge,
		ExtraAdultCharge: doc.ExtraAdultCharge,
		ChildCharge:      doc.ChildCharge,
	}
}

func toDoc(profile models.TariffProfile) (tariffDoc, error) {
	raw, err := models.EncodeSeasonRates(profile.SeasonRates)
	if err != nil {
		return tariffDoc{}, err
	}
	return tariffDoc{
		RoomType:         profile.RoomType,
		SeasonRates:      raw,
		ACCharge:         profile.ACCharge,
		ExtraAdultCharge: profile.ExtraAdultCharge,
		ChildCharge:      profile.ChildCharge,
	}, nil
}

// GetAll returns the normalized catalog.
func (s *TariffStore) GetAll(ctx context.Context) ([]models.TariffProfile, error) {
	cursor, err := s.db.Collection(tariffsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tariffDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tariffs: %w", err)
	}

	tariffs := make([]models.TariffProfile, 0, len(docs))
	for _, doc := range docs {
		tariffs = append(tariffs, s.toProfile(doc))
	}
	return tariffs, nil
}

// GetByRoomType returns one normalized profile.
func (s *TariffStore) GetByRoomType(ctx context.Context, roomType string) (*models.TariffProfile, error) {
	var doc tariffDoc
	err := s.db.Collection(tariffsCollection).FindOne(ctx, bson.M{"_id": roomType}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrTariffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff %s: %w", roomType, err)
	}

	profile := s.toProfile(doc)
	return &profile, nil
}

// Update replaces an existing profile.
func (s *TariffStore) Update(ctx context.Context, roomType string, profile models.TariffProfile) (*models.TariffProfile, error) {
	profile.RoomType = roomType
	doc, err := toDoc(profile)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Collection(tariffsCollection).ReplaceOne(ctx, bson.M{"_id": roomType}, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update tariff %s: %w", roomType, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrTariffNotFound
	}
	return &profile, nil
}

// Upsert stores the profile, creating it when absent.
func (s *TariffStore) Upsert(ctx context.Context, profile models.TariffProfile) error {
	doc, err := toDoc(profile)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(tariffsCollection).ReplaceOne(ctx,
		bson.M{"_id": profile.RoomType}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert tariff %s: %w", profile.RoomType, err)
	}
	return nil
}
