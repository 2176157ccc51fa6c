package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

// TariffStore is an in-memory TariffStore keyed by room type.
type TariffStore struct {
	mu      sync.RWMutex
	tariffs map[string]models.TariffProfile
}

// NewTariffStore builds a tariff store seeded with the given catalog.
func NewTariffStore(seed ...models.TariffProfile) *TariffStore {
	s := &TariffStore{tariffs: make(map[string]models.TariffProfile)}
	for _, profile := range seed {
		s.tariffs[profile.RoomType] = cloneTariff(profile)
	}
	return s
}

// DefaultCatalog returns the resort's standing room catalog, used when no
// persisted tariff data is available.
func DefaultCatalog() []models.TariffProfile {
	return []models.TariffProfile{
		{
			RoomType: "Standard",
			SeasonRates: []models.SeasonRate{
				{Season: "Peak", StartMonth: 12, EndMonth: 2, Rate: 4500},
				{Season: "High", StartMonth: 3, EndMonth: 5, Rate: 3500},
				{Season: "Regular", StartMonth: 6, EndMonth: 11, Rate: 2500},
			},
			ACCharge:         500,
			ExtraAdultCharge: 800,
			ChildCharge:      400,
		},
		{
			RoomType: "Deluxe",
			SeasonRates: []models.SeasonRate{
				{Season: "Peak", StartMonth: 12, EndMonth: 2, Rate: 6500},
				{Season: "High", StartMonth: 3, EndMonth: 5, Rate: 5000},
				{Season: "Regular", StartMonth: 6, EndMonth: 11, Rate: 4000},
			},
			ACCharge:         500,
			ExtraAdultCharge: 1000,
			ChildCharge:      500,
		},
		{
			RoomType: "Suite",
			SeasonRates: []models.SeasonRate{
				{Season: "Peak", StartMonth: 12, EndMonth: 2, Rate: 9000},
				{Season: "High", StartMonth: 3, EndMonth: 5, Rate: 7500},
				{Season: "Regular", StartMonth: 6, EndMonth: 11, Rate: 6000},
			},
			ACCharge:         0,
			ExtraAdultCharge: 1200,
			ChildCharge:      600,
		},
	}
}

// GetAll returns the catalog sorted by room type.
func (s *TariffStore) GetAll(_ context.Context) ([]models.TariffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tariffs := make([]models.TariffProfile, 0, len(s.tariffs))
	for _, profile := range s.tariffs {
		tariffs = append(tariffs, cloneTariff(profile))
	}
	sort.Slice(tariffs, func(i, j int) bool { return tariffs[i].RoomType < tariffs[j].RoomType })
	return tariffs, nil
}

// GetByRoomType returns the profile for one room type.
func (s *TariffStore) GetByRoomType(_ context.Context, roomType string) (*models.TariffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.tariffs[roomType]
	if !ok {
		return nil, repository.ErrTariffNotFound
	}
	out := cloneTariff(profile)
	return &out, nil
}

// Update replaces an existing profile.
func (s *TariffStore) Update(_ context.Context, roomType string, profile models.TariffProfile) (*models.TariffProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tariffs[roomType]; !ok {
		return nil, repository.ErrTariffNotFound
	}

	profile.RoomType = roomType
	s.tariffs[roomType] = cloneTariff(profile)
	out := cloneTariff(profile)
	return &out, nil
}

// Upsert stores the profile, creating it when absent.
func (s *TariffStore) Upsert(_ context.Context, profile models.TariffProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tariffs[profile.RoomType] = cloneTariff(profile)
	return nil
}

func cloneTariff(profile models.TariffProfile) models.TariffProfile {
	out := profile
	if profile.SeasonRates != nil {
		out.SeasonRates = append([]models.SeasonRate(nil), profile.SeasonRates...)
	}
	return out
}
