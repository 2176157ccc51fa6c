// Package repository defines the persistence boundary of the CRM. Core
// services depend only on these interfaces; concrete stores live in the
// subpackages (memory, mongodb, sheets).
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/grandresort/crm/internal/domain/models"
)

// ErrLeadNotFound indicates the requested lead id does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// ErrTariffNotFound indicates no tariff profile exists for the room type.
var ErrTariffNotFound = errors.New("tariff not found")

// LeadStore persists sales leads. Leads are keyed by opaque numeric ids;
// quotes are appended, never mutated in place.
type LeadStore interface {
	GetAll(ctx context.Context) ([]models.Lead, error)
	GetByID(ctx context.Context, id int64) (*models.Lead, error)
	Create(ctx context.Context, lead models.Lead) (*models.Lead, error)
	Update(ctx context.Context, id int64, upd models.LeadUpdate) (*models.Lead, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AddQuote(ctx context.Context, leadID int64, quote models.Quote) (*models.Quote, error)
	UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.Lead, error)

	// DueReminders returns leads whose reminder timestamp is at or before now.
	DueReminders(ctx context.Context, now time.Time) ([]models.Lead, error)
	ClearReminder(ctx context.Context, id int64) error
}

// TariffStore persists the tariff catalog. Implementations normalize both
// persisted season-rate encodings into the canonical []SeasonRate on read.
type TariffStore interface {
	GetAll(ctx context.Context) ([]models.TariffProfile, error)
	GetByRoomType(ctx context.Context, roomType string) (*models.TariffProfile, error)
	Update(ctx context.Context, roomType string, profile models.TariffProfile) (*models.TariffProfile, error)
	Upsert(ctx context.Context, profile models.TariffProfile) error
}
