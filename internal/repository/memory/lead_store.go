package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

// LeadStore is an in-memory LeadStore used in tests and as the default
// runtime store when no database is configured.
type LeadStore struct {
	mu     sync.RWMutex
	leads  map[int64]models.Lead
	nextID int64
	now    func() time.Time
}

// NewLeadStore builds an empty in-memory lead store.
func NewLeadStore() *LeadStore {
	return &LeadStore{
		leads:  make(map[int64]models.Lead),
		nextID: 1,
		now:    time.Now,
	}
}

// GetAll returns every lead, newest first.
func (s *LeadStore) GetAll(_ context.Context) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]models.Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		leads = append(leads, cloneLead(lead))
	}
	sort.Slice(leads, func(i, j int) bool {
		if leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].ID > leads[j].ID
		}
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

// GetByID returns the lead with the given id.
func (s *LeadStore) GetByID(_ context.Context, id int64) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}
	out := cloneLead(lead)
	return &out, nil
}

// Create assigns an id and stores the lead.
func (s *LeadStore) Create(_ context.Context, lead models.Lead) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.nextID
	s.nextID++
	if lead.Status == "" {
		lead.Status = models.LeadStatusOpen
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}

	s.leads[lead.ID] = cloneLead(lead)
	return &lead, nil
}

// Update applies the non-nil patch fields to the lead.
func (s *LeadStore) Update(_ context.Context, id int64, upd models.LeadUpdate) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}

	upd.Apply(&lead)
	s.leads[id] = cloneLead(lead)
	out := cloneLead(lead)
	return &out, nil
}

// Delete removes the lead, reporting whether it existed.
func (s *LeadStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return false, nil
	}
	delete(s.leads, id)
	return true, nil
}

// AddQuote appends a quote to the lead's history.
func (s *LeadStore) AddQuote(_ context.Context, leadID int64, quote models.Quote) (*models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[leadID]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}

	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = s.now()
	}
	lead.Quotes = append(lead.Quotes, quote)
	s.leads[leadID] = lead

	return &quote, nil
}

// UpdateStatus changes the funnel status and returns the updated lead.
func (s *LeadStore) UpdateStatus(_ context.Context, id int64, status models.LeadStatus) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}

	lead.Status = status
	s.leads[id] = lead
	out := cloneLead(lead)
	return &out, nil
}

// DueReminders returns leads with a reminder at or before the given instant.
func (s *LeadStore) DueReminders(_ context.Context, now time.Time) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []models.Lead
	for _, lead := range s.leads {
		if lead.ReminderAt != nil && !lead.ReminderAt.After(now) {
			due = append(due, cloneLead(lead))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

// ClearReminder drops the reminder timestamp from the lead.
func (s *LeadStore) ClearReminder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.ReminderAt = nil
	s.leads[id] = lead
	return nil
}

// cloneLead deep-copies the slices so callers cannot mutate stored state.
func cloneLead(lead models.Lead) models.Lead {
	out := lead
	if lead.Quotes != nil {
		out.Quotes = append([]models.Quote(nil), lead.Quotes...)
	}
	if lead.Tags != nil {
		out.Tags = append([]string(nil), lead.Tags...)
	}
	return out
}
