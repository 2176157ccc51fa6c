package leads

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
	"github.com/grandresort/crm/internal/service/pricing"
	"github.com/grandresort/crm/internal/service/quotes"
)

// ErrInvalidStatus indicates an unknown lead status value.
var ErrInvalidStatus = fmt.Errorf("invalid lead status")

// Messenger delivers text messages to guests and staff. Nil messengers are
// allowed; delivery then degrades to log-only.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// QuoteResult bundles everything produced by a quote generation run.
type QuoteResult struct {
	Totals    *models.QuoteTotals `json:"totals"`
	Quote     *models.Quote       `json:"quote"`
	Lead      *models.Lead        `json:"lead"`
	Delivered bool                `json:"delivered"`
}

// Service implements the lead workflow: CRUD, quote generation and
// follow-up reminders.
type Service struct {
	leadStore         repository.LeadStore
	tariffStore       repository.TariffStore
	calc              *pricing.Calculator
	renderer          *quotes.Renderer
	messenger         Messenger
	reminderRecipient string
	logger            *zap.Logger
	now               func() time.Time
}

// NewService wires a lead service instance.
func NewService(leadStore repository.LeadStore, tariffStore repository.TariffStore, calc *pricing.Calculator, renderer *quotes.Renderer, messenger Messenger, reminderRecipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		leadStore:         leadStore,
		tariffStore:       tariffStore,
		calc:              calc,
		renderer:          renderer,
		messenger:         messenger,
		reminderRecipient: reminderRecipient,
		logger:            logger,
		now:               time.Now,
	}
}

// List returns every lead.
func (s *Service) List(ctx context.Context) ([]models.Lead, error) {
	return s.leadStore.GetAll(ctx)
}

// Get returns one lead by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Lead, error) {
	return s.leadStore.GetByID(ctx, id)
}

// Create stores a new lead.
func (s *Service) Create(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	return s.leadStore.Create(ctx, lead)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, upd models.LeadUpdate) (*models.Lead, error) {
	if upd.Status != nil && !models.ValidLeadStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *upd.Status)
	}
	return s.leadStore.Update(ctx, id, upd)
}

// Delete removes a lead, reporting whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.leadStore.Delete(ctx, id)
}

// ChangeStatus moves the lead through the funnel.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.Lead, error) {
	if !models.ValidLeadStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.leadStore.UpdateStatus(ctx, id, status)
}

// GenerateQuote prices the request against the current tariff catalog,
// renders the quote text, attaches the quote to a matching lead (created on
// the fly when none exists) and optionally delivers it over WhatsApp.
// Pricing errors are typed and reach the caller unmodified.
func (s *Service) GenerateQuote(ctx context.Context, req models.BookingRequest, deliver bool) (*QuoteResult, error) {
	lead, err := s.findOrCreateLead(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.quoteForLead(ctx, lead, req, deliver)
}

// GenerateQuoteForLead prices and attaches a quote to a known lead. Client
// name and mobile fall back to the lead record when the request omits them.
func (s *Service) GenerateQuoteForLead(ctx context.Context, leadID int64, req models.BookingRequest, deliver bool) (*QuoteResult, error) {
	lead, err := s.leadStore.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if req.ClientName == "" {
		req.ClientName = lead.Name
	}
	if req.Mobile == "" {
		req.Mobile = lead.Mobile
	}
	return s.quoteForLead(ctx, lead, req, deliver)
}

func (s *Service) quoteForLead(ctx context.Context, lead *models.Lead, req models.BookingRequest, deliver bool) (*QuoteResult, error) {
	tariffs, err := s.tariffStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tariff catalog: %w", err)
	}

	totals, err := s.calc.ComputeQuote(req.Rooms, req.CheckinDate, req.CheckoutDate, tariffs, req.OverallDiscount)
	if err != nil {
		return nil, err
	}

	quoteText := s.renderer.RenderQuoteMessage(req, *totals)

	quote := models.Quote{
		ID:            uuid.NewString(),
		Rooms:         req.Rooms,
		MealPlans:     req.MealPlans,
		TotalAmount:   totals.FinalTotal,
		AdvanceAmount: math.Round(totals.FinalTotal * quotes.AdvanceFraction),
		QuoteText:     quoteText,
		CreatedAt:     s.now(),
	}

	stored, err := s.leadStore.AddQuote(ctx, lead.ID, quote)
	if err != nil {
		return nil, fmt.Errorf("attach quote to lead %d: %w", lead.ID, err)
	}

	result := &QuoteResult{Totals: totals, Quote: stored, Lead: lead}

	if deliver {
		result.Delivered = s.deliverQuote(ctx, lead, quoteText)
	}

	return result, nil
}

// findOrCreateLead matches on mobile plus check-in day, the same identity the
// sales team uses when a guest asks for a revised quote.
func (s *Service) findOrCreateLead(ctx context.Context, req models.BookingRequest) (*models.Lead, error) {
	existing, err := s.leadStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	for i := range existing {
		lead := existing[i]
		if lead.Mobile != "" && lead.Mobile == req.Mobile && sameDay(lead.CheckinDate, req.CheckinDate) {
			return &lead, nil
		}
	}

	lead, err := s.leadStore.Create(ctx, models.Lead{
		Name:         req.ClientName,
		Mobile:       req.Mobile,
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
		Status:       models.LeadStatusOpen,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (s *Service) deliverQuote(ctx context.Context, lead *models.Lead, quoteText string) bool {
	if s.messenger == nil || lead.Mobile == "" {
		s.logger.Info("quote delivery skipped",
			zap.Int64("lead_id", lead.ID),
			zap.Bool("messenger_configured", s.messenger != nil))
		return false
	}

	if err := s.messenger.SendText(ctx, lead.Mobile, quoteText); err != nil {
		// Delivery is best effort; the quote is already attached to the lead.
		s.logger.Warn("quote delivery failed",
			zap.Int64("lead_id", lead.ID),
			zap.Error(err))
		return false
	}
	return true
}

// CreateFromInquiry turns a parsed inquiry into a lead draft. Fallbacks fill
// name and mobile when the text yielded nothing (e.g. the WhatsApp contact
// profile).
func (s *Service) CreateFromInquiry(ctx context.Context, parsed models.ParsedInquiry, fallbackName, fallbackMobile string) (*models.Lead, error) {
	lead := models.Lead{
		Name:   parsed.ClientName,
		Mobile: parsed.Mobile,
		Status: models.LeadStatusOpen,
		Notes:  parsed.Notes,
	}
	if lead.Name == "" {
		lead.Name = fallbackName
	}
	if lead.Mobile == "" {
		lead.Mobile = fallbackMobile
	}

	if checkin, err := time.Parse(models.DateLayout, parsed.CheckinDate); err == nil {
		lead.CheckinDate = checkin
	}
	if checkout, err := time.Parse(models.DateLayout, parsed.CheckoutDate); err == nil {
		lead.CheckoutDate = checkout
	}

	created, err := s.leadStore.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("create lead from inquiry: %w", err)
	}

	s.logger.Info("lead created from inquiry",
		zap.Int64("lead_id", created.ID),
		zap.String("mobile", created.Mobile))
	return created, nil
}

// SendDueReminders collects leads whose follow-up reminder has come due,
// notifies the configured staff recipient and clears each reminder. Returns
// the number of leads covered.
func (s *Service) SendDueReminders(ctx context.Context) (int, error) {
	due, err := s.leadStore.DueReminders(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("query due reminders: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString("Follow-up reminders due:\n")
	for _, lead := range due {
		fmt.Fprintf(&b, "• #%d %s (%s)", lead.ID, lead.Name, lead.Mobile)
		if !lead.CheckinDate.IsZero() {
			fmt.Fprintf(&b, " check-in %s", lead.CheckinDate.Format(models.DateLayout))
		}
		b.WriteString("\n")
	}

	if s.messenger != nil && s.reminderRecipient != "" {
		if err := s.messenger.SendText(ctx, s.reminderRecipient, b.String()); err != nil {
			return 0, fmt.Errorf("send reminder digest: %w", err)
		}
	} else {
		s.logger.Info("reminder digest (messaging disabled)", zap.String("digest", b.String()))
	}

	for _, lead := range due {
		if err := s.leadStore.ClearReminder(ctx, lead.ID); err != nil {
			s.logger.Warn("failed to clear reminder", zap.Int64("lead_id", lead.ID), zap.Error(err))
		}
	}

	return len(due), nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
