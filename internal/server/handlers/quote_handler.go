package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
	"github.com/grandresort/crm/internal/service/inquiry"
	"github.com/grandresort/crm/internal/service/pricing"
	"github.com/grandresort/crm/internal/service/quotes"
)

// parseInquiryRequest carries raw inquiry text plus an optional reference
// date for resolving year-less date mentions. Defaults to today.
type parseInquiryRequest struct {
	Text          string `json:"text" binding:"required"`
	ReferenceDate string `json:"referenceDate"`
}

// bookingRequestDTO is the wire form of a booking request; dates travel as
// YYYY-MM-DD strings.
type bookingRequestDTO struct {
	ClientName      string               `json:"clientName"`
	Mobile          string               `json:"mobile"`
	CheckinDate     string               `json:"checkinDate" binding:"required"`
	CheckoutDate    string               `json:"checkoutDate" binding:"required"`
	Rooms           []models.RoomRequest `json:"rooms" binding:"required,min=1"`
	MealPlans       []models.MealPlan    `json:"mealPlans"`
	OverallDiscount float64              `json:"overallDiscount"`
	Notes           string               `json:"notes"`
}

func (d bookingRequestDTO) toModel() (models.BookingRequest, error) {
	checkin, err := time.Parse(models.DateLayout, d.CheckinDate)
	if err != nil {
		return models.BookingRequest{}, err
	}
	checkout, err := time.Parse(models.DateLayout, d.CheckoutDate)
	if err != nil {
		return models.BookingRequest{}, err
	}

	return models.BookingRequest{
		ClientName:      d.ClientName,
		Mobile:          d.Mobile,
		CheckinDate:     checkin,
		CheckoutDate:    checkout,
		Rooms:           d.Rooms,
		MealPlans:       d.MealPlans,
		OverallDiscount: d.OverallDiscount,
		Notes:           d.Notes,
	}, nil
}

// respondPricingError maps the pricing error taxonomy onto HTTP statuses.
func respondPricingError(c *gin.Context, err error) {
	var notFound *pricing.TariffNotFoundError
	switch {
	case errors.Is(err, pricing.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute quote"})
	}
}

// QuoteHandler serves the stateless parse/compute/render endpoints.
type QuoteHandler struct {
	parser      *inquiry.Parser
	calc        *pricing.Calculator
	renderer    *quotes.Renderer
	tariffStore repository.TariffStore
	logger      *zap.Logger
}

// NewQuoteHandler constructs the HTTP handler adapter.
func NewQuoteHandler(parser *inquiry.Parser, calc *pricing.Calculator, renderer *quotes.Renderer, tariffStore repository.TariffStore, logger *zap.Logger) *QuoteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteHandler{
		parser:      parser,
		calc:        calc,
		renderer:    renderer,
		tariffStore: tariffStore,
		logger:      logger,
	}
}

// ParseInquiry extracts a structured inquiry from free-form text.
func (h *QuoteHandler) ParseInquiry(c *gin.Context) {
	var req parseInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ref := time.Now()
	if req.ReferenceDate != "" {
		parsed, err := time.Parse(models.DateLayout, req.ReferenceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "referenceDate must be YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	c.JSON(http.StatusOK, h.parser.Parse(req.Text, ref))
}

// ComputeQuote prices a booking request against the current tariff catalog.
func (h *QuoteHandler) ComputeQuote(c *gin.Context) {
	totals, _, ok := h.compute(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, totals)
}

// RenderQuote prices a booking request and returns the totals together with
// the customer-facing message text.
func (h *QuoteHandler) RenderQuote(c *gin.Context) {
	totals, req, ok := h.compute(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":    totals,
		"quoteText": h.renderer.RenderQuoteMessage(req, *totals),
	})
}

func (h *QuoteHandler) compute(c *gin.Context) (*models.QuoteTotals, models.BookingRequest, bool) {
	var dto bookingRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, models.BookingRequest{}, false
	}

	req, err := dto.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return nil, models.BookingRequest{}, false
	}

	tariffs, err := h.tariffStore.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading tariffs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tariffs"})
		return nil, models.BookingRequest{}, false
	}

	totals, err := h.calc.ComputeQuote(req.Rooms, req.CheckinDate, req.CheckoutDate, tariffs, req.OverallDiscount)
	if err != nil {
		respondPricingError(c, err)
		return nil, models.BookingRequest{}, false
	}

	return totals, req, true
}
