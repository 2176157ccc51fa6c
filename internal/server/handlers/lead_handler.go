package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
	"github.com/grandresort/crm/internal/service/leads"
)

// createLeadRequest is the wire form for lead creation.
type createLeadRequest struct {
	Name         string            `json:"name" binding:"required"`
	Mobile       string            `json:"mobile"`
	CheckinDate  string            `json:"checkinDate"`
	CheckoutDate string            `json:"checkoutDate"`
	Status       models.LeadStatus `json:"status"`
	ReminderAt   *time.Time        `json:"reminderAt"`
	Notes        string            `json:"notes"`
	Tags         []string          `json:"tags"`
}

// updateLeadRequest is a partial update; omitted fields are untouched.
type updateLeadRequest struct {
	Name         *string            `json:"name"`
	Mobile       *string            `json:"mobile"`
	CheckinDate  *string            `json:"checkinDate"`
	CheckoutDate *string            `json:"checkoutDate"`
	Status       *models.LeadStatus `json:"status"`
	ReminderAt   *time.Time         `json:"reminderAt"`
	Notes        *string            `json:"notes"`
	Tags         []string           `json:"tags"`
}

type changeStatusRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// leadQuoteRequest wraps a booking request with the delivery switch.
type leadQuoteRequest struct {
	bookingRequestDTO
	Deliver bool `json:"deliver"`
}

// LeadHandler serves the lead CRUD and quote-generation endpoints.
type LeadHandler struct {
	svc    *leads.Service
	logger *zap.Logger
}

// NewLeadHandler constructs the HTTP handler adapter.
func NewLeadHandler(svc *leads.Service, logger *zap.Logger) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{svc: svc, logger: logger}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lead id must be numeric"})
		return 0, false
	}
	return id, true
}

func (h *LeadHandler) respondLeadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
	case errors.Is(err, leads.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("lead operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// List returns every lead, newest first.
func (h *LeadHandler) List(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

// Get returns one lead.
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Create stores a new lead.
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.LeadStatusOpen
	}
	if !models.ValidLeadStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown lead status"})
		return
	}

	lead := models.Lead{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Status:     status,
		ReminderAt: req.ReminderAt,
		Notes:      req.Notes,
		Tags:       req.Tags,
	}

	var err error
	if lead.CheckinDate, err = parseOptionalDate(req.CheckinDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkinDate must be YYYY-MM-DD"})
		return
	}
	if lead.CheckoutDate, err = parseOptionalDate(req.CheckoutDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkoutDate must be YYYY-MM-DD"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), lead)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update patches a lead.
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	upd := models.LeadUpdate{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Status:     req.Status,
		ReminderAt: req.ReminderAt,
		Notes:      req.Notes,
		Tags:       req.Tags,
	}

	if req.CheckinDate != nil {
		parsed, err := time.Parse(models.DateLayout, *req.CheckinDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkinDate must be YYYY-MM-DD"})
			return
		}
		upd.CheckinDate = &parsed
	}
	if req.CheckoutDate != nil {
		parsed, err := time.Parse(models.DateLayout, *req.CheckoutDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkoutDate must be YYYY-MM-DD"})
			return
		}
		upd.CheckoutDate = &parsed
	}

	updated, err := h.svc.Update(c.Request.Context(), id, upd)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a lead.
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus moves a lead through the funnel.
func (h *LeadHandler) ChangeStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GenerateQuote computes, renders and appends a quote to the lead.
func (h *LeadHandler) GenerateQuote(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req leadQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	booking, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	result, err := h.svc.GenerateQuoteForLead(c.Request.Context(), id, booking, req.Deliver)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		respondPricingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, s)
}
