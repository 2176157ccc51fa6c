package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

// TariffHandler serves the tariff catalog endpoints.
type TariffHandler struct {
	store  repository.TariffStore
	logger *zap.Logger
}

// NewTariffHandler constructs the HTTP handler adapter.
func NewTariffHandler(store repository.TariffStore, logger *zap.Logger) *TariffHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffHandler{store: store, logger: logger}
}

// List returns every tariff profile.
func (h *TariffHandler) List(c *gin.Context) {
	all, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading tariffs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tariffs"})
		return
	}
	c.JSON(http.StatusOK, all)
}

// Get returns the tariff profile for one room type.
func (h *TariffHandler) Get(c *gin.Context) {
	profile, err := h.store.GetByRoomType(c.Request.Context(), c.Param("roomType"))
	if err != nil {
		if errors.Is(err, repository.ErrTariffNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tariff not found"})
			return
		}
		h.logger.Error("failed loading tariff", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tariff"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update replaces the tariff profile for one room type.
func (h *TariffHandler) Update(c *gin.Context) {
	var profile models.TariffProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), c.Param("roomType"), profile)
	if err != nil {
		if errors.Is(err, repository.ErrTariffNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tariff not found"})
			return
		}
		h.logger.Error("failed updating tariff", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tariff"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
