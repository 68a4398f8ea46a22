package api

import (
	"context"
	"errors"
	"net/http"

	"EquiSync/internal/config"
	"EquiSync/internal/service"
	"EquiSync/internal/venue"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcileHandler triggers the batch venue reconciler on demand.
type ReconcileHandler struct {
	reconcileService *service.ReconcileService
	logger           *logrus.Logger
}

func NewReconcileHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, pipeline *venue.Pipeline) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileService: service.NewReconcileService(db, pipeline, cfg, logger),
		logger:           logger,
	}
}

// ReconcileVenues runs one consolidation pass over the venue table.
// POST /reconcile/venues
func (h *ReconcileHandler) ReconcileVenues(c *gin.Context) {
	stats, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Interrupted between groups: committed progress is retained.
			c.JSON(http.StatusOK, gin.H{"interrupted": true, "stats": stats})
			return
		}
		h.logger.WithError(err).Error("ReconcileVenues failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
