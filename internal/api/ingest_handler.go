package api

import (
	"net/http"

	"EquiSync/internal/classify"
	"EquiSync/internal/config"
	"EquiSync/internal/model"
	"EquiSync/internal/service"
	"EquiSync/internal/venue"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IngestHandler receives producer batches.
type IngestHandler struct {
	ingestService *service.IngestService
	logger        *logrus.Logger
}

func NewIngestHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, rules *classify.Rules, pipeline *venue.Pipeline) *IngestHandler {
	return &IngestHandler{
		ingestService: service.NewIngestService(db, classify.New(rules), pipeline, cfg, logger),
		logger:        logger,
	}
}

// IngestEvents accepts a batch of raw producer records.
// POST /ingest/events
func (h *IngestHandler) IngestEvents(c *gin.Context) {
	var events []model.RawEvent
	if err := c.ShouldBindJSON(&events); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	result := h.ingestService.IngestBatch(c.Request.Context(), events)
	c.JSON(http.StatusOK, result)
}
