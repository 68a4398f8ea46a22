package api

import (
	"net/http"
	"strconv"
	"time"

	"EquiSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CompetitionHandler serves calendar queries.
type CompetitionHandler struct {
	compRepo repository.CompetitionRepository
	logger   *logrus.Logger
}

func NewCompetitionHandler(db *gorm.DB, logger *logrus.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		compRepo: repository.NewCompetitionRepository(db),
		logger:   logger,
	}
}

// ListCompetitions is the calendar listing.
// GET /api/competitions?discipline=Dressage&event_type=competition&from=2026-01-01&to=2026-12-31&page=1&page_size=20
func (h *CompetitionHandler) ListCompetitions(c *gin.Context) {
	filter := repository.CompetitionFilter{
		Discipline: c.Query("discipline"),
		EventType:  c.Query("event_type"),
	}
	if v := c.Query("venue_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
			return
		}
		filter.VenueID = id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		filter.ToDate = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, total, err := h.compRepo.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListCompetitions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": list})
}

// GetCompetition fetches one entry by its public UUID.
// GET /api/competitions/:event_uuid
func (h *CompetitionHandler) GetCompetition(c *gin.Context) {
	comp, err := h.compRepo.GetByUUID(c.Request.Context(), c.Param("event_uuid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "competition not found"})
		return
	}
	c.JSON(http.StatusOK, comp)
}
