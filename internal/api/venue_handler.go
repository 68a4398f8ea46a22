package api

import (
	"net/http"
	"strconv"

	"EquiSync/internal/config"
	"EquiSync/internal/enrich"
	"EquiSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VenueHandler serves the venue directory and the optional postcode-hint
// lookup.
type VenueHandler struct {
	venueRepo repository.VenueRepository
	lookup    *enrich.Lookup
	logger    *logrus.Logger
}

func NewVenueHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *VenueHandler {
	return &VenueHandler{
		venueRepo: repository.NewVenueRepository(db),
		lookup:    enrich.NewLookup(&cfg.Enrich, logger),
		logger:    logger,
	}
}

// ListVenues lists canonical venues.
// GET /api/venues?page=1&page_size=20
func (h *VenueHandler) ListVenues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	venues, total, err := h.venueRepo.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListVenues failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": venues})
}

// GetVenue fetches one venue row.
// GET /api/venues/:id
func (h *VenueHandler) GetVenue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}
	v, err := h.venueRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// PostcodeHint asks the external enrichment collaborator for a postcode
// suggestion for a venue that is still missing one. Hints are suggestions
// for the seed curators, never written to authority data here.
// GET /api/venues/:id/postcode-hint
func (h *VenueHandler) PostcodeHint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}
	v, err := h.venueRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}

	hint, err := h.lookup.PostcodeHint(c.Request.Context(), v.Name)
	if err != nil {
		h.logger.WithError(err).WithField("venue", v.Name).Error("PostcodeHint failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if hint == nil {
		c.JSON(http.StatusOK, gin.H{"venue": v.Name, "hint": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": v.Name, "hint": hint})
}
