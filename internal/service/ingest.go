package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"EquiSync/internal/classify"
	"EquiSync/internal/config"
	"EquiSync/internal/model"
	"EquiSync/internal/repository"
	"EquiSync/internal/venue"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IngestService turns raw producer records into classified competitions
// attached to canonical venues. Producers emit everything unfiltered;
// classification and venue identity are decided here, and a bad record is
// logged and counted, never allowed to abort the batch.
type IngestService struct {
	venueRepo  repository.VenueRepository
	compRepo   repository.CompetitionRepository
	classifier *classify.Classifier
	pipeline   *venue.Pipeline
	home       config.HomeConfig
	logger     *logrus.Logger
}

func NewIngestService(db *gorm.DB, classifier *classify.Classifier, pipeline *venue.Pipeline, cfg *config.Config, logger *logrus.Logger) *IngestService {
	return &IngestService{
		venueRepo:  repository.NewVenueRepository(db),
		compRepo:   repository.NewCompetitionRepository(db),
		classifier: classifier,
		pipeline:   pipeline,
		home:       cfg.Home,
		logger:     logger,
	}
}

// IngestResult reports per-batch counts back to the producer.
type IngestResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Failed   int `json:"failed"`
}

// IngestBatch processes one producer batch. Safe for concurrent batches from
// many producers: classification and normalization are pure, and venue
// creation races degrade to duplicates the reconciler collapses on its next
// run.
func (s *IngestService) IngestBatch(ctx context.Context, events []model.RawEvent) IngestResult {
	result := IngestResult{Received: len(events)}
	for i := range events {
		if err := s.ingestOne(ctx, &events[i]); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"event": events[i].Name,
				"url":   events[i].URL,
			}).Warn("ingest: record failed, continuing batch")
			result.Failed++
			continue
		}
		result.Stored++
	}
	return result
}

func (s *IngestService) ingestOne(ctx context.Context, raw *model.RawEvent) error {
	if raw.Name == "" || raw.URL == "" || raw.DateStart.IsZero() {
		return errors.New("malformed record: name, url and date_start are required")
	}

	discipline, eventType := s.classifier.Classify(raw.Name, raw.Description)
	if discipline == nil && raw.DisciplineHint != "" {
		hint := raw.DisciplineHint
		discipline = &hint
	}

	v, err := s.findOrCreateVenue(ctx, raw)
	if err != nil {
		return err
	}

	classes, err := json.Marshal(raw.Classes)
	if err != nil {
		return err
	}
	comp := &model.Competition{
		Name:           raw.Name,
		Discipline:     discipline,
		EventType:      eventType,
		DateStart:      raw.DateStart,
		DateEnd:        raw.DateEnd,
		VenueID:        v.ID,
		HasPonyClasses: raw.HasPonyClasses,
		Classes:        classes,
		URL:            raw.URL,
		Description:    raw.Description,
	}
	return s.compRepo.UpsertByURL(ctx, comp)
}

// findOrCreateVenue resolves the canonical venue for a raw record, creating
// the row on first sighting and backfilling postcode/coordinates/distance
// when the record or the seed directory supplies them.
func (s *IngestService) findOrCreateVenue(ctx context.Context, raw *model.RawEvent) (*model.Venue, error) {
	name := s.pipeline.Canonical(raw.VenueName, raw.VenuePostcode)

	postcode, lat, lng := s.venueFacts(name, raw)

	v, err := s.venueRepo.GetByName(ctx, name)
	switch {
	case err == nil:
		if s.backfill(v, postcode, lat, lng) {
			if err := s.venueRepo.Update(ctx, v); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		v = &model.Venue{Name: name, Postcode: postcode, Latitude: lat, Longitude: lng}
		v.DistanceMiles = distanceFromHome(s.home, v)
		if err := s.venueRepo.Create(ctx, v); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if alias := strings.TrimSpace(raw.VenueName); alias != "" && alias != name {
		if err := s.venueRepo.EnsureAlias(ctx, alias, v.ID); err != nil {
			s.logger.WithError(err).WithField("alias", alias).Warn("ingest: alias not recorded")
		}
	}
	return v, nil
}

// venueFacts picks postcode and coordinates for a canonical name: producer
// values when well-formed and inside the UK, seed authority data otherwise.
func (s *IngestService) venueFacts(name string, raw *model.RawEvent) (postcode *string, lat, lng *float64) {
	if pc := venue.FormatPostcode(raw.VenuePostcode); pc != "" {
		postcode = &pc
	}
	if raw.Latitude != nil && raw.Longitude != nil && venue.InUKBounds(*raw.Latitude, *raw.Longitude) {
		lat, lng = raw.Latitude, raw.Longitude
	}
	if entry, ok := s.pipeline.Store().Lookup(name); ok {
		if postcode == nil && entry.Postcode != "" {
			pc := entry.Postcode
			postcode = &pc
		}
		if lat == nil && entry.Lat != nil {
			lat, lng = entry.Lat, entry.Lng
		}
	}
	return postcode, lat, lng
}

func (s *IngestService) backfill(v *model.Venue, postcode *string, lat, lng *float64) bool {
	changed := false
	if v.Postcode == nil && postcode != nil {
		v.Postcode = postcode
		changed = true
	}
	if !v.HasCoordinates() && lat != nil && lng != nil {
		v.Latitude, v.Longitude = lat, lng
		changed = true
	}
	if d := distanceFromHome(s.home, v); d != nil && v.DistanceMiles == nil {
		v.DistanceMiles = d
		changed = true
	}
	return changed
}
