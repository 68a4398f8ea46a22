package service

import (
	"context"
	"testing"
	"time"

	"EquiSync/internal/classify"
	"EquiSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestBatchCreatesCanonicalVenueOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		{Name: "Spring Show Jumping Championship", DateStart: start, VenueName: "Kelsall Hill EC", VenuePostcode: "CW60PE", URL: "https://example.com/a"},
		{Name: "Dressage Training Session", DateStart: start, VenueName: "Kelsall Hill Equestrian Centre", URL: "https://example.com/b"},
	}
	result := svc.IngestBatch(ctx, events)
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 2, result.Stored)
	assert.Equal(t, 0, result.Failed)

	var venues []model.Venue
	require.NoError(t, db.Find(&venues).Error)
	require.Len(t, venues, 1)
	v := venues[0]
	assert.Equal(t, "Kelsall Hill", v.Name)
	require.NotNil(t, v.Postcode)
	assert.Equal(t, "CW6 0PE", *v.Postcode)
	// Coordinates come from the seed directory when producers have none.
	require.True(t, v.HasCoordinates())
	require.NotNil(t, v.DistanceMiles)

	var comps []model.Competition
	require.NoError(t, db.Order("url").Find(&comps).Error)
	require.Len(t, comps, 2)
	sj, dt := comps[0], comps[1]
	require.NotNil(t, sj.Discipline)
	assert.Equal(t, "Show Jumping", *sj.Discipline)
	assert.Equal(t, model.EventTypeCompetition, sj.EventType)
	assert.Equal(t, v.ID, sj.VenueID)
	assert.NotEmpty(t, sj.EventUUID)
	require.NotNil(t, dt.Discipline)
	assert.Equal(t, "Dressage", *dt.Discipline)
	assert.Equal(t, model.EventTypeTraining, dt.EventType)

	// Raw spellings that differ from the canonical name are recorded as
	// aliases against the venue.
	var aliases []model.VenueAlias
	require.NoError(t, db.Find(&aliases).Error)
	assert.Len(t, aliases, 2)
	for _, a := range aliases {
		assert.Equal(t, v.ID, a.VenueID)
	}
}

func TestIngestBadRecordDoesNotAbortBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		{Name: "Missing URL", DateStart: start, VenueName: "Somewhere"},
		{Name: "Polework Clinic", DateStart: start, VenueName: "Somerford Park", URL: "https://example.com/c"},
	}
	result := svc.IngestBatch(ctx, events)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Stored)

	var comps []model.Competition
	require.NoError(t, db.Find(&comps).Error)
	require.Len(t, comps, 1)
	assert.Equal(t, model.EventTypeTraining, comps[0].EventType)
	assert.Nil(t, comps[0].Discipline)
}

func TestIngestNonCompetitionsAreStillStored(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	result := svc.IngestBatch(ctx, []model.RawEvent{
		{Name: "Indoor Arena Hire", DateStart: start, VenueName: "Somerford Park", URL: "https://example.com/h"},
	})
	assert.Equal(t, 1, result.Stored)

	var comp model.Competition
	require.NoError(t, db.First(&comp).Error)
	assert.Equal(t, model.EventTypeVenueHire, comp.EventType)
}

func TestIngestUnusableVenueNameBecomesTbc(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	result := svc.IngestBatch(ctx, []model.RawEvent{
		{Name: "Mystery Event", DateStart: start, VenueName: "   ", URL: "https://example.com/t"},
	})
	assert.Equal(t, 1, result.Stored)

	var v model.Venue
	require.NoError(t, db.First(&v).Error)
	assert.Equal(t, "Tbc", v.Name)
	assert.Nil(t, v.DistanceMiles)
}

func TestIngestOnlineVenueDistanceZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	result := svc.IngestBatch(ctx, []model.RawEvent{
		{Name: "Online Dressage League", DateStart: start, VenueName: "Online", URL: "https://example.com/o"},
	})
	assert.Equal(t, 1, result.Stored)

	var v model.Venue
	require.NoError(t, db.First(&v).Error)
	assert.Equal(t, "Online", v.Name)
	require.NotNil(t, v.DistanceMiles)
	assert.Zero(t, *v.DistanceMiles)
}

func TestIngestUpsertsByURL(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	event := model.RawEvent{Name: "Summer Hunter Trial", DateStart: start, VenueName: "Somerford Park", URL: "https://example.com/u"}
	svc.IngestBatch(ctx, []model.RawEvent{event})

	// A re-scrape of the same listing updates rather than duplicates.
	event.Name = "Summer Hunter Trial (Updated)"
	result := svc.IngestBatch(ctx, []model.RawEvent{event})
	assert.Equal(t, 1, result.Stored)

	var comps []model.Competition
	require.NoError(t, db.Find(&comps).Error)
	require.Len(t, comps, 1)
	assert.Equal(t, "Summer Hunter Trial (Updated)", comps[0].Name)
}

func TestIngestDisciplineHintFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.IngestBatch(ctx, []model.RawEvent{
		{Name: "Club Night", DateStart: start, VenueName: "Somerford Park", DisciplineHint: "Showing", URL: "https://example.com/d"},
	})

	var comp model.Competition
	require.NoError(t, db.First(&comp).Error)
	require.NotNil(t, comp.Discipline)
	assert.Equal(t, "Showing", *comp.Discipline)
}

func TestIngestBackfillsExistingVenue(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db, classify.New(classify.DefaultRules()), newTestPipeline(t), testConfig(), quietLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Venue{Name: "Somerford Park"}).Error)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.IngestBatch(ctx, []model.RawEvent{
		{Name: "Arena Eventing", DateStart: start, VenueName: "Somerford Park", VenuePostcode: "CW124SW",
			Latitude: f64Ptr(53.1772), Longitude: f64Ptr(-2.2525), URL: "https://example.com/s"},
	})

	var v model.Venue
	require.NoError(t, db.First(&v).Error)
	require.NotNil(t, v.Postcode)
	assert.Equal(t, "CW12 4SW", *v.Postcode)
	require.True(t, v.HasCoordinates())
	require.NotNil(t, v.DistanceMiles)
}
