package service

import (
	"context"

	"EquiSync/internal/config"
	"EquiSync/internal/geo"
	"EquiSync/internal/model"
	"EquiSync/internal/repository"
	"EquiSync/internal/venue"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcileService is the batch pass that collapses duplicate venue rows
// created by normalization drift. Every row's canonical name is recomputed
// fresh (normalise -> resolve -> disambiguate with the row's own postcode),
// rows are grouped by the result, and each multi-row group is consolidated:
// pick a keeper, merge missing fields, remap foreign keys, delete the
// losers. Work is per group, in its own transaction, so a failed group never
// aborts groups already processed and the pass is re-runnable: it only ever
// collapses duplicates.
type ReconcileService struct {
	venueRepo      repository.VenueRepository
	pipeline       *venue.Pipeline
	home           config.HomeConfig
	thresholdMiles float64
	logger         *logrus.Logger
}

func NewReconcileService(db *gorm.DB, pipeline *venue.Pipeline, cfg *config.Config, logger *logrus.Logger) *ReconcileService {
	return &ReconcileService{
		venueRepo:      repository.NewVenueRepository(db),
		pipeline:       pipeline,
		home:           cfg.Home,
		thresholdMiles: cfg.Reconcile.ConflictThresholdMiles,
		logger:         logger,
	}
}

// ReconcileStats summarizes one pass. A second consecutive run with no
// intervening data change reports zero merges and zero renames.
type ReconcileStats struct {
	Venues    int `json:"venues"`
	Groups    int `json:"groups"`
	Merged    int `json:"merged"`
	Renamed   int `json:"renamed"`
	Conflicts int `json:"conflicts"`
	Failed    int `json:"failed"`
}

// Run executes one reconciliation pass. It checks ctx between groups, so an
// interrupted pass retains the progress of every group already committed.
func (s *ReconcileService) Run(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	venues, err := s.venueRepo.ListAll(ctx)
	if err != nil {
		return stats, err
	}
	stats.Venues = len(venues)

	// Group by recomputed canonical name. Key order follows first sighting
	// and rows inside a group keep id order, which is what the
	// first-non-null field merge is defined over.
	groups := make(map[string][]*model.Venue, len(venues))
	var order []string
	for _, v := range venues {
		postcode := ""
		if v.Postcode != nil {
			postcode = *v.Postcode
		}
		canonical := s.pipeline.Canonical(v.Name, postcode)
		if _, seen := groups[canonical]; !seen {
			order = append(order, canonical)
		}
		groups[canonical] = append(groups[canonical], v)
	}
	stats.Groups = len(order)

	for _, canonical := range order {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		group := groups[canonical]
		if len(group) == 1 {
			if err := s.reconcileSingleton(ctx, canonical, group[0], &stats); err != nil {
				s.logger.WithError(err).WithField("venue", canonical).
					Warn("reconcile: singleton update failed, continuing")
				stats.Failed++
			}
			continue
		}
		if s.conflicted(group) {
			s.logger.WithFields(logrus.Fields{
				"venue": canonical,
				"rows":  len(group),
			}).Warn("reconcile: coordinates disagree beyond threshold, flagged for manual review")
			stats.Conflicts++
			continue
		}
		if err := s.mergeGroup(ctx, canonical, group, &stats); err != nil {
			s.logger.WithError(err).WithField("venue", canonical).
				Warn("reconcile: group merge failed, continuing")
			stats.Failed++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"venues":    stats.Venues,
		"groups":    stats.Groups,
		"merged":    stats.Merged,
		"renamed":   stats.Renamed,
		"conflicts": stats.Conflicts,
		"failed":    stats.Failed,
	}).Info("reconcile: pass complete")
	return stats, nil
}

// reconcileSingleton fixes drift in place: stored name differing from the
// recomputed canonical form, or authority fields the row is still missing.
func (s *ReconcileService) reconcileSingleton(ctx context.Context, canonical string, v *model.Venue, stats *ReconcileStats) error {
	changed := false
	if v.Name != canonical {
		v.Name = canonical
		stats.Renamed++
		changed = true
	}
	if entry, ok := s.pipeline.Store().Lookup(canonical); ok {
		if v.Postcode == nil && entry.Postcode != "" {
			pc := entry.Postcode
			v.Postcode = &pc
			changed = true
		}
		if !v.HasCoordinates() && entry.Lat != nil {
			v.Latitude, v.Longitude = entry.Lat, entry.Lng
			changed = true
		}
	}
	if d := distanceFromHome(s.home, v); d != nil && v.DistanceMiles == nil {
		v.DistanceMiles = d
		changed = true
	}
	if !changed {
		return nil
	}
	return s.venueRepo.Update(ctx, v)
}

func (s *ReconcileService) mergeGroup(ctx context.Context, canonical string, group []*model.Venue, stats *ReconcileStats) error {
	keeper := pickKeeper(group, canonical)

	loserIDs := make([]uint64, 0, len(group)-1)
	for _, v := range group {
		if v.ID != keeper.ID {
			loserIDs = append(loserIDs, v.ID)
		}
	}

	// First non-null wins, in row order; the keeper's own values are
	// already first in priority because missing fields are the only ones
	// filled.
	if keeper.Postcode == nil {
		for _, v := range group {
			if v.Postcode != nil {
				keeper.Postcode = v.Postcode
				break
			}
		}
	}
	if !keeper.HasCoordinates() {
		for _, v := range group {
			if v.HasCoordinates() {
				keeper.Latitude, keeper.Longitude = v.Latitude, v.Longitude
				break
			}
		}
	}

	renamed := keeper.Name != canonical
	keeper.Name = canonical
	if d := distanceFromHome(s.home, keeper); d != nil {
		keeper.DistanceMiles = d
	}

	if err := s.venueRepo.MergeGroup(ctx, keeper, loserIDs); err != nil {
		return err
	}
	stats.Merged += len(loserIDs)
	if renamed {
		stats.Renamed++
	}
	return nil
}

// pickKeeper chooses the surviving row: name already canonical beats having
// coordinates beats having a postcode; equally ranked rows tie-break on
// lowest id so the choice is deterministic across runs.
func pickKeeper(group []*model.Venue, canonical string) *model.Venue {
	best := group[0]
	for _, v := range group[1:] {
		if betterKeeper(v, best, canonical) {
			best = v
		}
	}
	return best
}

func betterKeeper(a, b *model.Venue, canonical string) bool {
	if (a.Name == canonical) != (b.Name == canonical) {
		return a.Name == canonical
	}
	if a.HasCoordinates() != b.HasCoordinates() {
		return a.HasCoordinates()
	}
	if (a.Postcode != nil) != (b.Postcode != nil) {
		return a.Postcode != nil
	}
	return a.ID < b.ID
}

// conflicted reports a merge conflict: rows in the group carry coordinates
// further apart than the configured threshold. Such groups are never
// auto-resolved.
func (s *ReconcileService) conflicted(group []*model.Venue) bool {
	var located []*model.Venue
	for _, v := range group {
		if v.HasCoordinates() {
			located = append(located, v)
		}
	}
	for i := 0; i < len(located); i++ {
		for j := i + 1; j < len(located); j++ {
			d := geo.Miles(*located[i].Latitude, *located[i].Longitude,
				*located[j].Latitude, *located[j].Longitude)
			if d > s.thresholdMiles {
				return true
			}
		}
	}
	return false
}

// distanceFromHome derives miles from the configured home location. Online
// venues are pinned to zero; rows without coordinates have no distance until
// one is backfilled. No distance is derived while the home location is
// unset or outside the UK, otherwise the zero value would silently measure
// from (0,0).
func distanceFromHome(home config.HomeConfig, v *model.Venue) *float64 {
	if v.Name == venue.OnlineVenue {
		zero := 0.0
		return &zero
	}
	if !venue.InUKBounds(home.Latitude, home.Longitude) || !v.HasCoordinates() {
		return nil
	}
	d := geo.Miles(home.Latitude, home.Longitude, *v.Latitude, *v.Longitude)
	return &d
}
