package repository

import (
	"context"

	"EquiSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VenueRepository is the persistence surface of the venue table. Venues are
// created lazily on first sighting of a canonical name and only ever
// merged/deleted by the reconciler.
type VenueRepository interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	GetByName(ctx context.Context, name string) (*model.Venue, error)
	Create(ctx context.Context, v *model.Venue) error
	Update(ctx context.Context, v *model.Venue) error
	// ListAll returns every venue ordered by id; row order is what the
	// reconciler's first-non-null field merge is defined over.
	ListAll(ctx context.Context) ([]*model.Venue, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Venue, int64, error)
	// EnsureAlias records a raw spelling that resolved to a venue.
	EnsureAlias(ctx context.Context, alias string, venueID uint64) error
	// MergeGroup atomically remaps competitions and aliases from the
	// losers to the keeper, deletes the losers and saves the keeper's
	// merged fields. One transaction per group keeps the reconciler
	// interruptible with partial progress retained.
	MergeGroup(ctx context.Context, keeper *model.Venue, loserIDs []uint64) error
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	var v model.Venue
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) Create(ctx context.Context, v *model.Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *venueRepository) Update(ctx context.Context, v *model.Venue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *venueRepository) ListAll(ctx context.Context) ([]*model.Venue, error) {
	var venues []*model.Venue
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) List(ctx context.Context, page, pageSize int) ([]*model.Venue, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.Venue{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var venues []*model.Venue
	if err := db.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&venues).Error; err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}

func (r *venueRepository) EnsureAlias(ctx context.Context, alias string, venueID uint64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoNothing: true,
	}).Create(&model.VenueAlias{Alias: alias, VenueID: venueID}).Error
}

func (r *venueRepository) MergeGroup(ctx context.Context, keeper *model.Venue, loserIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(loserIDs) > 0 {
			// Unscoped so soft-deleted competitions keep a valid FK too.
			if err := tx.Unscoped().Model(&model.Competition{}).
				Where("venue_id IN ?", loserIDs).
				Update("venue_id", keeper.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.VenueAlias{}).
				Where("venue_id IN ?", loserIDs).
				Update("venue_id", keeper.ID).Error; err != nil {
				return err
			}
			// Losers go before the keeper rename: one of them may still
			// hold the canonical name the keeper is about to take.
			if err := tx.Where("id IN ?", loserIDs).
				Delete(&model.Venue{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(keeper).Error
	})
}
