package repository

import (
	"context"
	"time"

	"EquiSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompetitionFilter narrows calendar queries.
type CompetitionFilter struct {
	Discipline string
	EventType  string
	VenueID    uint64
	FromDate   *time.Time
	ToDate     *time.Time
}

type CompetitionRepository interface {
	// UpsertByURL creates or refreshes a competition; the listing URL is
	// the natural dedupe key for re-scrapes of the same source.
	UpsertByURL(ctx context.Context, c *model.Competition) error
	GetByUUID(ctx context.Context, eventUUID string) (*model.Competition, error)
	List(ctx context.Context, filter CompetitionFilter, page, pageSize int) ([]*model.Competition, int64, error)
}

type competitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &competitionRepository{db: db}
}

func (r *competitionRepository) UpsertByURL(ctx context.Context, c *model.Competition) error {
	if c.EventUUID == "" {
		c.EventUUID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "discipline", "event_type", "date_start", "date_end",
			"venue_id", "has_pony_classes", "classes", "description", "updated_at",
		}),
	}).Create(c).Error
}

func (r *competitionRepository) GetByUUID(ctx context.Context, eventUUID string) (*model.Competition, error) {
	var c model.Competition
	if err := r.db.WithContext(ctx).Where("event_uuid = ?", eventUUID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *competitionRepository) List(ctx context.Context, filter CompetitionFilter, page, pageSize int) ([]*model.Competition, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.Competition{})
	if filter.Discipline != "" {
		db = db.Where("discipline = ?", filter.Discipline)
	}
	if filter.EventType != "" {
		db = db.Where("event_type = ?", filter.EventType)
	}
	if filter.VenueID != 0 {
		db = db.Where("venue_id = ?", filter.VenueID)
	}
	if filter.FromDate != nil {
		db = db.Where("date_start >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		db = db.Where("date_start <= ?", *filter.ToDate)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Competition
	if err := db.Order("date_start ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
