package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventType says what kind of occurrence a listing is, independent of its
// discipline.
type EventType string

const (
	EventTypeCompetition EventType = "competition"
	EventTypeTraining    EventType = "training"
	EventTypeVenueHire   EventType = "venue_hire"
	EventTypeShow        EventType = "show"
	EventTypeSocial      EventType = "social"
	EventTypeOther       EventType = "other"
)

// Competition is a persisted calendar entry. It references its venue by id,
// never by name string; the reconciler reassigns VenueID when venues merge.
type Competition struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	EventUUID      string         `gorm:"column:event_uuid;type:varchar(64);uniqueIndex;not null"`
	Name           string         `gorm:"column:name;type:varchar(256);not null"`
	Discipline     *string        `gorm:"column:discipline;type:varchar(64)"`
	EventType      EventType      `gorm:"column:event_type;type:varchar(16);not null;default:competition"`
	DateStart      time.Time      `gorm:"column:date_start;type:timestamp;not null"`
	DateEnd        *time.Time     `gorm:"column:date_end;type:timestamp"`
	VenueID        uint64         `gorm:"column:venue_id;type:bigint;index;not null"`
	HasPonyClasses bool           `gorm:"column:has_pony_classes;type:boolean;default:false"`
	Classes        datatypes.JSON `gorm:"column:classes;type:jsonb"`
	URL            string         `gorm:"column:url;type:varchar(512);uniqueIndex;not null"`
	Description    string         `gorm:"column:description;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Competition) TableName() string { return "competitions" }
