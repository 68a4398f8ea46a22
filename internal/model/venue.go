package model

import (
	"time"
)

// Venue is one physical location competitions run at. Name is the canonical
// display form produced by the venue pipeline; at steady state there is at
// most one row per real-world location, duplicates are a transient defect
// corrected by the reconciler.
type Venue struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:name;type:varchar(128);uniqueIndex;not null"`
	Postcode      *string   `gorm:"column:postcode;type:varchar(16)"`
	Latitude      *float64  `gorm:"column:latitude;type:numeric(9,6)"`
	Longitude     *float64  `gorm:"column:longitude;type:numeric(9,6)"`
	DistanceMiles *float64  `gorm:"column:distance_miles;type:numeric(8,2)"` // derived from home location
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (Venue) TableName() string { return "venues" }

// VenueAlias records a raw producer spelling that resolved to a venue.
// Remapped to the keeper alongside competitions when venues merge.
type VenueAlias struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Alias   string `gorm:"column:alias;type:varchar(256);uniqueIndex;not null"`
	VenueID uint64 `gorm:"column:venue_id;type:bigint;index;not null"`
}

func (VenueAlias) TableName() string { return "venue_aliases" }

// HasCoordinates reports whether both latitude and longitude are set.
func (v *Venue) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}
