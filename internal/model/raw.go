package model

import "time"

// RawEvent is the uniform record every source scraper emits. Producers send
// ALL events unfiltered; classification and venue canonicalization happen in
// this layer, never upstream.
type RawEvent struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	DateStart      time.Time  `json:"date_start" binding:"required"`
	DateEnd        *time.Time `json:"date_end"`
	VenueName      string     `json:"venue_name" binding:"required"`
	VenuePostcode  string     `json:"venue_postcode"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	DisciplineHint string     `json:"discipline_hint"`
	HasPonyClasses bool       `json:"has_pony_classes"`
	Classes        []string   `json:"classes"`
	URL            string     `json:"url" binding:"required"`
}
