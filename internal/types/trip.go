package types

import (
	"time"

	"github.com/google/uuid"
)

type TripType string

const (
	TripTypeCruise TripType = "cruise"
	TripTypeResort TripType = "resort"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPublished TripStatus = "published"
	TripStatusArchived  TripStatus = "archived"
)

// Trip is a cruise or resort trip as stored. A cruise sails on a ship and
// carries itinerary entries; a resort trip is anchored to a resort and
// carries schedule entries. A trip never has both kinds of day entry.
type Trip struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	TripType     TripType     `json:"trip_type"`
	Status       TripStatus   `json:"status"`
	StartDate    CalendarDate `json:"start_date"`
	EndDate      CalendarDate `json:"end_date"`
	ShipID       *uuid.UUID   `json:"ship_id,omitempty"`
	ResortID     *uuid.UUID   `json:"resort_id,omitempty"`
	Description  string       `json:"description,omitempty"`
	HeroImageURL string       `json:"hero_image_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DateRange returns the trip's official date range.
func (t Trip) DateRange() DateRange {
	return DateRange{Start: t.StartDate, End: t.EndDate}
}

// TripWithDays bundles a trip with its day entries, ordered by date.
type TripWithDays struct {
	Trip Trip        `json:"trip"`
	Days []*DayEntry `json:"days"`
}

type CreateTripRequest struct {
	Name         string       `json:"name" validate:"required,min=3,max=200"`
	TripType     TripType     `json:"trip_type" validate:"required,oneof=cruise resort"`
	StartDate    CalendarDate `json:"start_date" validate:"required"`
	EndDate      CalendarDate `json:"end_date" validate:"required"`
	ShipID       *uuid.UUID   `json:"ship_id,omitempty"`
	ResortID     *uuid.UUID   `json:"resort_id,omitempty"`
	Description  string       `json:"description,omitempty" validate:"max=2000"`
	HeroImageURL string       `json:"hero_image_url,omitempty" validate:"omitempty,url"`
}

type UpdateTripRequest struct {
	Name         *string     `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Status       *TripStatus `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	ShipID       *uuid.UUID  `json:"ship_id,omitempty"`
	ResortID     *uuid.UUID  `json:"resort_id,omitempty"`
	Description  *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	HeroImageURL *string     `json:"hero_image_url,omitempty" validate:"omitempty,url"`
}

// TripFilter narrows trip listings in the admin console.
type TripFilter struct {
	TripType *TripType
	Status   *TripStatus
	Year     *int
}

// TripStats backs the admin dashboard counters.
type TripStats struct {
	Total     int `json:"total"`
	Cruises   int `json:"cruises"`
	Resorts   int `json:"resorts"`
	Draft     int `json:"draft"`
	Published int `json:"published"`
	Archived  int `json:"archived"`
}
