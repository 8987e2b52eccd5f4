package types

import (
	"time"

	"github.com/google/uuid"
)

// Day-number encoding. Main-range days are numbered 1..N in date order.
// Pre-trip days are negative: -(days before trip start). Post-trip days
// start at PostTripDayBase: 100 + (days after trip end) - 1. The encoding is
// shared with existing stored trips and must not change.
const PostTripDayBase = 100

// DayEntry is a single day record on a trip: an itinerary entry (cruise) or
// a schedule entry (resort). The sync engine treats the content fields as an
// opaque payload; their non-emptiness decides whether an entry may be
// dropped without confirmation.
type DayEntry struct {
	ID            uuid.UUID    `json:"id"`
	TripID        uuid.UUID    `json:"trip_id"`
	Date          CalendarDate `json:"date"`
	DayNumber     int          `json:"day_number"`
	Description   string       `json:"description,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	PortName      string       `json:"port_name,omitempty"`
	ArrivalTime   string       `json:"arrival_time,omitempty"`
	DepartureTime string       `json:"departure_time,omitempty"`
	LocationID    *uuid.UUID   `json:"location_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty"`
}

// IsPreTrip reports whether the entry is a pre-trip day (before the main range).
func (e DayEntry) IsPreTrip() bool {
	return e.DayNumber < 1
}

// IsPostTrip reports whether the entry is a post-trip day (after the main range).
func (e DayEntry) IsPostTrip() bool {
	return e.DayNumber >= PostTripDayBase
}

// IsMainRange reports whether the entry falls within the trip's official dates.
func (e DayEntry) IsMainRange() bool {
	return !e.IsPreTrip() && !e.IsPostTrip()
}

// HasContent reports whether any user-entered content field is non-empty.
// Entries without content may be dropped silently during a date-range sync;
// entries with content always require explicit confirmation.
func (e DayEntry) HasContent() bool {
	return e.Description != "" ||
		e.ImageURL != "" ||
		e.PortName != "" ||
		e.ArrivalTime != "" ||
		e.DepartureTime != "" ||
		e.LocationID != nil
}

// PreTripDayNumber encodes a date strictly before start as a negative day
// number: the day immediately before start is -1.
func PreTripDayNumber(date, start CalendarDate) int {
	return -date.DaysUntil(start)
}

// PostTripDayNumber encodes a date strictly after end: the day immediately
// after end is PostTripDayBase. The -1 term is historical; stored trips
// depend on it, so it stays.
func PostTripDayNumber(date, end CalendarDate) int {
	return PostTripDayBase + end.DaysUntil(date) - 1
}
