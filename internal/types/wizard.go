package types

import (
	"time"

	"github.com/google/uuid"
)

// DayPosition says which side of the main range a manually added day goes.
type DayPosition string

const (
	DayPositionBefore DayPosition = "before"
	DayPositionAfter  DayPosition = "after"
)

// WizardState is the trip-in-progress held by an open wizard session. It is
// mutated only through the wizard container's named operations so that dates
// and day entries can never be updated out of step with each other.
type WizardState struct {
	SessionID    uuid.UUID    `json:"session_id"`
	TripID       *uuid.UUID   `json:"trip_id,omitempty"` // set in edit mode
	Name         string       `json:"name"`
	TripType     TripType     `json:"trip_type"`
	Dates        DateRange    `json:"dates"`
	Entries      []DayEntry   `json:"entries"`
	ShipID       *uuid.UUID   `json:"ship_id,omitempty"`
	ResortID     *uuid.UUID   `json:"resort_id,omitempty"`
	Description  string       `json:"description,omitempty"`
	HeroImageURL string       `json:"hero_image_url,omitempty"`
	TalentIDs    []uuid.UUID  `json:"talent_ids,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type StartWizardRequest struct {
	TripID    *uuid.UUID   `json:"trip_id,omitempty"` // resume editing an existing trip
	Name      string       `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	TripType  TripType     `json:"trip_type,omitempty" validate:"omitempty,oneof=cruise resort"`
	StartDate CalendarDate `json:"start_date,omitempty"`
	EndDate   CalendarDate `json:"end_date,omitempty"`
}

// UpdateWizardDatesRequest changes the trip's date range. When the change
// would delete day entries that carry content the server answers 409 with
// the doomed entries; the client repeats the request with Confirm set after
// the editor has approved the deletion.
type UpdateWizardDatesRequest struct {
	StartDate CalendarDate `json:"start_date" validate:"required"`
	EndDate   CalendarDate `json:"end_date" validate:"required"`
	Confirm   bool         `json:"confirm,omitempty"`
}

// DateChangeConflict is the 409 payload listing entries that would be lost.
type DateChangeConflict struct {
	Message         string     `json:"message"`
	EntriesToDelete []DayEntry `json:"entries_to_delete"`
}

type AddDayRequest struct {
	Date     CalendarDate `json:"date" validate:"required"`
	Position DayPosition  `json:"position" validate:"required,oneof=before after"`
}

type UpdateDayRequest struct {
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL      *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	PortName      *string    `json:"port_name,omitempty" validate:"omitempty,max=200"`
	ArrivalTime   *string    `json:"arrival_time,omitempty" validate:"omitempty,max=20"`
	DepartureTime *string    `json:"departure_time,omitempty" validate:"omitempty,max=20"`
	LocationID    *uuid.UUID `json:"location_id,omitempty"`
}

type UpdateWizardMetaRequest struct {
	Name         *string     `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	ShipID       *uuid.UUID  `json:"ship_id,omitempty"`
	ResortID     *uuid.UUID  `json:"resort_id,omitempty"`
	Description  *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	HeroImageURL *string     `json:"hero_image_url,omitempty" validate:"omitempty,url"`
	TalentIDs    []uuid.UUID `json:"talent_ids,omitempty"`
}

// WizardDraft is a persisted wizard snapshot that can be resumed later.
type WizardDraft struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	State     WizardState `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
