package types

import (
	"time"

	"github.com/google/uuid"
)

// Reference-data entities managed by the admin console. These are thin CRUD
// resources; the trip wizard consumes them through selectors.

// Talent is an artist or performer on the roster.
type Talent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Website   string    `json:"website,omitempty"`
	Social    string    `json:"social,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTalentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Category string `json:"category,omitempty" validate:"max=100"`
	Bio      string `json:"bio,omitempty" validate:"max=5000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	Social   string `json:"social,omitempty" validate:"max=500"`
}

type UpdateTalentRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
	Social   *string `json:"social,omitempty" validate:"omitempty,max=500"`
}

// TripTalent is a talent booking on a trip.
type TripTalent struct {
	TripID   uuid.UUID `json:"trip_id"`
	TalentID uuid.UUID `json:"talent_id"`
	Role     string    `json:"role,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Location is a port or destination.
type Location struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Region      string    `json:"region,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateLocationRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Country     string `json:"country" validate:"required,min=2,max=100"`
	Region      string `json:"region,omitempty" validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Country     *string `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
	Region      *string `json:"region,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// LocationStats backs the locations dashboard card.
type LocationStats struct {
	Total     int `json:"total"`
	Countries int `json:"countries"`
	WithImage int `json:"with_image"`
}

// Ship is a cruise ship.
type Ship struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CruiseLine string    `json:"cruise_line,omitempty"`
	Capacity   int       `json:"capacity,omitempty"`
	Decks      int       `json:"decks,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateShipRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=200"`
	CruiseLine string `json:"cruise_line,omitempty" validate:"max=200"`
	Capacity   int    `json:"capacity,omitempty" validate:"gte=0"`
	Decks      int    `json:"decks,omitempty" validate:"gte=0"`
	ImageURL   string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateShipRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	CruiseLine *string `json:"cruise_line,omitempty" validate:"omitempty,max=200"`
	Capacity   *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Decks      *int    `json:"decks,omitempty" validate:"omitempty,gte=0"`
	ImageURL   *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Resort is a land property for resort trips.
type Resort struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	RoomCount   int        `json:"room_count,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateResortRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=200"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	RoomCount   int        `json:"room_count,omitempty" validate:"gte=0"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	ImageURL    string     `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateResortRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	RoomCount   *int       `json:"room_count,omitempty" validate:"omitempty,gte=0"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Venue is a bar, theater, pool deck or similar space on a ship or resort.
type Venue struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	VenueTypeID uuid.UUID `json:"venue_type_id"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type VenueType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CreateVenueRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	VenueTypeID uuid.UUID `json:"venue_type_id" validate:"required"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	ImageURL    string    `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateVenueRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	VenueTypeID *uuid.UUID `json:"venue_type_id,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Amenity is a bookable or advertised facility (spa, gym, casino).
type Amenity struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateAmenityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Category    string `json:"category,omitempty" validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type UpdateAmenityRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// AmenityStats backs the amenities dashboard card.
type AmenityStats struct {
	Total      int `json:"total"`
	Categories int `json:"categories"`
}
