package types

import "github.com/google/uuid"

// BulkImportRequest carries reference-data rows to load in one batch.
type BulkImportRequest struct {
	Locations []CreateLocationRequest `json:"locations,omitempty"`
	Talent    []CreateTalentRequest   `json:"talent,omitempty"`
	Amenities []CreateAmenityRequest  `json:"amenities,omitempty"`
}

// BulkItemResult reports one row of a bulk import. Failed rows carry the
// error message; the batch as a whole still completes.
type BulkItemResult struct {
	Entity  string     `json:"entity"`
	Index   int        `json:"index"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}

// BulkImportResult is the full per-item report for a batch.
type BulkImportResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// BulkExport is a full snapshot of the console's data for backup or
// migration.
type BulkExport struct {
	Trips     []*Trip     `json:"trips"`
	Talent    []*Talent   `json:"talent"`
	Locations []*Location `json:"locations"`
	Ships     []*Ship     `json:"ships"`
	Resorts   []*Resort   `json:"resorts"`
	Venues    []*Venue    `json:"venues"`
	Amenities []*Amenity  `json:"amenities"`
}
