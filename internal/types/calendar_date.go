package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// CalendarDate is a date-only value (no clock, no zone). Trip dates and
// day-entry dates are plain YYYY-MM-DD strings on the wire; doing day
// arithmetic through wall-clock time risks off-by-one drift around DST and
// UTC boundaries, so all date math in the codebase goes through this type.
type CalendarDate struct {
	t time.Time // always midnight UTC
}

const calendarDateLayout = "2006-01-02"

// NewCalendarDate constructs a CalendarDate from year, month, day.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date, ignoring the clock and
// the zone offset of the input.
func DateOf(t time.Time) CalendarDate {
	return NewCalendarDate(t.Year(), t.Month(), t.Day())
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(calendarDateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return CalendarDate{t: t}, nil
}

func (d CalendarDate) String() string {
	return d.t.Format(calendarDateLayout)
}

// Time returns the underlying midnight-UTC instant, for handing to pgx.
func (d CalendarDate) Time() time.Time {
	return d.t
}

func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the date n whole days after d (n may be negative).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of whole days from d to other.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.t.Before(other.t)
}

func (d CalendarDate) After(other CalendarDate) bool {
	return d.t.After(other.t)
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.t.Equal(other.t)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("calendar date must be a JSON string: %w", err)
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive trip date range. Start must be strictly before
// End; the UI enforces this but the sync engine validates defensively.
type DateRange struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// Validate reports whether the range is well formed.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range requires both start and end")
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("date range start %s must be before end %s", r.Start, r.End)
	}
	return nil
}

// Days returns the inclusive number of days covered by the range.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d falls within the range, inclusive of both ends.
func (r DateRange) Contains(d CalendarDate) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
