/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine model from the external API contract, and they are
  the ONLY place display conventions are applied:
  - Years carry the yearZero display offset
  - Months and days of month are 1-indexed
  Inside the engine everything stays internal-year and 0-indexed.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Calendar:
    CalendarDTO, CreateCalendarRequest, LoadPresetRequest, PresetDTO

  Time:
    DateRequest, DateDTO, SetTimeRequest, AdvanceTimeRequest

  Days:
    DayDTO, MonthGridDTO

  Events:
    OccurrenceDTO, OccurrencesRequest
    (recurrence.Event carries its own JSON tags and is used directly)

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/calendar.go: CalendarJSON, the stored configuration schema
*/
package api

import (
	"encoding/json"

	"github.com/almanac/calendar-engine/calendar"
)

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// CalendarDTO represents a stored calendar in API responses.
type CalendarDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	WorldTime int64    `json:"worldTime"`
	Warnings  []string `json:"warnings,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// CreateCalendarRequest is the request to create or replace a calendar.
// Config is a document in the factory schema; it is validated before
// anything is stored.
type CreateCalendarRequest struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// PresetDTO describes a built-in calendar configuration.
type PresetDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// LoadPresetRequest loads a built-in configuration as a new calendar.
type LoadPresetRequest struct {
	Preset string `json:"preset"`
	ID     string `json:"id,omitempty"`
}

// =============================================================================
// TIME TYPES
// =============================================================================

// DateRequest is a display-indexed date from clients: year includes the
// yearZero offset, month and day are 1-indexed.
type DateRequest struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// SetTimeRequest sets the world clock, either to an absolute scalar or
// to a display-indexed date. Exactly one of the two should be set; Time
// wins when both are.
type SetTimeRequest struct {
	Time *int64       `json:"time,omitempty"`
	Date *DateRequest `json:"date,omitempty"`
}

// AdvanceTimeRequest moves the world clock forward (or backward, with
// negative values) by structured amounts.
type AdvanceTimeRequest struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// DateDTO is the full display view of one instant.
type DateDTO struct {
	Time      int64  `json:"time"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Second    int    `json:"second"`

	// Weekday is empty on days that do not consume a weekday slot.
	Weekday  string `json:"weekday,omitempty"`
	Festival string `json:"festival,omitempty"`

	Era     string `json:"era,omitempty"`
	EraYear int    `json:"eraYear,omitempty"`

	Season        string                `json:"season,omitempty"`
	Moons         []calendar.PhaseInfo  `json:"moons,omitempty"`
	Cycles        []calendar.CycleValue `json:"cycles,omitempty"`
	DaylightHours float64               `json:"daylightHours,omitempty"`
}

// =============================================================================
// DAY GRID TYPES
// =============================================================================

// DayDTO is one cell of a month grid.
type DayDTO struct {
	Day           int                  `json:"day"`
	Time          int64                `json:"time"`
	Weekday       string               `json:"weekday,omitempty"`
	IsRestDay     bool                 `json:"isRestDay,omitempty"`
	Festival      string               `json:"festival,omitempty"`
	Season        string               `json:"season,omitempty"`
	Moons         []calendar.PhaseInfo `json:"moons,omitempty"`
	DaylightHours float64              `json:"daylightHours,omitempty"`
	Events        []string             `json:"events,omitempty"`
}

// MonthGridDTO is the display view of one month.
type MonthGridDTO struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	MonthName string   `json:"monthName"`
	Weekdays  []string `json:"weekdays"`
	Days      []DayDTO `json:"days"`
}

// =============================================================================
// EVENT TYPES
// =============================================================================

// OccurrencesRequest asks for event occurrences over a display-indexed
// inclusive date range.
type OccurrencesRequest struct {
	From DateRequest `json:"from"`
	To   DateRequest `json:"to"`
}

// OccurrenceDTO is one event landing on one day.
type OccurrenceDTO struct {
	EventID string  `json:"eventId"`
	Title   string  `json:"title"`
	Date    DateDTO `json:"date"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
