/*
Package calendar provides the core calendar conversion engine.

PURPOSE:
  This package contains the types and algorithms for arbitrary,
  configurably-shaped calendars: variable-length months, intercalary
  festival days, pluggable leap-year rules, multi-moon phase cycles,
  named seasons/eras/cycles, and latitude-derived daylight. Whether the
  calendar is Gregorian, Harptos, or a homebrew ten-month year, the same
  engine converts a monotonic time scalar to structured components and
  back.

KEY CONCEPTS IN THIS FILE (model.go):
  - Model: Immutable, validated description of a calendar's shape
  - Components: The structured view of a time scalar (year/month/day/...)
  - Month/Weekday/Festival/Moon/Season/Era/Cycle: Shape building blocks
  - Clock: How many hours/minutes/seconds subdivide a day

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a function of (Model, inputs) only.
     The engine holds no mutable state and is safe for concurrent use.
  2. Totality: Conversion never fails at call time. Out-of-range
     components normalize by carrying overflow; malformed lookups
     resolve to "not found" rather than panicking.
  3. Eager validation: A Model is checked once when loaded. An invalid
     Model is fatal to that Model; a valid Model never errors later.
  4. Precision: Moon cycles may have fractional lengths. Phase positions
     use decimal.Decimal so they do not drift over large day counts.

USAGE:
  model := calendar.Model{...}
  warnings, err := model.Validate()
  if err != nil { ... }

  conv := calendar.NewConverter(&model)
  c := conv.TimeToComponents(scalar)
  back := conv.ComponentsToTime(c)

SEE ALSO:
  - validate.go: Model validation and derived lookup tables
  - convert.go:  Scalar <-> Components conversion and day-of-week
  - leap.go:     Leap-year rules
  - moon.go:     Moon phase calculation
  - season.go:   Season, era, and cycle resolvers
  - daylight.go: Latitude-derived daylight hours
*/
package calendar

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPONENTS - Structured view of a time scalar
// =============================================================================

// Components is the structured calendar view of a time scalar.
//
// Year is the internal year (no display offset applied), Month and
// DayOfMonth are 0-indexed. This shape is a wire contract shared with
// the host clock; yearZero offsets and 1-indexing for display happen at
// the presentation boundary, never inside the engine.
type Components struct {
	Year       int `json:"year"`
	Month      int `json:"month"`
	DayOfMonth int `json:"dayOfMonth"`
	Hour       int `json:"hour"`
	Minute     int `json:"minute"`
	Second     int `json:"second"`
}

// Date returns the day-precision part of the components.
func (c Components) Date() Components {
	return Components{Year: c.Year, Month: c.Month, DayOfMonth: c.DayOfMonth}
}

// SameDay reports whether two components fall on the same calendar day.
func (c Components) SameDay(other Components) bool {
	return c.Year == other.Year && c.Month == other.Month && c.DayOfMonth == other.DayOfMonth
}

// Before compares day-precision components in calendar order.
func (c Components) Before(other Components) bool {
	if c.Year != other.Year {
		return c.Year < other.Year
	}
	if c.Month != other.Month {
		return c.Month < other.Month
	}
	return c.DayOfMonth < other.DayOfMonth
}

// After compares day-precision components in calendar order.
func (c Components) After(other Components) bool {
	return other.Before(c)
}

// =============================================================================
// MODEL - Immutable calendar shape
// =============================================================================

// Model describes the complete shape of a calendar. A Model is pure
// data; it must be validated with Validate() before use, and must not
// be mutated afterwards.
type Model struct {
	Name string

	Months   []Month
	Weekdays []Weekday
	Years    YearsConfig
	Clock    Clock

	LeapRule  LeapRule
	Festivals []Festival
	Moons     []Moon
	Seasons   []Season
	Eras      []Era
	Cycles    []Cycle
	Daylight  Daylight

	// Derived lookup tables, built by Validate(). Never touched by
	// callers; all fields are read-only after validation.
	leapTerms        []leapTerm
	festivalIndex    map[festivalKey]int
	daysNonLeap      int64 // days in a non-leap year, festivals included
	daysLeap         int64 // days in a leap year, festivals included
	skippedNonLeap   int64 // weekday-skipped festival days per non-leap year
	skippedLeap      int64 // weekday-skipped festival days per leap year
	validated        bool
}

// DaysInWeek returns the length of the weekday cycle.
func (m *Model) DaysInWeek() int { return len(m.Weekdays) }

// Validated reports whether Validate has succeeded on this model.
func (m *Model) Validated() bool { return m.validated }

// Month is one month of the calendar year.
//
// A month with Days == 0 is skipped entirely by all iteration, even if
// festivals name it. Ordinals must be contiguous from 1.
type Month struct {
	Name    string
	Ordinal int
	Days    int

	// LeapDays, when set, replaces Days in leap years.
	LeapDays *int

	// FixedStartingWeekday, when set, pins the weekday of the month's
	// first day instead of carrying it from the cumulative day count.
	FixedStartingWeekday *int
}

// Weekday is one named day of the week cycle.
type Weekday struct {
	Name      string
	IsRestDay bool
}

// YearsConfig anchors the year numbering and the weekday cycle.
type YearsConfig struct {
	// YearZero is the display offset added to the internal year at the
	// presentation boundary. The engine itself never applies it.
	YearZero int

	// FirstWeekday is the weekday index the epoch year starts on.
	FirstWeekday int
}

// Clock subdivides a day into hours, minutes, and seconds.
type Clock struct {
	HoursPerDay      int
	MinutesPerHour   int
	SecondsPerMinute int
}

// SecondsPerDay returns the length of one day in seconds.
func (c Clock) SecondsPerDay() int64 {
	return int64(c.HoursPerDay) * int64(c.MinutesPerHour) * int64(c.SecondsPerMinute)
}

// SecondsPerHour returns the length of one hour in seconds.
func (c Clock) SecondsPerHour() int64 {
	return int64(c.MinutesPerHour) * int64(c.SecondsPerMinute)
}

// =============================================================================
// FESTIVALS - Intercalary days inserted into the month sequence
// =============================================================================

// Festival is an intercalary day occupying one slot of a month.
//
// DayOfMonth is the effective 0-indexed slot the festival occupies
// within its month; regular days after it shift by one. A festival
// always consumes a calendar day. Only the weekday cycle may ignore it:
// when CountsForWeekday is false the day neither consumes nor advances
// a weekday slot, and DayOfWeek reports NoWeekday for it.
type Festival struct {
	Name             string
	Month            int
	DayOfMonth       int
	CountsForWeekday bool
	LeapYearOnly     bool
}

type festivalKey struct {
	month int
	day   int
}

// =============================================================================
// MOONS
// =============================================================================

// Moon is one orbiting body with a cyclic phase sequence.
type Moon struct {
	Name string

	// CycleLength is the length of one full cycle in days. It may be
	// fractional (e.g. 29.53059 for Earth's moon).
	CycleLength decimal.Decimal

	// CycleDayAdjust shifts the computed position by a fraction of a day.
	CycleDayAdjust decimal.Decimal

	// ReferenceDate is a date on which the cycle position was 0.
	ReferenceDate Components

	// Phases partition [0,1) exactly: contiguous, non-overlapping, the
	// first starting at 0 and the last ending at 1.
	Phases []MoonPhase
}

// MoonPhase is one named segment of a moon's cycle.
type MoonPhase struct {
	Name  string
	Icon  string
	Start float64
	End   float64

	// SubPhases, when present, subdivide [Start,End) evenly into finer
	// named segments.
	SubPhases []string
}

// PhaseInfo is the result of a moon phase lookup.
type PhaseInfo struct {
	Moon     string  `json:"moon"`
	Phase    string  `json:"phase"`
	SubPhase string  `json:"subPhase,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	Position float64 `json:"position"`
}

// =============================================================================
// SEASONS / ERAS / CYCLES
// =============================================================================

// Season is a named day-of-year range. DayEnd < DayStart means the
// season wraps across the year boundary.
type Season struct {
	Name     string
	DayStart int
	DayEnd   int
	Color    string
	Icon     string
}

// Era is a named year range. A nil EndYear means open-ended.
type Era struct {
	Name      string
	StartYear int
	EndYear   *int
}

// CycleBasis selects which calendar quantity drives a cycle.
type CycleBasis string

const (
	BasisYear     CycleBasis = "year"     // absolute internal year
	BasisEraYear  CycleBasis = "eraYear"  // year within the current era
	BasisMonth    CycleBasis = "month"    // absolute month count from epoch
	BasisMonthDay CycleBasis = "monthDay" // day of month
	BasisDay      CycleBasis = "day"      // absolute day count from epoch
	BasisYearDay  CycleBasis = "yearDay"  // day of year
)

// Cycle is a repeating named sequence (e.g. zodiac animals) indexed by
// (basis + offset) mod length.
type Cycle struct {
	Name    string
	Length  int
	Offset  int
	BasedOn CycleBasis
	Entries []string
}

// CycleValue is one resolved cycle entry for a date.
type CycleValue struct {
	Cycle string `json:"cycle"`
	Entry string `json:"entry"`
	Index int    `json:"index"`
}

// =============================================================================
// DAYLIGHT
// =============================================================================

// Daylight configures latitude-derived daylight hours.
//
// When Enabled and Latitude is set, the shortest/longest day pair is
// derived from the latitude. Otherwise an explicit ShortestDay and
// LongestDay pair is used when present, and hoursPerDay/2 is the
// ultimate fallback.
type Daylight struct {
	Enabled           bool
	Latitude          *float64
	ShortestDay       *float64
	LongestDay        *float64
	WinterSolsticeDay int
	SummerSolsticeDay int
}
