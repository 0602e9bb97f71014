/*
Package recurrence answers "does this event occur on this date?".

PURPOSE:
  This package contains the recurrence descriptor consumed from the
  scheduling layer and the Matcher that evaluates it against candidate
  dates. A week or agenda view calls Matches once per (visible day x
  pending event) pair, so evaluation is a short-circuiting conjunction
  of cheap gates with no side effects.

KEY CONCEPTS IN THIS FILE (types.go):
  - Event: The recurrence descriptor (read-only to this engine)
  - RepeatKind: Closed set of recurrence families
  - MoonCondition/RandomConfig/RangePattern/ComputedConfig: Per-kind
    configuration carried only by the variants that use it

DESIGN PRINCIPLES:
  1. No match beats no answer: malformed descriptors (unknown kinds,
     out-of-range moon indexes, zero-length cycles) resolve to "does
     not occur", never to a panic. Recurrence data arrives from lossy
     imports and half-finished UI edits.
  2. Determinism: random occurrences derive from (seed, absolute day)
     alone, so re-deriving for the same seed and range is always
     byte-identical.
  3. Caller-owned state: the only mutable state is the Memo cache for
     derived random occurrences, injected and synchronized by the
     caller. The engine reads or populates it, never mutates in place.

SEE ALSO:
  - matcher.go: Gate evaluation
  - random.go:  Seeded occurrence derivation
  - memo.go:    Memo interface and in-memory implementation
*/
package recurrence

import (
	"github.com/almanac/calendar-engine/calendar"
)

// =============================================================================
// REPEAT KINDS
// =============================================================================

// RepeatKind identifies the recurrence family of an event.
type RepeatKind string

const (
	RepeatNever        RepeatKind = "never"        // single occurrence (or explicit date range)
	RepeatDaily        RepeatKind = "daily"        // every Interval days
	RepeatWeekly       RepeatKind = "weekly"       // every Interval weeks
	RepeatMonthly      RepeatKind = "monthly"      // same day slot every Interval months
	RepeatYearly       RepeatKind = "yearly"       // same month and day every Interval years
	RepeatMoon         RepeatKind = "moon"         // all moon phase conditions satisfied
	RepeatSeasonal     RepeatKind = "seasonal"     // date falls in an allowed season
	RepeatRandom       RepeatKind = "random"       // seeded probabilistic occurrences
	RepeatLinked       RepeatKind = "linked"       // delegates to another event, day-shifted
	RepeatRangePattern RepeatKind = "rangePattern" // e.g. third Rainday of each month
	RepeatComputed     RepeatKind = "computed"     // declarative formula over calendar quantities
)

// =============================================================================
// PER-KIND CONFIGURATION
// =============================================================================

// MoonCondition gates an occurrence on one moon's cycle position.
// PhaseEnd < PhaseStart wraps around the cycle boundary.
type MoonCondition struct {
	Moon       int     `json:"moon"`
	PhaseStart float64 `json:"phaseStart"`
	PhaseEnd   float64 `json:"phaseEnd"`
}

// RandomConfig derives occurrences from a seeded roll every
// CheckInterval days. Probability is per roll, in [0,1].
type RandomConfig struct {
	Probability   float64 `json:"probability"`
	Seed          uint64  `json:"seed"`
	CheckInterval int     `json:"checkInterval"`
}

// RangePattern matches "the Nth <weekday> of the month". Ordinal is
// 1-based; -1 selects the last such weekday. A nil Month applies to
// every month.
type RangePattern struct {
	Weekday int  `json:"weekday"`
	Ordinal int  `json:"ordinal"`
	Month   *int `json:"month,omitempty"`
}

// ComputedKind identifies the formula family of a computed event.
type ComputedKind string

const (
	// ComputedLeapYear matches the event's anniversary in leap years only.
	ComputedLeapYear ComputedKind = "leapYear"
	// ComputedModulo matches when a calendar basis quantity satisfies
	// basis mod Divisor == Remainder.
	ComputedModulo ComputedKind = "modulo"
)

// ComputedConfig is a declarative formula descriptor.
type ComputedConfig struct {
	Kind      ComputedKind        `json:"kind"`
	Basis     calendar.CycleBasis `json:"basis,omitempty"`
	Divisor   int                 `json:"divisor,omitempty"`
	Remainder int                 `json:"remainder,omitempty"`
}

// =============================================================================
// EVENT - The recurrence descriptor
// =============================================================================

// Event is the recurrence descriptor for one scheduled entry. It is
// created by the scheduling caller and is immutable during a match
// evaluation; the engine never writes to it.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Start calendar.Components `json:"start"`
	// End, when set and different from Start, makes a "never" event
	// span the inclusive [Start, End] range.
	End *calendar.Components `json:"end,omitempty"`

	Repeat   RepeatKind `json:"repeat"`
	Interval int        `json:"interval,omitempty"` // periodic step; values below 1 are treated as 1

	// RepeatEnd bounds the recurrence; MaxOccurrences bounds the
	// periodic occurrence index (0 means unbounded).
	RepeatEnd      *calendar.Components `json:"repeatEnd,omitempty"`
	MaxOccurrences int                  `json:"maxOccurrences,omitempty"`

	// Gates independent of Repeat: when set, the candidate's weekday
	// and/or 1-based week-of-month must match.
	Weekday    *int `json:"weekday,omitempty"`
	WeekNumber *int `json:"weekNumber,omitempty"`

	MoonConditions []MoonCondition `json:"moonConditions,omitempty"`
	Seasons        []string        `json:"seasons,omitempty"`
	Random         *RandomConfig   `json:"random,omitempty"`
	LinkedTo       string          `json:"linkedTo,omitempty"`
	LinkOffsetDays int             `json:"linkOffsetDays,omitempty"`
	RangePattern   *RangePattern   `json:"rangePattern,omitempty"`
	Computed       *ComputedConfig `json:"computed,omitempty"`
}

// interval returns the periodic step, defaulting to 1.
func (e *Event) interval() int64 {
	if e.Interval < 1 {
		return 1
	}
	return int64(e.Interval)
}
