/*
season.go - Season, era, and cycle resolvers

PURPOSE:
  Named-interval lookups keyed by day-of-year (seasons), year (eras),
  or a modular index (cycles).

POLICIES:
  - Seasons: DayEnd < DayStart wraps across the year boundary; the day
    matches when dayOfYear >= DayStart OR dayOfYear <= DayEnd.
    Validation guarantees exactly one season matches every regular day;
    leap-added days go to a covering wrap-around season, else to the
    last regular day's season.
  - Eras: interval containment over [StartYear, EndYear], nil EndYear
    open-ended. When imported data defines overlapping eras, the
    most-recently-defined era wins (the last matching entry in
    definition order). Validation warns about overlaps.
  - Cycles: index = floormod(basis + offset, length). A cycle with a
    non-positive length, an unknown basis, or an index beyond its
    entries is skipped rather than failing the lookup.

SEE ALSO:
  - validate.go: Season coverage check, era overlap warnings
*/
package calendar

import (
	"fmt"
	"strings"
)

// =============================================================================
// SEASONS
// =============================================================================

// CurrentSeason returns the season containing a 0-indexed day of year,
// and its index in the model. ok is false only when the model defines
// no seasons; a validated non-empty season list covers every day.
//
// Season ranges are defined over the regular (non-leap) year. On the
// extra day(s) a leap year appends, a wrap-around season that has
// already started absorbs the day; otherwise the day keeps the season
// of the last regular day.
func (cv *Converter) CurrentSeason(dayOfYear int) (Season, int, bool) {
	m := cv.m
	if len(m.Seasons) == 0 {
		return Season{}, 0, false
	}
	longest := m.daysLeap
	if m.daysNonLeap > longest {
		longest = m.daysNonLeap
	}
	if longest > 0 {
		dayOfYear = int(floorMod64(int64(dayOfYear), longest))
	}
	for i := range m.Seasons {
		if seasonContains(&m.Seasons[i], dayOfYear) {
			return m.Seasons[i], i, true
		}
	}
	// A leap-added day sits past every validated range. Wrap-around
	// seasons caught it above; otherwise it extends the season of the
	// last regular day.
	if last := int(m.daysNonLeap) - 1; dayOfYear > last && last >= 0 {
		for i := range m.Seasons {
			if seasonContains(&m.Seasons[i], last) {
				return m.Seasons[i], i, true
			}
		}
	}
	return Season{}, 0, false
}

// SeasonFor returns the season containing the given date.
func (cv *Converter) SeasonFor(c Components) (Season, int, bool) {
	return cv.CurrentSeason(cv.DayOfYear(c))
}

func seasonContains(s *Season, dayOfYear int) bool {
	if s.DayEnd < s.DayStart {
		// Wraps the year boundary, e.g. dayStart=350 dayEnd=10 covers
		// both day 355 and day 5.
		return dayOfYear >= s.DayStart || dayOfYear <= s.DayEnd
	}
	return dayOfYear >= s.DayStart && dayOfYear <= s.DayEnd
}

// =============================================================================
// ERAS
// =============================================================================

// CurrentEra returns the era containing the internal year. With
// overlapping definitions the most-recently-defined era wins. ok is
// false when no era covers the year.
func (cv *Converter) CurrentEra(year int) (Era, bool) {
	var match Era
	found := false
	for _, era := range cv.m.Eras {
		if year < era.StartYear {
			continue
		}
		if era.EndYear != nil && year > *era.EndYear {
			continue
		}
		match = era
		found = true
	}
	return match, found
}

// =============================================================================
// CYCLES
// =============================================================================

// CycleValues resolves every configured cycle for a date. Malformed
// cycles are skipped.
func (cv *Converter) CycleValues(c Components) []CycleValue {
	values := make([]CycleValue, 0, len(cv.m.Cycles))
	for _, cycle := range cv.m.Cycles {
		if cycle.Length <= 0 || len(cycle.Entries) == 0 {
			continue
		}
		basis, ok := cv.CycleBasisValue(cycle.BasedOn, c)
		if !ok {
			continue
		}
		idx := int(floorMod64(basis+int64(cycle.Offset), int64(cycle.Length)))
		if idx >= len(cycle.Entries) {
			continue
		}
		values = append(values, CycleValue{Cycle: cycle.Name, Entry: cycle.Entries[idx], Index: idx})
	}
	return values
}

// FormatCycles renders cycle values as "Name: Entry; Name: Entry".
func FormatCycles(values []CycleValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Cycle, v.Entry))
	}
	return strings.Join(parts, "; ")
}

// CycleBasisValue computes the quantity a cycle basis selects for a
// date. ok is false for an unknown basis.
func (cv *Converter) CycleBasisValue(basis CycleBasis, c Components) (int64, bool) {
	switch basis {
	case BasisYear:
		return int64(c.Year), true
	case BasisEraYear:
		if era, ok := cv.CurrentEra(c.Year); ok {
			return int64(c.Year - era.StartYear), true
		}
		return int64(c.Year), true
	case BasisMonth:
		return int64(c.Year)*int64(len(cv.m.Months)) + int64(c.Month), true
	case BasisMonthDay:
		return int64(c.DayOfMonth), true
	case BasisDay:
		return cv.AbsoluteDay(c), true
	case BasisYearDay:
		return int64(cv.DayOfYear(c)), true
	default:
		return 0, false
	}
}
