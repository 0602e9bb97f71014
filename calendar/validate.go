/*
validate.go - Model validation and derived lookup tables

PURPOSE:
  A Model must pass Validate() exactly once before use. Validation has
  two jobs:
  1. Reject malformed shapes eagerly (ConfigurationError, fatal to the
     model) so every later per-call conversion can be total.
  2. Build the derived tables the hot path relies on: parsed leap
     pattern terms, the festival slot index, and the per-year day and
     weekday-skip totals that make year decomposition closed-form.

ERRORS vs WARNINGS:
  Shapes the engine cannot compute over (zero-length week, moon phases
  that do not partition [0,1), a year with no days) are errors. Shapes
  that are ambiguous but computable (overlapping eras, a cycle whose
  length does not match its entries) produce warnings; the model stays
  usable and the questionable piece resolves by a documented policy or
  is skipped.

SEE ALSO:
  - errors.go: Error types
  - convert.go: Consumes the derived tables
*/
package calendar

import (
	"fmt"
	"math"
)

const phaseEpsilon = 1e-9

// Validate checks the model shape, builds derived lookup tables, and
// marks the model usable. It returns configuration warnings for
// ambiguous-but-computable shapes, and an error for fatal ones. A model
// that fails validation must not be used.
func (m *Model) Validate() ([]string, error) {
	var warnings []string

	if m.Clock.HoursPerDay < 1 || m.Clock.MinutesPerHour < 1 || m.Clock.SecondsPerMinute < 1 {
		return nil, &ConfigurationError{Field: "clock", Reason: "hoursPerDay, minutesPerHour and secondsPerMinute must all be at least 1"}
	}
	if len(m.Weekdays) < 1 {
		return nil, &ConfigurationError{Field: "weekdays", Reason: "a calendar needs at least one weekday"}
	}
	if len(m.Months) == 0 {
		return nil, &ConfigurationError{Field: "months", Reason: "a calendar needs at least one month"}
	}
	if m.Years.FirstWeekday < 0 || m.Years.FirstWeekday >= len(m.Weekdays) {
		return nil, &ConfigurationError{Field: "years.firstWeekday", Reason: fmt.Sprintf("must be in [0,%d)", len(m.Weekdays))}
	}

	for i, month := range m.Months {
		if month.Ordinal != i+1 {
			return nil, &ConfigurationError{Field: fmt.Sprintf("months[%d].ordinal", i), Reason: fmt.Sprintf("ordinals must be contiguous from 1, got %d", month.Ordinal)}
		}
		if month.Days < 0 {
			return nil, &ConfigurationError{Field: fmt.Sprintf("months[%d].days", i), Reason: "must not be negative"}
		}
		if month.LeapDays != nil && *month.LeapDays < 0 {
			return nil, &ConfigurationError{Field: fmt.Sprintf("months[%d].leapDays", i), Reason: "must not be negative"}
		}
		if month.FixedStartingWeekday != nil && (*month.FixedStartingWeekday < 0 || *month.FixedStartingWeekday >= len(m.Weekdays)) {
			return nil, &ConfigurationError{Field: fmt.Sprintf("months[%d].fixedStartingWeekday", i), Reason: fmt.Sprintf("must be in [0,%d)", len(m.Weekdays))}
		}
	}

	if err := m.buildLeapRule(); err != nil {
		return nil, err
	}
	if w, err := m.buildFestivalIndex(); err != nil {
		return nil, err
	} else {
		warnings = append(warnings, w...)
	}

	m.daysNonLeap = m.yearDays(false)
	m.daysLeap = m.yearDays(true)
	m.skippedNonLeap = m.yearSkipped(false)
	m.skippedLeap = m.yearSkipped(true)
	if m.daysNonLeap <= 0 || m.daysLeap <= 0 {
		return nil, &ConfigurationError{Field: "months", Reason: "a year must contain at least one day"}
	}

	if err := m.validateMoons(); err != nil {
		return nil, err
	}
	if err := m.validateSeasons(); err != nil {
		return nil, err
	}
	warnings = append(warnings, m.eraWarnings()...)
	warnings = append(warnings, m.cycleWarnings()...)
	if w, err := m.validateDaylight(); err != nil {
		return nil, err
	} else {
		warnings = append(warnings, w...)
	}

	m.validated = true
	return warnings, nil
}

// MustValidate is a convenience for tests and presets: it panics on a
// validation error and discards warnings.
func (m *Model) MustValidate() *Model {
	if _, err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

func (m *Model) buildLeapRule() error {
	switch m.LeapRule.Kind {
	case LeapNone, "", LeapGregorian:
		return nil
	case LeapSimple:
		if m.LeapRule.Interval < 1 {
			return &ConfigurationError{Field: "leapRule.interval", Reason: "simple rule needs an interval of at least 1"}
		}
		return nil
	case LeapPattern:
		terms, err := parseLeapPattern(m.LeapRule.Pattern)
		if err != nil {
			return err
		}
		m.leapTerms = terms
		return nil
	default:
		return &ConfigurationError{Field: "leapRule.kind", Reason: fmt.Sprintf("unknown kind %q", m.LeapRule.Kind)}
	}
}

func (m *Model) buildFestivalIndex() ([]string, error) {
	var warnings []string
	m.festivalIndex = make(map[festivalKey]int, len(m.Festivals))
	for i, f := range m.Festivals {
		field := fmt.Sprintf("festivals[%d]", i)
		if f.Month < 0 || f.Month >= len(m.Months) {
			return nil, &ConfigurationError{Field: field + ".month", Reason: fmt.Sprintf("month index %d out of range", f.Month)}
		}
		if m.Months[f.Month].Days == 0 {
			warnings = append(warnings, fmt.Sprintf("%s (%s) names the skipped month %q and will never occur", field, f.Name, m.Months[f.Month].Name))
			continue
		}
		if f.DayOfMonth < 0 {
			return nil, &ConfigurationError{Field: field + ".dayOfMonth", Reason: "must not be negative"}
		}
		key := festivalKey{month: f.Month, day: f.DayOfMonth}
		if _, dup := m.festivalIndex[key]; dup {
			return nil, &ConfigurationError{Field: field, Reason: fmt.Sprintf("duplicate festival slot month %d day %d", f.Month, f.DayOfMonth)}
		}
		m.festivalIndex[key] = i
	}
	// Bounds against the effective month lengths, which include the
	// festivals themselves.
	for i, f := range m.Festivals {
		if m.Months[f.Month].Days == 0 {
			continue
		}
		limit := m.monthDays(f.Month, true)
		if !f.LeapYearOnly {
			if l := m.monthDays(f.Month, false); l < limit {
				limit = l
			}
		}
		if f.DayOfMonth >= limit {
			return nil, &ConfigurationError{Field: fmt.Sprintf("festivals[%d].dayOfMonth", i), Reason: fmt.Sprintf("slot %d outside month %q (%d days)", f.DayOfMonth, m.Months[f.Month].Name, limit)}
		}
	}
	return warnings, nil
}

// monthDays returns the effective length of a month under the given
// leap-ness: base (or leap override) days plus applicable festivals.
// A month whose base is 0 is skipped entirely.
func (m *Model) monthDays(month int, leap bool) int {
	base := m.Months[month].Days
	if leap && m.Months[month].LeapDays != nil {
		base = *m.Months[month].LeapDays
	}
	if base == 0 {
		return 0
	}
	for _, f := range m.Festivals {
		if f.Month != month {
			continue
		}
		if f.LeapYearOnly && !leap {
			continue
		}
		base++
	}
	return base
}

func (m *Model) yearDays(leap bool) int64 {
	var total int64
	for i := range m.Months {
		total += int64(m.monthDays(i, leap))
	}
	return total
}

// yearSkipped counts festival days excluded from the weekday cycle.
func (m *Model) yearSkipped(leap bool) int64 {
	var total int64
	for _, f := range m.Festivals {
		if f.CountsForWeekday {
			continue
		}
		if m.Months[f.Month].Days == 0 {
			continue
		}
		if f.LeapYearOnly && !leap {
			continue
		}
		total++
	}
	return total
}

func (m *Model) validateMoons() error {
	for i, moon := range m.Moons {
		field := fmt.Sprintf("moons[%d]", i)
		if !moon.CycleLength.IsPositive() {
			return &ConfigurationError{Field: field + ".cycleLength", Reason: "must be positive"}
		}
		if len(moon.Phases) == 0 {
			return &ConfigurationError{Field: field + ".phases", Reason: "a moon needs at least one phase"}
		}
		if math.Abs(moon.Phases[0].Start) > phaseEpsilon {
			return &ConfigurationError{Field: field + ".phases", Reason: "first phase must start at 0"}
		}
		for p, phase := range moon.Phases {
			if phase.End <= phase.Start {
				return &ConfigurationError{Field: fmt.Sprintf("%s.phases[%d]", field, p), Reason: "phase end must be greater than start"}
			}
			if p+1 < len(moon.Phases) {
				if math.Abs(phase.End-moon.Phases[p+1].Start) > phaseEpsilon {
					return &ConfigurationError{Field: fmt.Sprintf("%s.phases[%d]", field, p), Reason: "phases must be contiguous: end must equal the next phase's start"}
				}
			}
		}
		if math.Abs(moon.Phases[len(moon.Phases)-1].End-1) > phaseEpsilon {
			return &ConfigurationError{Field: field + ".phases", Reason: "last phase must end at 1"}
		}
	}
	return nil
}

func (m *Model) validateSeasons() error {
	if len(m.Seasons) == 0 {
		return nil
	}
	dpy := int(m.daysNonLeap)
	for i, s := range m.Seasons {
		if s.DayStart < 0 || s.DayStart >= dpy || s.DayEnd < 0 || s.DayEnd >= dpy {
			return &ConfigurationError{Field: fmt.Sprintf("seasons[%d]", i), Reason: fmt.Sprintf("day range [%d,%d] outside year of %d days", s.DayStart, s.DayEnd, dpy)}
		}
	}
	// Every day of the year must belong to exactly one season,
	// wrap-around ranges included. One pass at load time.
	for day := 0; day < dpy; day++ {
		matches := 0
		for i := range m.Seasons {
			if seasonContains(&m.Seasons[i], day) {
				matches++
			}
		}
		if matches != 1 {
			return &ConfigurationError{Field: "seasons", Reason: fmt.Sprintf("day %d of the year is covered by %d seasons, want exactly 1", day, matches)}
		}
	}
	return nil
}

func (m *Model) eraWarnings() []string {
	var warnings []string
	for i := 0; i < len(m.Eras); i++ {
		for j := i + 1; j < len(m.Eras); j++ {
			if erasOverlap(m.Eras[i], m.Eras[j]) {
				warnings = append(warnings, fmt.Sprintf("eras %q and %q overlap; the later-defined era wins for shared years", m.Eras[i].Name, m.Eras[j].Name))
			}
		}
	}
	return warnings
}

func erasOverlap(a, b Era) bool {
	aEnd := math.MaxInt
	if a.EndYear != nil {
		aEnd = *a.EndYear
	}
	bEnd := math.MaxInt
	if b.EndYear != nil {
		bEnd = *b.EndYear
	}
	return a.StartYear <= bEnd && b.StartYear <= aEnd
}

func (m *Model) cycleWarnings() []string {
	var warnings []string
	for _, c := range m.Cycles {
		if c.Length <= 0 || len(c.Entries) == 0 {
			warnings = append(warnings, fmt.Sprintf("cycle %q has no usable length or entries and will be skipped", c.Name))
			continue
		}
		if c.Length != len(c.Entries) {
			warnings = append(warnings, fmt.Sprintf("cycle %q length %d does not match its %d entries; entries beyond the overlap will be skipped", c.Name, c.Length, len(c.Entries)))
		}
		switch c.BasedOn {
		case BasisYear, BasisEraYear, BasisMonth, BasisMonthDay, BasisDay, BasisYearDay:
		default:
			warnings = append(warnings, fmt.Sprintf("cycle %q has unknown basis %q and will be skipped", c.Name, c.BasedOn))
		}
	}
	return warnings
}

func (m *Model) validateDaylight() ([]string, error) {
	var warnings []string
	d := m.Daylight
	if d.Latitude != nil && (*d.Latitude < -90 || *d.Latitude > 90) {
		return nil, &ConfigurationError{Field: "daylight.latitude", Reason: "must be within [-90,90]"}
	}
	dpy := int(m.daysNonLeap)
	if d.Enabled {
		if d.SummerSolsticeDay < 0 || d.SummerSolsticeDay >= dpy {
			warnings = append(warnings, fmt.Sprintf("daylight.summerSolsticeDay %d outside the year; values are taken modulo %d days", d.SummerSolsticeDay, dpy))
		}
		if d.WinterSolsticeDay < 0 || d.WinterSolsticeDay >= dpy {
			warnings = append(warnings, fmt.Sprintf("daylight.winterSolsticeDay %d outside the year; values are taken modulo %d days", d.WinterSolsticeDay, dpy))
		}
	}
	hpd := float64(m.Clock.HoursPerDay)
	if d.ShortestDay != nil && (*d.ShortestDay < 0 || *d.ShortestDay > hpd) {
		return nil, &ConfigurationError{Field: "daylight.shortestDay", Reason: "must be within [0, hoursPerDay]"}
	}
	if d.LongestDay != nil && (*d.LongestDay < 0 || *d.LongestDay > hpd) {
		return nil, &ConfigurationError{Field: "daylight.longestDay", Reason: "must be within [0, hoursPerDay]"}
	}
	if d.ShortestDay != nil && d.LongestDay != nil && *d.ShortestDay > *d.LongestDay {
		return nil, &ConfigurationError{Field: "daylight", Reason: "shortestDay must not exceed longestDay"}
	}
	return warnings, nil
}
