/*
convert.go - Scalar <-> Components conversion and day-of-week

PURPOSE:
  The bidirectional mapping between the world-clock scalar (seconds
  since the epoch: year 0, month 0, day 0, midnight) and structured
  Components, plus every day-counting primitive built on it: days in
  month, days in year, day of year, absolute day, day of week.

KEY INSIGHT:
  Year decomposition is closed-form. Validation precomputes days-per-
  year for leap and non-leap years, and leap.go counts leap years over
  any range without iterating, so daysBeforeYear(y) is O(1) no matter
  how far y is from the epoch. TimeToComponents estimates the year from
  the non-leap year length and corrects with a walk of O(1) probes;
  the walk length grows only with the leap-day drift accumulated since
  the epoch, never with the year count itself.

TOTALITY:
  ComponentsToTime accepts any components: out-of-range months carry
  into years, out-of-range days roll into following months, and the
  time of day carries into whole days. It never errors. The round-trip
  ComponentsToTime(TimeToComponents(t)) == t holds for every scalar.

WEEKDAY-SKIP RULE:
  A festival with CountsForWeekday == false consumes a calendar day but
  not a weekday slot: DayOfWeek reports NoWeekday for the festival
  itself and the next day lands on the weekday the festival's slot
  would otherwise have taken.

SEE ALSO:
  - leap.go:     CountLeapYears (closed-form leap counting)
  - festival.go: FindFestivalDay
  - moon.go:     MoonPhase (built on ComponentsToTime)
*/
package calendar

// NoWeekday is returned by DayOfWeek for days excluded from the
// weekday cycle.
const NoWeekday = -1

// Converter performs all scalar/component conversions for one model.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	m *Model
}

// NewConverter wraps a validated model. It returns ErrNotValidated if
// Validate has not succeeded on the model.
func NewConverter(m *Model) (*Converter, error) {
	if !m.validated {
		return nil, ErrNotValidated
	}
	return &Converter{m: m}, nil
}

// Model returns the underlying calendar model.
func (cv *Converter) Model() *Model { return cv.m }

// =============================================================================
// DAY COUNTING PRIMITIVES
// =============================================================================

// DaysInMonth returns the effective length of a month in the given
// internal year: base days (or the leap override in leap years) plus
// applicable festival days. A month configured with 0 days returns 0
// and is skipped by all iteration. Out-of-range month indexes return 0.
func (cv *Converter) DaysInMonth(month, year int) int {
	if month < 0 || month >= len(cv.m.Months) {
		return 0
	}
	return cv.m.monthDays(month, cv.m.IsLeap(year))
}

// DaysInYear returns the number of days in the given internal year.
func (cv *Converter) DaysInYear(year int) int {
	if cv.m.IsLeap(year) {
		return int(cv.m.daysLeap)
	}
	return int(cv.m.daysNonLeap)
}

// daysBeforeYear returns days from the epoch to the start of a year.
// Negative for years before the epoch. Closed form.
func (cv *Converter) daysBeforeYear(year int) int64 {
	m := cv.m
	if year >= 0 {
		leaps := m.CountLeapYears(0, year)
		return leaps*m.daysLeap + (int64(year)-leaps)*m.daysNonLeap
	}
	leaps := m.CountLeapYears(year, 0)
	return -(leaps*m.daysLeap + (int64(-year)-leaps)*m.daysNonLeap)
}

// daysBeforeMonth returns days from the start of the year to the start
// of the given month.
func (cv *Converter) daysBeforeMonth(year, month int) int64 {
	leap := cv.m.IsLeap(year)
	var days int64
	for i := 0; i < month && i < len(cv.m.Months); i++ {
		days += int64(cv.m.monthDays(i, leap))
	}
	return days
}

// DayOfYear returns the 0-indexed day within the year for components.
func (cv *Converter) DayOfYear(c Components) int {
	return int(cv.daysBeforeMonth(c.Year, c.Month) + int64(c.DayOfMonth))
}

// AbsoluteDay returns the day count from the epoch for components
// (without normalizing sub-day fields).
func (cv *Converter) AbsoluteDay(c Components) int64 {
	year, month := c.Year, c.Month
	if month < 0 || month >= len(cv.m.Months) {
		n := len(cv.m.Months)
		year += int(floorDiv64(int64(month), int64(n)))
		month = int(floorMod64(int64(month), int64(n)))
	}
	return cv.daysBeforeYear(year) + cv.daysBeforeMonth(year, month) + int64(c.DayOfMonth)
}

// =============================================================================
// SCALAR <-> COMPONENTS
// =============================================================================

// ComponentsToTime converts components to the world-clock scalar.
// Total: out-of-range values carry into the next unit instead of
// erroring, so {month: 14} of a 12-month calendar lands in month 2 of
// the following year and {hour: -1} in the previous day.
func (cv *Converter) ComponentsToTime(c Components) int64 {
	clock := cv.m.Clock
	secOfDay := int64(c.Hour)*clock.SecondsPerHour() +
		int64(c.Minute)*int64(clock.SecondsPerMinute) +
		int64(c.Second)
	return cv.AbsoluteDay(c)*clock.SecondsPerDay() + secOfDay
}

// TimeToComponents converts the world-clock scalar to normalized
// components. Inverse of ComponentsToTime for every representable t.
func (cv *Converter) TimeToComponents(t int64) Components {
	clock := cv.m.Clock
	spd := clock.SecondsPerDay()
	day := floorDiv64(t, spd)
	rem := floorMod64(t, spd)

	year := cv.yearForDay(day)
	dayOfYear := day - cv.daysBeforeYear(year)

	leap := cv.m.IsLeap(year)
	month := 0
	for month < len(cv.m.Months)-1 {
		l := int64(cv.m.monthDays(month, leap))
		if dayOfYear < l {
			break
		}
		dayOfYear -= l
		month++
	}

	sph := clock.SecondsPerHour()
	return Components{
		Year:       year,
		Month:      month,
		DayOfMonth: int(dayOfYear),
		Hour:       int(rem / sph),
		Minute:     int((rem % sph) / int64(clock.SecondsPerMinute)),
		Second:     int(rem % int64(clock.SecondsPerMinute)),
	}
}

// Normalize carries out-of-range component values into the next unit
// and returns the canonical form.
func (cv *Converter) Normalize(c Components) Components {
	return cv.TimeToComponents(cv.ComponentsToTime(c))
}

// AddDays returns the components n calendar days after c (negative n
// moves backwards), preserving the time of day.
func (cv *Converter) AddDays(c Components, n int64) Components {
	shifted := cv.TimeToComponents(cv.ComponentsToTime(c) + n*cv.m.Clock.SecondsPerDay())
	return shifted
}

// yearForDay finds the year containing an absolute day. Starts from a
// closed-form estimate and corrects with a walk; each probe is O(1)
// via the precomputed year lengths and leap counting, and the walk is
// bounded by the leap-day drift the estimate ignores (about y/1500
// steps under a Gregorian-like rule), not by the year count.
func (cv *Converter) yearForDay(day int64) int {
	year := int(floorDiv64(day, cv.m.daysNonLeap))
	for cv.daysBeforeYear(year) > day {
		year--
	}
	for cv.daysBeforeYear(year+1) <= day {
		year++
	}
	return year
}

// =============================================================================
// DAY OF WEEK
// =============================================================================

// DayOfWeek returns the weekday index for a day, or NoWeekday when the
// day is a festival excluded from the weekday cycle.
//
// Weekdays are carried from the epoch's FirstWeekday through every day
// that participates in the cycle; festival days with CountsForWeekday
// false neither consume nor advance a slot. A month with a fixed
// starting weekday pins its first day instead of carrying the count.
func (cv *Converter) DayOfWeek(c Components) int {
	m := cv.m
	if c.Month < 0 || c.Month >= len(m.Months) || c.DayOfMonth < 0 ||
		c.DayOfMonth >= cv.DaysInMonth(c.Month, c.Year) {
		c = cv.Normalize(c)
	}
	if f := m.FindFestivalDay(c); f != nil && !f.CountsForWeekday {
		return NoWeekday
	}

	n := int64(len(m.Weekdays))
	leap := m.IsLeap(c.Year)
	skippedInMonth := cv.skippedInMonthBefore(c.Month, c.DayOfMonth, leap)

	if fixed := m.Months[c.Month].FixedStartingWeekday; fixed != nil {
		return int(floorMod64(int64(*fixed)+int64(c.DayOfMonth)-skippedInMonth, n))
	}

	countingDays := cv.AbsoluteDay(c) - cv.skippedBeforeYear(c.Year) -
		cv.skippedInYearBeforeMonth(c.Month, leap) - skippedInMonth
	return int(floorMod64(int64(m.Years.FirstWeekday)+countingDays, n))
}

// skippedBeforeYear counts weekday-skipped festival days from the
// epoch to the start of a year. Closed form, negative-year aware.
func (cv *Converter) skippedBeforeYear(year int) int64 {
	m := cv.m
	if m.skippedNonLeap == 0 && m.skippedLeap == 0 {
		return 0
	}
	if year >= 0 {
		leaps := m.CountLeapYears(0, year)
		return leaps*m.skippedLeap + (int64(year)-leaps)*m.skippedNonLeap
	}
	leaps := m.CountLeapYears(year, 0)
	return -(leaps*m.skippedLeap + (int64(-year)-leaps)*m.skippedNonLeap)
}

func (cv *Converter) skippedInYearBeforeMonth(month int, leap bool) int64 {
	var skipped int64
	for _, f := range cv.m.Festivals {
		if f.Month >= month || f.CountsForWeekday {
			continue
		}
		if cv.m.Months[f.Month].Days == 0 {
			continue
		}
		if f.LeapYearOnly && !leap {
			continue
		}
		skipped++
	}
	return skipped
}

func (cv *Converter) skippedInMonthBefore(month, day int, leap bool) int64 {
	var skipped int64
	for _, f := range cv.m.Festivals {
		if f.Month != month || f.DayOfMonth >= day || f.CountsForWeekday {
			continue
		}
		if f.LeapYearOnly && !leap {
			continue
		}
		skipped++
	}
	return skipped
}
