/*
matcher.go - Recurrence evaluation

PURPOSE:
  Evaluates whether an event occurs on a candidate date. Each call is a
  stateless, short-circuiting conjunction of gates:

  1. Range gate: candidate >= Start, <= RepeatEnd when set, and the
     periodic occurrence index below MaxOccurrences when set.
  2. Weekday / week-number gates, independent of kind.
  3. Kind gate, dispatched exhaustively on RepeatKind.

  Day counting goes through the calendar Converter, so month and year
  length irregularities (leap overrides, festival days) are respected.

FAILURE SEMANTICS:
  Malformed descriptors resolve to "no match" - unknown kinds, missing
  per-kind config, out-of-range moon indexes, dangling links. The
  matcher never panics and never mutates its inputs.

SEE ALSO:
  - types.go:  Event descriptor
  - random.go: Seeded random occurrences
*/
package recurrence

import (
	"github.com/almanac/calendar-engine/calendar"
)

// EventResolver looks up the target of a linked event. Returning ok ==
// false makes the linked event resolve to no match.
type EventResolver func(id string) (*Event, bool)

// maxLinkDepth bounds linked-event delegation so descriptor cycles
// terminate as no-match.
const maxLinkDepth = 8

// Matcher evaluates recurrence descriptors against one calendar. It
// holds no mutable state of its own; the memo belongs to the caller.
type Matcher struct {
	conv    *calendar.Converter
	memo    Memo
	resolve EventResolver
}

// NewMatcher builds a matcher over a converter. memo may be nil when no
// random events are cached; resolve may be nil when no events link.
func NewMatcher(conv *calendar.Converter, memo Memo, resolve EventResolver) *Matcher {
	return &Matcher{conv: conv, memo: memo, resolve: resolve}
}

// Matches reports whether the event occurs on the candidate date.
// Only the date components of candidate are considered.
func (ma *Matcher) Matches(ev *Event, candidate calendar.Components) bool {
	return ma.matches(ev, candidate, 0)
}

func (ma *Matcher) matches(ev *Event, candidate calendar.Components, depth int) bool {
	if ev == nil {
		return false
	}
	date := ma.conv.Normalize(candidate.Date())
	start := ma.conv.Normalize(ev.Start.Date())

	// Range gate.
	if date.Before(start) {
		return false
	}
	if ev.RepeatEnd != nil && date.After(ma.conv.Normalize(ev.RepeatEnd.Date())) {
		return false
	}

	// Independent weekday / week-number gates.
	if ev.Weekday != nil && ma.conv.DayOfWeek(date) != *ev.Weekday {
		return false
	}
	if ev.WeekNumber != nil && ma.weekOfMonth(date) != *ev.WeekNumber {
		return false
	}

	switch ev.Repeat {
	case RepeatNever:
		if ev.End != nil && !ev.End.SameDay(ev.Start) {
			end := ma.conv.Normalize(ev.End.Date())
			return !date.After(end)
		}
		return date.SameDay(start)

	case RepeatDaily:
		days := ma.daysBetween(start, date)
		return ma.periodicHit(ev, days)

	case RepeatWeekly:
		days := ma.daysBetween(start, date)
		step := int64(ma.conv.Model().DaysInWeek())
		if days%step != 0 {
			return false
		}
		return ma.periodicHit(ev, days/step)

	case RepeatMonthly:
		if date.DayOfMonth != start.DayOfMonth {
			return false
		}
		months := int64(date.Year-start.Year)*int64(len(ma.conv.Model().Months)) +
			int64(date.Month-start.Month)
		return ma.periodicHit(ev, months)

	case RepeatYearly:
		if date.Month != start.Month || date.DayOfMonth != start.DayOfMonth {
			return false
		}
		return ma.periodicHit(ev, int64(date.Year-start.Year))

	case RepeatMoon:
		return ma.moonMatch(ev, date)

	case RepeatSeasonal:
		return ma.seasonMatch(ev, date)

	case RepeatRandom:
		return ma.randomMatch(ev, start, date)

	case RepeatLinked:
		if ev.LinkedTo == "" || ma.resolve == nil || depth >= maxLinkDepth {
			return false
		}
		target, ok := ma.resolve(ev.LinkedTo)
		if !ok || target == nil {
			return false
		}
		shifted := ma.conv.AddDays(date, -int64(ev.LinkOffsetDays))
		return ma.matches(target, shifted, depth+1)

	case RepeatRangePattern:
		return ma.rangePatternMatch(ev, date)

	case RepeatComputed:
		return ma.computedMatch(ev, start, date)

	default:
		// Unknown kind: imported data may be newer than this engine.
		return false
	}
}

// periodicHit applies the shared interval and occurrence-count checks
// for the periodic kinds. n is the whole units elapsed since Start.
func (ma *Matcher) periodicHit(ev *Event, n int64) bool {
	if n < 0 {
		return false
	}
	interval := ev.interval()
	if n%interval != 0 {
		return false
	}
	if ev.MaxOccurrences > 0 && n/interval >= int64(ev.MaxOccurrences) {
		return false
	}
	return true
}

func (ma *Matcher) daysBetween(from, to calendar.Components) int64 {
	return ma.conv.AbsoluteDay(to) - ma.conv.AbsoluteDay(from)
}

// weekOfMonth returns the candidate's 1-based week within its month.
func (ma *Matcher) weekOfMonth(date calendar.Components) int {
	return date.DayOfMonth/ma.conv.Model().DaysInWeek() + 1
}

// =============================================================================
// KIND GATES
// =============================================================================

// moonMatch requires every configured condition to hold at the
// candidate's start of day.
func (ma *Matcher) moonMatch(ev *Event, date calendar.Components) bool {
	if len(ev.MoonConditions) == 0 {
		return false
	}
	t := ma.conv.ComponentsToTime(date)
	for _, cond := range ev.MoonConditions {
		info, err := ma.conv.MoonPhase(cond.Moon, t)
		if err != nil {
			return false
		}
		if !positionInRange(info.Position, cond.PhaseStart, cond.PhaseEnd) {
			return false
		}
	}
	return true
}

// positionInRange checks pos in [start,end), wrapping past the cycle
// boundary when end < start.
func positionInRange(pos, start, end float64) bool {
	if end < start {
		return pos >= start || pos < end
	}
	return pos >= start && pos < end
}

func (ma *Matcher) seasonMatch(ev *Event, date calendar.Components) bool {
	if len(ev.Seasons) == 0 {
		return false
	}
	season, _, ok := ma.conv.SeasonFor(date)
	if !ok {
		return false
	}
	for _, name := range ev.Seasons {
		if name == season.Name {
			return true
		}
	}
	return false
}

func (ma *Matcher) rangePatternMatch(ev *Event, date calendar.Components) bool {
	rp := ev.RangePattern
	if rp == nil || rp.Ordinal == 0 {
		return false
	}
	if rp.Month != nil && date.Month != *rp.Month {
		return false
	}
	if ma.conv.DayOfWeek(date) != rp.Weekday {
		return false
	}
	if rp.Ordinal == -1 {
		// Last such weekday: no later day of this month shares it.
		length := ma.conv.DaysInMonth(date.Month, date.Year)
		for d := date.DayOfMonth + 1; d < length; d++ {
			probe := calendar.Components{Year: date.Year, Month: date.Month, DayOfMonth: d}
			if ma.conv.DayOfWeek(probe) == rp.Weekday {
				return false
			}
		}
		return true
	}
	nth := 0
	for d := 0; d <= date.DayOfMonth; d++ {
		probe := calendar.Components{Year: date.Year, Month: date.Month, DayOfMonth: d}
		if ma.conv.DayOfWeek(probe) == rp.Weekday {
			nth++
		}
	}
	return nth == rp.Ordinal
}

func (ma *Matcher) computedMatch(ev *Event, start, date calendar.Components) bool {
	cfg := ev.Computed
	if cfg == nil {
		return false
	}
	switch cfg.Kind {
	case ComputedLeapYear:
		return date.Month == start.Month && date.DayOfMonth == start.DayOfMonth &&
			ma.conv.Model().IsLeap(date.Year)
	case ComputedModulo:
		if cfg.Divisor <= 0 {
			return false
		}
		basis, ok := ma.conv.CycleBasisValue(cfg.Basis, date)
		if !ok {
			return false
		}
		return mod64(basis, int64(cfg.Divisor)) == int64(cfg.Remainder)
	default:
		return false
	}
}

// mod64 is a floored modulo so negative basis values still land in
// [0, divisor).
func mod64(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
