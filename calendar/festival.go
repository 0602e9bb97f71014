/*
festival.go - Festival day resolution

PURPOSE:
  Answers "is this day a festival?" in O(1). Month-grid rendering calls
  this once per visible day (including leading/trailing days borrowed
  from adjacent months), so the lookup is a map probe built once at
  validation, plus a leap-year check for leapYearOnly festivals.

  Festivals are never structurally "between" months: a festival lives
  at a slot inside its month's day sequence, and resolution is re-run
  per candidate day during boundary iteration.

SEE ALSO:
  - validate.go: Builds the festival index
  - convert.go:  Applies the weekday-skip rule using the result
*/
package calendar

import "sort"

// FindFestivalDay returns the festival occupying the components' day
// slot, or nil when the day is a regular day. LeapYearOnly festivals
// are only returned in leap years.
func (m *Model) FindFestivalDay(c Components) *Festival {
	idx, ok := m.festivalIndex[festivalKey{month: c.Month, day: c.DayOfMonth}]
	if !ok {
		return nil
	}
	f := &m.Festivals[idx]
	if f.LeapYearOnly && !m.IsLeap(c.Year) {
		return nil
	}
	return f
}

// FestivalsInMonth returns the festivals applicable to a month in the
// given internal year, in slot order.
func (m *Model) FestivalsInMonth(month, year int) []Festival {
	leap := m.IsLeap(year)
	var out []Festival
	for _, f := range m.Festivals {
		if f.Month != month {
			continue
		}
		if m.Months[f.Month].Days == 0 {
			continue
		}
		if f.LeapYearOnly && !leap {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfMonth < out[j].DayOfMonth })
	return out
}
