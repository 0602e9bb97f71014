/*
Package factory provides JSON to Go calendar conversion.

PURPOSE:
  Converts JSON calendar definitions into validated calendar.Model
  values. This is the serialization boundary every format-specific
  importer targets: an importer translates its source format into this
  one schema, and the engine consumes only the schema - it never parses
  source-specific formats itself.

JSON SCHEMA:
  {
    "name": "Gregorian",
    "days": {
      "values": ["Sunday", "Monday", ...],
      "hoursPerDay": 24,
      "minutesPerHour": 60,
      "secondsPerMinute": 60,
      "daysPerYear": 365
    },
    "months": {"values": [{"name": "January", "days": 31}, ...]},
    "years": {"yearZero": 1970, "firstWeekday": 4, "leapYear": "gregorian"},
    "leapYearConfig": {"rule": "gregorian", "start": 0},
    "seasons": {"values": [{"name": "Winter", "dayStart": 334, "dayEnd": 58}, ...]},
    "moons": [{"name": "Moon", "cycleLength": 29.53059, "phases": [...]}],
    "festivals": [], "eras": [], "cycles": [],
    "daylight": {"enabled": true, "latitude": 47.6},
    "metadata": {"source": "builtin"}
  }

KEY FEATURES:
  - Validates the built model eagerly (fatal on ConfigurationError)
  - Surfaces validation warnings to the caller for upstream display
  - Evenly divides moon phases that give names but no ranges
  - Cross-checks a declared daysPerYear against the month sum

USAGE:
  f := factory.NewCalendarFactory()
  model, warnings, err := f.ParseCalendar(jsonStr)

SEE ALSO:
  - calendar/validate.go: The validation the factory triggers
  - presets.go: Built-in calendar definitions
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/almanac/calendar-engine/calendar"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CalendarJSON is the JSON representation of a calendar model.
type CalendarJSON struct {
	Name           string            `json:"name"`
	Days           DaysJSON          `json:"days"`
	Months         MonthsJSON        `json:"months"`
	Years          YearsJSON         `json:"years"`
	LeapYearConfig *LeapYearJSON     `json:"leapYearConfig,omitempty"`
	Seasons        SeasonsJSON       `json:"seasons"`
	Moons          []MoonJSON        `json:"moons,omitempty"`
	Festivals      []FestivalJSON    `json:"festivals,omitempty"`
	Eras           []EraJSON         `json:"eras,omitempty"`
	Cycles         []CycleJSON       `json:"cycles,omitempty"`
	Daylight       *DaylightJSON     `json:"daylight,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// DaysJSON names the weekdays and subdivides the day.
type DaysJSON struct {
	Values           []string `json:"values"`
	RestDays         []int    `json:"restDays,omitempty"`
	HoursPerDay      int      `json:"hoursPerDay"`
	MinutesPerHour   int      `json:"minutesPerHour"`
	SecondsPerMinute int      `json:"secondsPerMinute"`
	// DaysPerYear is advisory; the month sum is authoritative and a
	// mismatch is surfaced as a warning.
	DaysPerYear int `json:"daysPerYear,omitempty"`
}

// MonthsJSON wraps the ordered month list.
type MonthsJSON struct {
	Values []MonthJSON `json:"values"`
}

// MonthJSON is one month definition.
type MonthJSON struct {
	Name                 string `json:"name"`
	Days                 int    `json:"days"`
	LeapDays             *int   `json:"leapDays,omitempty"`
	FixedStartingWeekday *int   `json:"fixedStartingWeekday,omitempty"`
}

// YearsJSON anchors year numbering. LeapYear is a shorthand rule name
// used when no leapYearConfig block is present.
type YearsJSON struct {
	YearZero     int    `json:"yearZero"`
	FirstWeekday int    `json:"firstWeekday"`
	LeapYear     string `json:"leapYear,omitempty"`
}

// LeapYearJSON configures the leap rule.
type LeapYearJSON struct {
	Rule     string `json:"rule"` // none, gregorian, simple, pattern
	Interval int    `json:"interval,omitempty"`
	Start    int    `json:"start,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// SeasonsJSON wraps the ordered season list.
type SeasonsJSON struct {
	Values []SeasonJSON `json:"values"`
}

// SeasonJSON is one season definition.
type SeasonJSON struct {
	Name     string `json:"name"`
	DayStart int    `json:"dayStart"`
	DayEnd   int    `json:"dayEnd"`
	Color    string `json:"color,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// MoonJSON is one moon definition. CycleLength and CycleDayAdjust
// accept JSON numbers or strings; decimals survive exactly.
type MoonJSON struct {
	Name           string          `json:"name"`
	CycleLength    decimal.Decimal `json:"cycleLength"`
	CycleDayAdjust decimal.Decimal `json:"cycleDayAdjust"`
	ReferenceDate  DateJSON        `json:"referenceDate"`
	Phases         []PhaseJSON     `json:"phases"`
}

// DateJSON is a day-precision date in internal components.
type DateJSON struct {
	Year       int `json:"year"`
	Month      int `json:"month"`
	DayOfMonth int `json:"dayOfMonth"`
}

// PhaseJSON is one moon phase. When every phase omits its range the
// factory divides [0,1) evenly across the phases in order.
type PhaseJSON struct {
	Name      string   `json:"name"`
	Icon      string   `json:"icon,omitempty"`
	Start     *float64 `json:"start,omitempty"`
	End       *float64 `json:"end,omitempty"`
	SubPhases []string `json:"subPhases,omitempty"`
}

// FestivalJSON is one intercalary day definition.
type FestivalJSON struct {
	Name             string `json:"name"`
	Month            int    `json:"month"`
	DayOfMonth       int    `json:"dayOfMonth"`
	CountsForWeekday bool   `json:"countsForWeekday"`
	LeapYearOnly     bool   `json:"leapYearOnly,omitempty"`
}

// EraJSON is one era definition.
type EraJSON struct {
	Name      string `json:"name"`
	StartYear int    `json:"startYear"`
	EndYear   *int   `json:"endYear,omitempty"`
}

// CycleJSON is one cycle definition.
type CycleJSON struct {
	Name    string   `json:"name"`
	Length  int      `json:"length"`
	Offset  int      `json:"offset,omitempty"`
	BasedOn string   `json:"basedOn"`
	Entries []string `json:"entries"`
}

// DaylightJSON configures daylight derivation.
type DaylightJSON struct {
	Enabled           bool     `json:"enabled"`
	Latitude          *float64 `json:"latitude,omitempty"`
	ShortestDay       *float64 `json:"shortestDay,omitempty"`
	LongestDay        *float64 `json:"longestDay,omitempty"`
	WinterSolsticeDay int      `json:"winterSolsticeDay,omitempty"`
	SummerSolsticeDay int      `json:"summerSolsticeDay,omitempty"`
}

// =============================================================================
// CALENDAR FACTORY
// =============================================================================

// CalendarFactory converts JSON calendars to validated models.
type CalendarFactory struct{}

// NewCalendarFactory creates a new calendar factory.
func NewCalendarFactory() *CalendarFactory {
	return &CalendarFactory{}
}

// ParseCalendar parses a JSON string into a validated model, returning
// validation warnings for the caller to surface.
func (f *CalendarFactory) ParseCalendar(jsonStr string) (*calendar.Model, []string, error) {
	var cj CalendarJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, nil, fmt.Errorf("failed to parse calendar JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts CalendarJSON into a validated calendar.Model.
func (f *CalendarFactory) FromJSON(cj CalendarJSON) (*calendar.Model, []string, error) {
	model := &calendar.Model{
		Name: cj.Name,
		Clock: calendar.Clock{
			HoursPerDay:      defaultInt(cj.Days.HoursPerDay, 24),
			MinutesPerHour:   defaultInt(cj.Days.MinutesPerHour, 60),
			SecondsPerMinute: defaultInt(cj.Days.SecondsPerMinute, 60),
		},
		Years: calendar.YearsConfig{
			YearZero:     cj.Years.YearZero,
			FirstWeekday: cj.Years.FirstWeekday,
		},
		LeapRule: parseLeapRule(cj),
		Daylight: parseDaylight(cj.Daylight),
	}

	rest := make(map[int]bool, len(cj.Days.RestDays))
	for _, d := range cj.Days.RestDays {
		rest[d] = true
	}
	for i, name := range cj.Days.Values {
		model.Weekdays = append(model.Weekdays, calendar.Weekday{Name: name, IsRestDay: rest[i]})
	}

	for i, mj := range cj.Months.Values {
		model.Months = append(model.Months, calendar.Month{
			Name:                 mj.Name,
			Ordinal:              i + 1,
			Days:                 mj.Days,
			LeapDays:             mj.LeapDays,
			FixedStartingWeekday: mj.FixedStartingWeekday,
		})
	}

	for _, sj := range cj.Seasons.Values {
		model.Seasons = append(model.Seasons, calendar.Season{
			Name: sj.Name, DayStart: sj.DayStart, DayEnd: sj.DayEnd,
			Color: sj.Color, Icon: sj.Icon,
		})
	}

	for i, mj := range cj.Moons {
		moon, err := parseMoon(mj)
		if err != nil {
			return nil, nil, fmt.Errorf("moons[%d]: %w", i, err)
		}
		model.Moons = append(model.Moons, moon)
	}

	for _, fj := range cj.Festivals {
		model.Festivals = append(model.Festivals, calendar.Festival{
			Name:             fj.Name,
			Month:            fj.Month,
			DayOfMonth:       fj.DayOfMonth,
			CountsForWeekday: fj.CountsForWeekday,
			LeapYearOnly:     fj.LeapYearOnly,
		})
	}

	for _, ej := range cj.Eras {
		model.Eras = append(model.Eras, calendar.Era{Name: ej.Name, StartYear: ej.StartYear, EndYear: ej.EndYear})
	}

	for _, yj := range cj.Cycles {
		model.Cycles = append(model.Cycles, calendar.Cycle{
			Name: yj.Name, Length: yj.Length, Offset: yj.Offset,
			BasedOn: calendar.CycleBasis(yj.BasedOn), Entries: yj.Entries,
		})
	}

	warnings, err := model.Validate()
	if err != nil {
		return nil, nil, err
	}

	conv, err := calendar.NewConverter(model)
	if err != nil {
		return nil, nil, err
	}
	if cj.Days.DaysPerYear > 0 {
		// Compare against a non-leap year; leap-ness is what the
		// advisory figure usually ignores.
		plain := 0
		for y := 0; y < 16; y++ {
			if !model.IsLeap(y) {
				plain = conv.DaysInYear(y)
				break
			}
		}
		if plain > 0 && cj.Days.DaysPerYear != plain {
			warnings = append(warnings, fmt.Sprintf(
				"declared daysPerYear %d does not match the month sum %d; the month sum is authoritative",
				cj.Days.DaysPerYear, plain))
		}
	}
	return model, warnings, nil
}

func parseLeapRule(cj CalendarJSON) calendar.LeapRule {
	lj := cj.LeapYearConfig
	if lj == nil {
		if cj.Years.LeapYear == "" {
			return calendar.LeapRule{Kind: calendar.LeapNone}
		}
		lj = &LeapYearJSON{Rule: cj.Years.LeapYear}
	}
	return calendar.LeapRule{
		Kind:     calendar.LeapRuleKind(lj.Rule),
		Interval: lj.Interval,
		Start:    lj.Start,
		Pattern:  lj.Pattern,
	}
}

func parseMoon(mj MoonJSON) (calendar.Moon, error) {
	moon := calendar.Moon{
		Name:           mj.Name,
		CycleLength:    mj.CycleLength,
		CycleDayAdjust: mj.CycleDayAdjust,
		ReferenceDate: calendar.Components{
			Year: mj.ReferenceDate.Year, Month: mj.ReferenceDate.Month, DayOfMonth: mj.ReferenceDate.DayOfMonth,
		},
	}
	if len(mj.Phases) == 0 {
		return moon, fmt.Errorf("moon %q has no phases", mj.Name)
	}

	explicit := 0
	for _, pj := range mj.Phases {
		if pj.Start != nil || pj.End != nil {
			explicit++
		}
	}
	switch explicit {
	case 0:
		// Names only: divide the cycle evenly in order.
		n := float64(len(mj.Phases))
		for i, pj := range mj.Phases {
			start := float64(i) / n
			end := float64(i+1) / n
			if i == len(mj.Phases)-1 {
				end = 1
			}
			moon.Phases = append(moon.Phases, calendar.MoonPhase{
				Name: pj.Name, Icon: pj.Icon, Start: start, End: end, SubPhases: pj.SubPhases,
			})
		}
	case len(mj.Phases):
		for _, pj := range mj.Phases {
			if pj.Start == nil || pj.End == nil {
				return moon, fmt.Errorf("moon %q phase %q needs both start and end", mj.Name, pj.Name)
			}
			moon.Phases = append(moon.Phases, calendar.MoonPhase{
				Name: pj.Name, Icon: pj.Icon, Start: *pj.Start, End: *pj.End, SubPhases: pj.SubPhases,
			})
		}
	default:
		return moon, fmt.Errorf("moon %q mixes explicit and implicit phase ranges", mj.Name)
	}
	return moon, nil
}

func parseDaylight(dj *DaylightJSON) calendar.Daylight {
	if dj == nil {
		return calendar.Daylight{}
	}
	return calendar.Daylight{
		Enabled:           dj.Enabled,
		Latitude:          dj.Latitude,
		ShortestDay:       dj.ShortestDay,
		LongestDay:        dj.LongestDay,
		WinterSolsticeDay: dj.WinterSolsticeDay,
		SummerSolsticeDay: dj.SummerSolsticeDay,
	}
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
