package calendar_test

import (
	"math"
	"testing"

	"github.com/almanac/calendar-engine/calendar"
)

func daylightModel(t *testing.T, d calendar.Daylight) *calendar.Converter {
	t.Helper()
	m := &calendar.Model{
		Name: "Lightia",
		Months: []calendar.Month{
			{Name: "Alpha", Ordinal: 1, Days: 30},
			{Name: "Beta", Ordinal: 2, Days: 25},
			{Name: "Gamma", Ordinal: 3, Days: 25},
		},
		Weekdays: fiveWeekdays(),
		Clock:    calendar.Clock{HoursPerDay: 24, MinutesPerHour: 60, SecondsPerMinute: 60},
		Daylight: d,
	}
	if _, err := m.Validate(); err != nil {
		t.Fatalf("fixture must validate: %v", err)
	}
	return newConverter(t, m)
}

func floatPtr(f float64) *float64 { return &f }

func TestDaylightHours_ExplicitExtremes(t *testing.T) {
	// GIVEN: An 80-day year with an 8h..16h range peaking on day 20
	// WHEN: Sampling the solstices and the midpoints
	// THEN: The sinusoid hits 16, 8, and 12 exactly

	conv := daylightModel(t, calendar.Daylight{
		Enabled:           true,
		ShortestDay:       floatPtr(8),
		LongestDay:        floatPtr(16),
		SummerSolsticeDay: 20,
		WinterSolsticeDay: 60,
	})

	cases := map[int]float64{
		20: 16, // summer solstice
		60: 8,  // half a year later
		0:  12, // quarter cycle before the peak
		40: 12, // quarter cycle after
	}
	for day, want := range cases {
		got := conv.DaylightHours(day, 0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("day %d: %v hours, want %v", day, got, want)
		}
	}
}

func TestDaylightHours_LatitudeAmplitude(t *testing.T) {
	// Mid latitude: amplitude = tan(47.6 deg) * tan(23.44 deg) of a half
	// day around 12 hours.
	conv := daylightModel(t, calendar.Daylight{
		Enabled:           true,
		Latitude:          floatPtr(47.6),
		SummerSolsticeDay: 20,
	})

	f := math.Tan(47.6*math.Pi/180) * math.Tan(23.44*math.Pi/180)
	wantLongest := 12 * (1 + f)
	wantShortest := 12 * (1 - f)

	if got := conv.DaylightHours(20, 0); math.Abs(got-wantLongest) > 1e-9 {
		t.Errorf("summer solstice = %v, want %v", got, wantLongest)
	}
	if got := conv.DaylightHours(60, 0); math.Abs(got-wantShortest) > 1e-9 {
		t.Errorf("winter solstice = %v, want %v", got, wantShortest)
	}
}

func TestDaylightHours_PolarLatitudeClamps(t *testing.T) {
	// GIVEN: A polar latitude whose raw amplitude factor exceeds 1
	// WHEN: Sampling the solstices
	// THEN: The factor clamps, yielding full daylight and full darkness

	conv := daylightModel(t, calendar.Daylight{
		Enabled:           true,
		Latitude:          floatPtr(89),
		SummerSolsticeDay: 20,
	})

	if got := conv.DaylightHours(20, 0); math.Abs(got-24) > 1e-9 {
		t.Errorf("polar summer = %v hours, want 24", got)
	}
	if got := conv.DaylightHours(60, 0); math.Abs(got) > 1e-9 {
		t.Errorf("polar winter = %v hours, want 0", got)
	}
}

func TestDaylightHours_DefaultsToHalfDay(t *testing.T) {
	conv := daylightModel(t, calendar.Daylight{})
	for _, day := range []int{0, 20, 79} {
		if got := conv.DaylightHours(day, 0); got != 12 {
			t.Errorf("day %d: %v hours, want the 12-hour fallback", day, got)
		}
	}
}
