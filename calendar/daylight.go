/*
daylight.go - Latitude-derived daylight hours

PURPOSE:
  Models hours of daylight for a day of the year as a sinusoid between
  the winter and summer solstice extremes.

MODEL:
  With latitude set, the amplitude comes from the standard day-length
  approximation tan(lat)*tan(tilt) clamped to [0,1], so equatorial
  latitudes stay near a half day and polar latitudes approach 0 or the
  full day. Without a latitude, an explicit shortest/longest pair is
  used, and hoursPerDay/2 is the ultimate fallback. The sinusoid peaks
  at the configured summer solstice day; the winter minimum falls half
  a year away by construction.
*/
package calendar

import "math"

// axialTilt is the obliquity, in degrees, used to scale latitude into
// a day-length amplitude.
const axialTilt = 23.44

// DaylightHours returns the hours of daylight on the given 0-indexed
// day of the internal year. Always within [0, hoursPerDay].
func (cv *Converter) DaylightHours(dayOfYear, year int) float64 {
	d := cv.m.Daylight
	hpd := float64(cv.m.Clock.HoursPerDay)
	mid := hpd / 2

	var shortest, longest float64
	switch {
	case d.Enabled && d.Latitude != nil:
		f := math.Tan(math.Abs(*d.Latitude)*math.Pi/180) * math.Tan(axialTilt*math.Pi/180)
		if f > 1 {
			f = 1
		}
		shortest = mid * (1 - f)
		longest = mid * (1 + f)
	case d.ShortestDay != nil && d.LongestDay != nil:
		shortest = *d.ShortestDay
		longest = *d.LongestDay
	default:
		return mid
	}

	dpy := float64(cv.DaysInYear(year))
	if dpy <= 0 {
		return mid
	}
	mean := (longest + shortest) / 2
	amplitude := (longest - shortest) / 2
	phase := 2 * math.Pi * float64(dayOfYear-d.SummerSolsticeDay) / dpy
	hours := mean + amplitude*math.Cos(phase)

	if hours < 0 {
		return 0
	}
	if hours > hpd {
		return hpd
	}
	return hours
}
