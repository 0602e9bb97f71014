/*
moon.go - Moon phase calculation

PURPOSE:
  Per-moon cyclic phase lookup from a reference epoch and a possibly
  fractional cycle length. The cycle position for a scalar t is

    position = floormod(daysSince(reference) + cycleDayAdjust, cycleLength)
               / cycleLength

  normalized into [0,1), then matched against the moon's phase ranges.

PRECISION:
  Cycle lengths like 29.53059 accumulate binary floating-point error
  over large day counts, which would eventually flip a date across a
  phase boundary. The modular step therefore runs on decimal.Decimal
  and only the final normalized position drops to float64.

NEGATIVE DATES:
  Dates before the reference epoch produce a negative daysSince; the
  floored modulo keeps the position in [0,1) rather than mirroring it,
  so phase sequences run the same direction on both sides of the
  reference date.

SEE ALSO:
  - validate.go: Checks that phases partition [0,1) exactly
  - model.go:    Moon, MoonPhase, PhaseInfo types
*/
package calendar

import (
	"github.com/shopspring/decimal"
)

// MoonPhase returns the phase of the moon at index moonIndex for the
// given world-clock scalar. ErrUnknownMoon is returned for an
// out-of-range index; a validated model never fails otherwise.
func (cv *Converter) MoonPhase(moonIndex int, t int64) (PhaseInfo, error) {
	if moonIndex < 0 || moonIndex >= len(cv.m.Moons) {
		return PhaseInfo{}, ErrUnknownMoon
	}
	moon := &cv.m.Moons[moonIndex]

	refScalar := cv.ComponentsToTime(moon.ReferenceDate.Date())
	spd := decimal.NewFromInt(cv.m.Clock.SecondsPerDay())
	daysSince := decimal.NewFromInt(t - refScalar).Div(spd)

	// Floored modulo: shopspring's Mod truncates toward zero, so fold
	// negative remainders back into [0, cycleLength).
	shifted := daysSince.Add(moon.CycleDayAdjust)
	rem := shifted.Mod(moon.CycleLength)
	if rem.IsNegative() {
		rem = rem.Add(moon.CycleLength)
	}
	position, _ := rem.Div(moon.CycleLength).Float64()
	if position >= 1 {
		position = 0
	}

	phase := matchPhase(moon.Phases, position)
	info := PhaseInfo{
		Moon:     moon.Name,
		Phase:    phase.Name,
		Icon:     phase.Icon,
		Position: position,
	}
	if len(phase.SubPhases) > 0 {
		span := phase.End - phase.Start
		idx := int(float64(len(phase.SubPhases)) * (position - phase.Start) / span)
		if idx >= len(phase.SubPhases) {
			idx = len(phase.SubPhases) - 1
		}
		info.SubPhase = phase.SubPhases[idx]
	}
	return info, nil
}

// MoonPhases returns the phase of every configured moon at t, in moon
// order.
func (cv *Converter) MoonPhases(t int64) []PhaseInfo {
	infos := make([]PhaseInfo, 0, len(cv.m.Moons))
	for i := range cv.m.Moons {
		info, err := cv.MoonPhase(i, t)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// matchPhase finds the phase whose [start,end) range contains the
// position. Validation guarantees the ranges partition [0,1), so the
// scan always terminates on a match; the last phase absorbs rounding
// at the top of the range.
func matchPhase(phases []MoonPhase, position float64) *MoonPhase {
	for i := range phases {
		if position >= phases[i].Start && position < phases[i].End {
			return &phases[i]
		}
	}
	return &phases[len(phases)-1]
}
