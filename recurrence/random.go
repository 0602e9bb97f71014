/*
random.go - Seeded random occurrences

PURPOSE:
  A "random" event rolls once every CheckInterval days starting from
  its start date, and occurs when the roll lands below Probability.
  The roll is a pure function of (seed, absolute day), so the derived
  occurrence set is idempotent: re-deriving for the same seed and range
  is byte-identical across calls, processes, and sessions, and a single
  candidate day can be answered without deriving a range at all.

CACHING:
  For events with a bounded range the Matcher derives the full
  occurrence list once and parks it in the caller-supplied Memo keyed
  by (event id, seed); subsequent candidates binary-search that list.
  Unbounded events skip the memo and roll per candidate directly.

MIX FUNCTION:
  splitmix64 - small, allocation-free, and stable across platforms,
  unlike math/rand whose sequences are not guaranteed between Go
  releases.
*/
package recurrence

import (
	"sort"

	"github.com/almanac/calendar-engine/calendar"
)

// randomMatch implements the RepeatRandom gate.
func (ma *Matcher) randomMatch(ev *Event, start, date calendar.Components) bool {
	cfg := ev.Random
	if cfg == nil || cfg.Probability <= 0 {
		return false
	}
	interval := int64(cfg.CheckInterval)
	if interval < 1 {
		interval = 1
	}

	startDay := ma.conv.AbsoluteDay(start)
	day := ma.conv.AbsoluteDay(date)
	if (day-startDay)%interval != 0 {
		return false
	}

	// Bounded events go through the memo so the scheduling layer can
	// persist the derived set across sessions.
	if ev.RepeatEnd != nil && ma.memo != nil {
		days := ma.occurrenceDays(ev, cfg, startDay, interval)
		i := sort.Search(len(days), func(i int) bool { return days[i] >= day })
		return i < len(days) && days[i] == day
	}
	return rollHit(cfg.Seed, day, cfg.Probability)
}

// occurrenceDays reads the derived occurrence set from the memo,
// deriving and populating it on first use.
func (ma *Matcher) occurrenceDays(ev *Event, cfg *RandomConfig, startDay, interval int64) []int64 {
	key := MemoKey{EventID: ev.ID, Seed: cfg.Seed}
	if days, ok := ma.memo.Get(key); ok {
		return days
	}
	endDay := ma.conv.AbsoluteDay(ma.conv.Normalize(ev.RepeatEnd.Date()))
	days := DeriveOccurrences(cfg, startDay, endDay, interval)
	ma.memo.Put(key, days)
	return days
}

// DeriveOccurrences returns the sorted occurrence days for a random
// config over [startDay, endDay], rolling every interval days.
// Deterministic for a given (seed, range).
func DeriveOccurrences(cfg *RandomConfig, startDay, endDay, interval int64) []int64 {
	var days []int64
	for day := startDay; day <= endDay; day += interval {
		if rollHit(cfg.Seed, day, cfg.Probability) {
			days = append(days, day)
		}
	}
	return days
}

// rollHit reports whether the seeded roll for an absolute day lands
// below the probability threshold.
func rollHit(seed uint64, day int64, probability float64) bool {
	if probability >= 1 {
		return true
	}
	u := splitmix64(seed ^ (uint64(day) * 0x9e3779b97f4a7c15))
	// Top 53 bits to a uniform float in [0,1).
	return float64(u>>11)/(1<<53) < probability
}

// splitmix64 is the finalizer of the SplitMix64 generator.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
