package recurrence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanac/calendar-engine/recurrence"
)

// =============================================================================
// DETERMINISM AND IDEMPOTENCE
// =============================================================================

func TestRandom_SameSeedSameOccurrences(t *testing.T) {
	// GIVEN: Two matchers with separate memos but identical descriptors
	// WHEN: Scanning the same day range
	// THEN: The occurrence sets are identical

	end := day(0, 1, 24)
	ev := &recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0), RepeatEnd: &end,
		Random: &recurrence.RandomConfig{Probability: 0.3, Seed: 42, CheckInterval: 1},
	}

	scan := func(ma *recurrence.Matcher) []int {
		var hits []int
		for d := 0; d < 56; d++ {
			if ma.Matches(ev, day(0, 0, d)) {
				hits = append(hits, d)
			}
		}
		return hits
	}

	first := scan(newTestMatcher(t))
	second := scan(newTestMatcher(t))
	require.Equal(t, first, second)
	assert.NotEmpty(t, first, "0.3 over 56 days should hit at least once")
	assert.Less(t, len(first), 56, "0.3 over 56 days should miss at least once")
}

func TestRandom_DifferentSeedsDiverge(t *testing.T) {
	end := day(0, 1, 24)
	template := recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0), RepeatEnd: &end,
	}

	scan := func(seed uint64) []int {
		ev := template
		ev.Random = &recurrence.RandomConfig{Probability: 0.5, Seed: seed, CheckInterval: 1}
		ma := newTestMatcher(t)
		var hits []int
		for d := 0; d < 56; d++ {
			if ma.Matches(&ev, day(0, 0, d)) {
				hits = append(hits, d)
			}
		}
		return hits
	}

	assert.NotEqual(t, scan(1), scan(2))
}

func TestRandom_MemoIsPopulatedOnceAndReused(t *testing.T) {
	// GIVEN: A bounded random event and a shared memo
	// WHEN: Matching many candidates
	// THEN: The occurrence set is derived once, keyed by (event, seed)

	end := day(0, 1, 24)
	ev := &recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0), RepeatEnd: &end,
		Random: &recurrence.RandomConfig{Probability: 0.5, Seed: 7, CheckInterval: 1},
	}

	memo := recurrence.NewMemoryMemo()
	ma := recurrence.NewMatcher(newTestConverter(t), memo, nil)

	for d := 0; d < 20; d++ {
		ma.Matches(ev, day(0, 0, d))
	}
	assert.Equal(t, 1, memo.Len())

	days, ok := memo.Get(recurrence.MemoKey{EventID: "e", Seed: 7})
	require.True(t, ok)

	// The memoized set agrees with a direct derivation.
	derived := recurrence.DeriveOccurrences(ev.Random, 0, 55, 1)
	assert.Equal(t, derived, days)
}

func TestRandom_MemoPopulateOnceWins(t *testing.T) {
	memo := recurrence.NewMemoryMemo()
	key := recurrence.MemoKey{EventID: "e", Seed: 1}

	memo.Put(key, []int64{3, 9})
	memo.Put(key, []int64{1})

	days, ok := memo.Get(key)
	require.True(t, ok)
	assert.Equal(t, []int64{3, 9}, days, "the first stored set must win")
}

// =============================================================================
// PROBABILITY AND INTERVAL EDGES
// =============================================================================

func TestRandom_ProbabilityOneHitsEveryRollDay(t *testing.T) {
	ev := &recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0),
		Random: &recurrence.RandomConfig{Probability: 1, Seed: 9, CheckInterval: 3},
	}
	ma := newTestMatcher(t)

	assert.True(t, ma.Matches(ev, day(0, 0, 0)))
	assert.True(t, ma.Matches(ev, day(0, 0, 3)))
	assert.False(t, ma.Matches(ev, day(0, 0, 1)), "between roll days")
	assert.False(t, ma.Matches(ev, day(0, 0, 2)))
}

func TestRandom_ProbabilityZeroNeverHits(t *testing.T) {
	ev := &recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0),
		Random: &recurrence.RandomConfig{Probability: 0, Seed: 9, CheckInterval: 1},
	}
	ma := newTestMatcher(t)

	for d := 0; d < 30; d++ {
		assert.False(t, ma.Matches(ev, day(0, 0, d)))
	}
}

func TestRandom_MissingConfigIsNoMatch(t *testing.T) {
	ev := &recurrence.Event{ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0)}
	ma := newTestMatcher(t)
	assert.False(t, ma.Matches(ev, day(0, 0, 0)))
}

func TestDeriveOccurrences_SortedAndInterval(t *testing.T) {
	cfg := &recurrence.RandomConfig{Probability: 0.5, Seed: 11, CheckInterval: 1}

	days := recurrence.DeriveOccurrences(cfg, 10, 200, 7)
	for i, d := range days {
		assert.Zero(t, (d-10)%7, "every occurrence lands on a roll day")
		if i > 0 {
			assert.Greater(t, d, days[i-1], "occurrences are strictly increasing")
		}
	}

	// Re-deriving is byte-identical.
	assert.Equal(t, days, recurrence.DeriveOccurrences(cfg, 10, 200, 7))
}

func TestRandom_UnboundedEventSkipsTheMemo(t *testing.T) {
	// Without a RepeatEnd there is no finite set to derive; rolls are
	// answered directly and the memo stays empty.
	ev := &recurrence.Event{
		ID: "e", Repeat: recurrence.RepeatRandom, Start: day(0, 0, 0),
		Random: &recurrence.RandomConfig{Probability: 1, Seed: 3, CheckInterval: 1},
	}
	memo := recurrence.NewMemoryMemo()
	ma := recurrence.NewMatcher(newTestConverter(t), memo, nil)

	assert.True(t, ma.Matches(ev, day(0, 0, 5)))
	assert.Equal(t, 0, memo.Len())
}
