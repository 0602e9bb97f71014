/*
sqlite_test.go - Tests for the SQLite persistence layer

PURPOSE:
  Runs every store operation against an in-memory database: calendar
  CRUD and the world clock, event descriptor round-trips, the cascade
  from calendar deletion to events, and the populate-once contract of
  the random occurrence memo.
*/
package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanac/calendar-engine/calendar"
	"github.com/almanac/calendar-engine/recurrence"
	"github.com/almanac/calendar-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saveTestCalendar(t *testing.T, store *sqlite.Store, id string) {
	t.Helper()
	err := store.SaveCalendar(context.Background(), sqlite.CalendarRecord{
		ID:         id,
		Name:       "Test " + id,
		ConfigJSON: `{"name":"Test"}`,
	})
	require.NoError(t, err)
}

func TestCalendarCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetCalendar(ctx, "missing")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)

	saveTestCalendar(t, store, "cal-1")
	saveTestCalendar(t, store, "cal-2")

	rec, err := store.GetCalendar(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, "Test cal-1", rec.Name)
	assert.Equal(t, `{"name":"Test"}`, rec.ConfigJSON)
	assert.Equal(t, int64(0), rec.WorldTime)
	assert.False(t, rec.CreatedAt.IsZero())

	// Upsert replaces the document and keeps the ID.
	err = store.SaveCalendar(ctx, sqlite.CalendarRecord{
		ID: "cal-1", Name: "Renamed", ConfigJSON: `{"name":"Renamed"}`, WorldTime: 42,
	})
	require.NoError(t, err)
	rec, err = store.GetCalendar(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", rec.Name)
	assert.Equal(t, int64(42), rec.WorldTime)

	records, err := store.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Ordered by name: "Renamed" after "Test cal-2".
	assert.Equal(t, "cal-1", records[0].ID)
	assert.Equal(t, "cal-2", records[1].ID)

	require.NoError(t, store.DeleteCalendar(ctx, "cal-2"))
	assert.ErrorIs(t, store.DeleteCalendar(ctx, "cal-2"), sqlite.ErrNotFound)
	_, err = store.GetCalendar(ctx, "cal-2")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestSetWorldTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saveTestCalendar(t, store, "cal-1")

	require.NoError(t, store.SetWorldTime(ctx, "cal-1", 86400))
	rec, err := store.GetCalendar(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, int64(86400), rec.WorldTime)

	require.NoError(t, store.SetWorldTime(ctx, "cal-1", -3600))
	rec, err = store.GetCalendar(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, int64(-3600), rec.WorldTime)

	assert.ErrorIs(t, store.SetWorldTime(ctx, "missing", 1), sqlite.ErrNotFound)
}

func TestEventRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saveTestCalendar(t, store, "cal-1")

	weekday := 2
	month := 4
	ev := &recurrence.Event{
		ID:       "ev-1",
		Title:    "Council Session",
		Start:    calendar.Components{Year: 3, Month: 1, DayOfMonth: 14, Hour: 9},
		Repeat:   recurrence.RepeatMonthly,
		Interval: 2,
		RepeatEnd: &calendar.Components{
			Year: 5, Month: 11, DayOfMonth: 29,
		},
		Weekday: &weekday,
		MoonConditions: []recurrence.MoonCondition{
			{Moon: 0, PhaseStart: 0.5, PhaseEnd: 0.75},
		},
		Seasons:      []string{"Winter"},
		RangePattern: &recurrence.RangePattern{Weekday: 2, Ordinal: -1, Month: &month},
	}
	require.NoError(t, store.SaveEvent(ctx, "cal-1", ev))

	got, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = store.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestListEventsScopedToCalendar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saveTestCalendar(t, store, "cal-1")
	saveTestCalendar(t, store, "cal-2")

	for _, ev := range []*recurrence.Event{
		{ID: "ev-a", Title: "Alpha", Repeat: recurrence.RepeatDaily},
		{ID: "ev-b", Title: "Beta", Repeat: recurrence.RepeatNever},
	} {
		require.NoError(t, store.SaveEvent(ctx, "cal-1", ev))
	}
	require.NoError(t, store.SaveEvent(ctx, "cal-2", &recurrence.Event{
		ID: "ev-c", Title: "Gamma", Repeat: recurrence.RepeatNever,
	}))

	events, err := store.ListEvents(ctx, "cal-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	events, err = store.ListEvents(ctx, "cal-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Gamma", events[0].Title)

	events, err = store.ListEvents(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeleteCalendarCascadesToEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saveTestCalendar(t, store, "cal-1")
	require.NoError(t, store.SaveEvent(ctx, "cal-1", &recurrence.Event{
		ID: "ev-1", Title: "Orphaned", Repeat: recurrence.RepeatNever,
	}))

	require.NoError(t, store.DeleteCalendar(ctx, "cal-1"))
	_, err := store.GetEvent(ctx, "ev-1")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestDeleteEventDropsCachedOccurrences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saveTestCalendar(t, store, "cal-1")
	require.NoError(t, store.SaveEvent(ctx, "cal-1", &recurrence.Event{
		ID: "ev-1", Title: "Raid", Repeat: recurrence.RepeatRandom,
	}))
	require.NoError(t, store.PutOccurrences(ctx, "ev-1", 99, []int64{3, 17, 40}))

	require.NoError(t, store.DeleteEvent(ctx, "ev-1"))
	assert.ErrorIs(t, store.DeleteEvent(ctx, "ev-1"), sqlite.ErrNotFound)

	_, ok, err := store.GetOccurrences(ctx, "ev-1", 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOccurrencesPopulateOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days, ok, err := store.GetOccurrences(ctx, "ev-1", 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, days)

	require.NoError(t, store.PutOccurrences(ctx, "ev-1", 7, []int64{1, 2, 3}))
	// Replays are ignored; the first derivation stays authoritative.
	require.NoError(t, store.PutOccurrences(ctx, "ev-1", 7, []int64{9, 9, 9}))

	days, ok, err = store.GetOccurrences(ctx, "ev-1", 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, days)

	// Distinct seeds keep distinct sets.
	require.NoError(t, store.PutOccurrences(ctx, "ev-1", 8, []int64{5}))
	days, ok, err = store.GetOccurrences(ctx, "ev-1", 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{5}, days)
}

func TestMemoAdapter(t *testing.T) {
	store := newTestStore(t)
	memo := store.Memo()

	key := recurrence.MemoKey{EventID: "ev-1", Seed: 12345}
	_, ok := memo.Get(key)
	assert.False(t, ok)

	memo.Put(key, []int64{10, 20})
	days, ok := memo.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []int64{10, 20}, days)

	// Populate-once holds through the adapter as well.
	memo.Put(key, []int64{99})
	days, _ = memo.Get(key)
	assert.Equal(t, []int64{10, 20}, days)
}
