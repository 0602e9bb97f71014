/*
handlers_test.go - HTTP API tests

PURPOSE:
  Drives the router end to end over an in-memory store: preset loading,
  calendar CRUD, the world clock, display-indexed date resolution,
  month grids, and event occurrence queries. Display conventions
  (yearZero offset, 1-indexed months and days) are asserted here
  because the API boundary is the only place they apply.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanac/calendar-engine/api"
	"github.com/almanac/calendar-engine/calendar"
	"github.com/almanac/calendar-engine/recurrence"
	"github.com/almanac/calendar-engine/store/sqlite"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return api.NewRouter(api.NewHandler(store))
}

// do sends a request through the router and returns the recorder.
func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v),
		"body: %s", rec.Body.String())
	return v
}

// loadHarptos installs the harptos preset under a fixed ID.
func loadHarptos(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/presets/load",
		api.LoadPresetRequest{Preset: "harptos", ID: "h1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return "h1"
}

func TestListPresets(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/presets/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	presets := decode[[]api.PresetDTO](t, rec)
	require.Len(t, presets, 2)
	ids := []string{presets[0].ID, presets[1].ID}
	assert.Contains(t, ids, "gregorian")
	assert.Contains(t, ids, "harptos")
}

func TestLoadPreset(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/presets/load",
		api.LoadPresetRequest{Preset: "harptos", ID: "h1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decode[api.CalendarDTO](t, rec)
	assert.Equal(t, "h1", dto.ID)
	assert.Equal(t, "Calendar of Harptos", dto.Name)

	rec = do(t, router, http.MethodGet, "/api/calendars/h1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/presets/load",
		api.LoadPresetRequest{Preset: "mayan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCalendar(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid config gets an ID", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/", api.CreateCalendarRequest{
			Config: json.RawMessage(`{
				"name": "Tiny",
				"days": {"values": ["One", "Two"]},
				"months": {"values": [{"name": "Only", "days": 10}]}
			}`),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		dto := decode[api.CalendarDTO](t, rec)
		assert.NotEmpty(t, dto.ID)
		assert.Equal(t, "Tiny", dto.Name)
	})

	t.Run("invalid config rejected before storing", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/", api.CreateCalendarRequest{
			ID:     "bad",
			Config: json.RawMessage(`{"name": "Bad", "days": {"values": []}, "months": {"values": []}}`),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, router, http.MethodGet, "/api/calendars/bad", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing config rejected", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/", api.CreateCalendarRequest{ID: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteCalendar(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	rec := do(t, router, http.MethodDelete, "/api/calendars/h1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/calendars/h1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/calendars/h1/now", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetNowAtEpoch(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	rec := do(t, router, http.MethodGet, "/api/calendars/h1/now", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	now := decode[api.DateDTO](t, rec)
	assert.Equal(t, int64(0), now.Time)
	assert.Equal(t, 0, now.Year)
	assert.Equal(t, 1, now.Month)
	assert.Equal(t, "Hammer", now.MonthName)
	assert.Equal(t, 1, now.Day)
	assert.Equal(t, "First-day", now.Weekday)
	assert.Equal(t, "Dalereckoning", now.Era)
	assert.Equal(t, 1, now.EraYear)
	assert.Equal(t, "Winter", now.Season)
	require.Len(t, now.Cycles, 1)
	assert.Equal(t, "Ring", now.Cycles[0].Entry)
}

func TestSetAndAdvanceTime(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	// Year 0 is a leap year under the every-4th-year rule, so it runs
	// 360 month days plus all six festivals.
	const secondsPerDay = 24 * 60 * 60
	rec := do(t, router, http.MethodPut, "/api/calendars/h1/time", api.SetTimeRequest{
		Date: &api.DateRequest{Year: 1, Month: 1, Day: 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[api.DateDTO](t, rec)
	assert.Equal(t, int64(366*secondsPerDay), dto.Time)
	assert.Equal(t, 1, dto.Year)
	assert.Equal(t, 1, dto.Month)
	assert.Equal(t, 1, dto.Day)

	rec = do(t, router, http.MethodPost, "/api/calendars/h1/advance",
		api.AdvanceTimeRequest{Days: 2, Hours: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[api.DateDTO](t, rec)
	assert.Equal(t, int64(368*secondsPerDay+3*3600), dto.Time)
	assert.Equal(t, 3, dto.Day)
	assert.Equal(t, 3, dto.Hour)

	rec = do(t, router, http.MethodPost, "/api/calendars/h1/advance",
		api.AdvanceTimeRequest{Days: -2, Hours: -3})
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[api.DateDTO](t, rec)
	assert.Equal(t, int64(366*secondsPerDay), dto.Time)

	absolute := int64(12345)
	rec = do(t, router, http.MethodPut, "/api/calendars/h1/time",
		api.SetTimeRequest{Time: &absolute})
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[api.DateDTO](t, rec)
	assert.Equal(t, absolute, dto.Time)

	rec = do(t, router, http.MethodPut, "/api/calendars/h1/time", api.SetTimeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveDate(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	t.Run("scalar to display", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/calendars/h1/date?time=0", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		dto := decode[api.DateDTO](t, rec)
		assert.Equal(t, 0, dto.Year)
		assert.Equal(t, 1, dto.Month)
		assert.Equal(t, 1, dto.Day)
	})

	t.Run("out of range day carries into the next month", func(t *testing.T) {
		// Hammer runs 30 month days plus Midwinter, so display day 45
		// lands 14 days into Alturiak.
		rec := do(t, router, http.MethodPost, "/api/calendars/h1/date",
			api.DateRequest{Year: 0, Month: 1, Day: 45})
		require.Equal(t, http.StatusOK, rec.Code)
		dto := decode[api.DateDTO](t, rec)
		assert.Equal(t, 2, dto.Month)
		assert.Equal(t, "Alturiak", dto.MonthName)
		assert.Equal(t, 14, dto.Day)
	})

	t.Run("bad time parameter", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/calendars/h1/date?time=later", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetMonthGrid(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	rec := do(t, router, http.MethodGet, "/api/calendars/h1/months/0/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[api.MonthGridDTO](t, rec)

	assert.Equal(t, 0, grid.Year)
	assert.Equal(t, 1, grid.Month)
	assert.Equal(t, "Hammer", grid.MonthName)
	require.Len(t, grid.Weekdays, 10)
	require.Len(t, grid.Days, 31)

	first := grid.Days[0]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "First-day", first.Weekday)
	assert.False(t, first.IsRestDay)

	// The tenth weekday slot is the rest day.
	assert.Equal(t, "Tenth-day", grid.Days[9].Weekday)
	assert.True(t, grid.Days[9].IsRestDay)

	last := grid.Days[30]
	assert.Equal(t, "Midwinter", last.Festival)
	assert.Empty(t, last.Weekday, "intercalary day consumes no weekday slot")

	rec = do(t, router, http.MethodGet, "/api/calendars/h1/months/0/13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/calendars/missing/months/0/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventLifecycle(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	rec := do(t, router, http.MethodPost, "/api/calendars/h1/events", recurrence.Event{
		Title: "Market Day",
		Start: calendar.Components{Year: 0, Month: 0, DayOfMonth: 4},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ev := decode[recurrence.Event](t, rec)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, recurrence.RepeatNever, ev.Repeat)

	rec = do(t, router, http.MethodGet, "/api/calendars/h1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]recurrence.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "Market Day", events[0].Title)

	rec = do(t, router, http.MethodGet, "/api/events/"+ev.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/events/"+ev.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/events/"+ev.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/calendars/h1/events",
		recurrence.Event{Start: calendar.Components{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "title is required")
}

func TestQueryOccurrences(t *testing.T) {
	router := newTestRouter(t)
	loadHarptos(t, router)

	rec := do(t, router, http.MethodPost, "/api/calendars/h1/events", recurrence.Event{
		Title:    "Caravan",
		Start:    calendar.Components{Year: 0, Month: 0, DayOfMonth: 4},
		Repeat:   recurrence.RepeatDaily,
		Interval: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/calendars/h1/occurrences", api.OccurrencesRequest{
		From: api.DateRequest{Year: 0, Month: 1, Day: 1},
		To:   api.DateRequest{Year: 0, Month: 1, Day: 31},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	occ := decode[[]api.OccurrenceDTO](t, rec)
	require.Len(t, occ, 3)
	assert.Equal(t, "Caravan", occ[0].Title)
	assert.Equal(t, 5, occ[0].Date.Day)
	assert.Equal(t, 15, occ[1].Date.Day)
	assert.Equal(t, 25, occ[2].Date.Day)

	t.Run("inverted range rejected", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/h1/occurrences", api.OccurrencesRequest{
			From: api.DateRequest{Year: 1, Month: 1, Day: 1},
			To:   api.DateRequest{Year: 0, Month: 1, Day: 1},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized range rejected", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/h1/occurrences", api.OccurrencesRequest{
			From: api.DateRequest{Year: 0, Month: 1, Day: 1},
			To:   api.DateRequest{Year: 500, Month: 1, Day: 1},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calendars/h1/occurrences", api.OccurrencesRequest{
			From: api.DateRequest{Year: 0, Month: 2, Day: 2},
			To:   api.DateRequest{Year: 0, Month: 2, Day: 3},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		occ := decode[[]api.OccurrenceDTO](t, rec)
		assert.NotNil(t, occ)
		assert.Empty(t, occ)
	})
}
