/*
handlers.go - HTTP API handlers for the calendar engine

PURPOSE:
  Exposes the calendar engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to engine logic.

ENDPOINTS:
  Calendars:
    GET    /api/calendars                   List stored calendars
    POST   /api/calendars                   Create calendar from config JSON
    GET    /api/calendars/{id}              Get calendar details
    DELETE /api/calendars/{id}              Delete calendar and its events

  Presets:
    GET    /api/presets                     List built-in configurations
    POST   /api/presets/load                Create calendar from a preset

  Time:
    GET    /api/calendars/{id}/now          Full display view of world time
    PUT    /api/calendars/{id}/time         Set the world clock
    POST   /api/calendars/{id}/advance      Advance the world clock
    POST   /api/calendars/{id}/date         Resolve a date to a display view
    GET    /api/calendars/{id}/date?time=N  Resolve a scalar to a display view

  Grids:
    GET    /api/calendars/{id}/months/{year}/{month}  Month grid

  Events:
    GET    /api/calendars/{id}/events       List event descriptors
    POST   /api/calendars/{id}/events       Create event descriptor
    GET    /api/events/{id}                 Get event descriptor
    DELETE /api/events/{id}                 Delete event descriptor
    POST   /api/calendars/{id}/occurrences  Query occurrences over a range

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - CalendarFactory: JSON to Model conversion
  - Cached validated models/converters per calendar for performance

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Calendar or event not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/almanac/calendar-engine/calendar"
	"github.com/almanac/calendar-engine/factory"
	"github.com/almanac/calendar-engine/recurrence"
	"github.com/almanac/calendar-engine/store/sqlite"
)

// maxOccurrenceRangeDays caps a single occurrence query. Queries walk
// the range day by day, so an unbounded range is an unbounded scan.
const maxOccurrenceRangeDays = 36600

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// session is a loaded calendar: the validated model, its converter,
// and the warnings validation produced.
type session struct {
	model    *calendar.Model
	conv     *calendar.Converter
	warnings []string
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	CalendarFactory *factory.CalendarFactory

	// Cached validated calendars for quick lookups
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:           store,
		CalendarFactory: factory.NewCalendarFactory(),
		sessions:        make(map[string]*session),
	}
}

// LoadCalendars parses all stored calendars into the session cache.
func (h *Handler) LoadCalendars(ctx context.Context) error {
	records, err := h.Store.ListCalendars(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range records {
		model, warnings, err := h.CalendarFactory.ParseCalendar(r.ConfigJSON)
		if err != nil {
			continue // Skip invalid calendars
		}
		conv, err := calendar.NewConverter(model)
		if err != nil {
			continue
		}
		h.sessions[r.ID] = &session{model: model, conv: conv, warnings: warnings}
	}
	return nil
}

// getSession returns the cached session for a calendar, loading it from
// the store on a cache miss.
func (h *Handler) getSession(ctx context.Context, id string) (*session, *sqlite.CalendarRecord, error) {
	rec, err := h.Store.GetCalendar(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		return s, rec, nil
	}

	model, warnings, err := h.CalendarFactory.ParseCalendar(rec.ConfigJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("stored configuration is invalid: %w", err)
	}
	conv, err := calendar.NewConverter(model)
	if err != nil {
		return nil, nil, err
	}
	s = &session{model: model, conv: conv, warnings: warnings}

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	return s, rec, nil
}

func (h *Handler) dropSession(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// ListCalendars returns all stored calendars.
// GET /api/calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCalendars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calendars", err)
		return
	}

	dtos := make([]CalendarDTO, len(records))
	for i, rec := range records {
		dtos[i] = toCalendarDTO(rec, nil)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalendar returns a single calendar.
// GET /api/calendars/{id}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, rec, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, toCalendarDTO(*rec, s.warnings))
}

// CreateCalendar validates a configuration document and stores it.
// POST /api/calendars
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Config) == 0 {
		writeError(w, http.StatusBadRequest, "config is required", nil)
		return
	}

	model, warnings, err := h.CalendarFactory.ParseCalendar(string(req.Config))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar configuration", err)
		return
	}
	conv, err := calendar.NewConverter(model)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar configuration", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	name := req.Name
	if name == "" {
		name = model.Name
	}

	rec := sqlite.CalendarRecord{ID: id, Name: name, ConfigJSON: string(req.Config)}
	if err := h.Store.SaveCalendar(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}

	h.mu.Lock()
	h.sessions[id] = &session{model: model, conv: conv, warnings: warnings}
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, toCalendarDTO(rec, warnings))
}

// DeleteCalendar removes a calendar and its events.
// DELETE /api/calendars/{id}
func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Store.DeleteCalendar(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete calendar", err)
		return
	}

	h.dropSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PRESET ENDPOINTS
// =============================================================================

// ListPresets returns the built-in calendar configurations.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := factory.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = PresetDTO{ID: p.ID, Description: p.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadPreset creates a calendar from a built-in configuration.
// POST /api/presets/load
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var preset *factory.Preset
	for _, p := range factory.Presets() {
		if p.ID == req.Preset {
			preset = &p
			break
		}
	}
	if preset == nil {
		writeError(w, http.StatusNotFound, "Unknown preset: "+req.Preset, nil)
		return
	}

	model, warnings, err := h.CalendarFactory.ParseCalendar(preset.JSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Preset configuration is invalid", err)
		return
	}
	conv, err := calendar.NewConverter(model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Preset configuration is invalid", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	rec := sqlite.CalendarRecord{ID: id, Name: model.Name, ConfigJSON: preset.JSON}
	if err := h.Store.SaveCalendar(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}

	h.mu.Lock()
	h.sessions[id] = &session{model: model, conv: conv, warnings: warnings}
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, toCalendarDTO(rec, warnings))
}

// =============================================================================
// TIME ENDPOINTS
// =============================================================================

// GetNow returns the full display view of a calendar's world time.
// GET /api/calendars/{id}/now
func (h *Handler) GetNow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, rec, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, h.toDateDTO(s, rec.WorldTime))
}

// SetTime sets the world clock to an absolute scalar or a date.
// PUT /api/calendars/{id}/time
func (h *Handler) SetTime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, _, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	var t int64
	switch {
	case req.Time != nil:
		t = *req.Time
	case req.Date != nil:
		t = s.conv.ComponentsToTime(fromDisplay(s.model, *req.Date))
	default:
		writeError(w, http.StatusBadRequest, "time or date is required", nil)
		return
	}

	if err := h.Store.SetWorldTime(r.Context(), id, t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set world time", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDateDTO(s, t))
}

// AdvanceTime moves the world clock by structured amounts.
// POST /api/calendars/{id}/advance
func (h *Handler) AdvanceTime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdvanceTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, rec, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	clock := s.model.Clock
	delta := req.Days*clock.SecondsPerDay() +
		req.Hours*clock.SecondsPerHour() +
		req.Minutes*int64(clock.SecondsPerMinute) +
		req.Seconds
	t := rec.WorldTime + delta

	if err := h.Store.SetWorldTime(r.Context(), id, t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set world time", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDateDTO(s, t))
}

// ResolveDate converts between scalars and display dates.
// GET  /api/calendars/{id}/date?time=N   scalar to display view
// POST /api/calendars/{id}/date          display date to display view
//
// The POST form normalizes out-of-range components, so it also answers
// "what is day 45 of month 1".
func (h *Handler) ResolveDate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, rec, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	var t int64
	if r.Method == http.MethodGet {
		raw := r.URL.Query().Get("time")
		if raw == "" {
			t = rec.WorldTime
		} else {
			t, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid time parameter", err)
				return
			}
		}
	} else {
		var req DateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		t = s.conv.ComponentsToTime(fromDisplay(s.model, req))
	}

	writeJSON(w, http.StatusOK, h.toDateDTO(s, t))
}

// =============================================================================
// GRID ENDPOINTS
// =============================================================================

// GetMonthGrid returns the display view of one month, one DayDTO per
// effective day, festivals included.
// GET /api/calendars/{id}/months/{year}/{month}
func (h *Handler) GetMonthGrid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	displayYear, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	displayMonth, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	s, _, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	year := displayYear - s.model.Years.YearZero
	month := displayMonth - 1
	if month < 0 || month >= len(s.model.Months) {
		writeError(w, http.StatusBadRequest, "Month out of range", nil)
		return
	}

	matcher, events, err := h.buildMatcher(r.Context(), id, s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	grid := MonthGridDTO{
		Year:      displayYear,
		Month:     displayMonth,
		MonthName: s.model.Months[month].Name,
		Weekdays:  weekdayNames(s.model),
	}

	days := s.conv.DaysInMonth(month, year)
	for day := 0; day < days; day++ {
		c := calendar.Components{Year: year, Month: month, DayOfMonth: day}
		t := s.conv.ComponentsToTime(c)

		dto := DayDTO{
			Day:   day + 1,
			Time:  t,
			Moons: s.conv.MoonPhases(t),
		}
		if s.model.Daylight.Enabled {
			dto.DaylightHours = s.conv.DaylightHours(s.conv.DayOfYear(c), year)
		}
		if wd := s.conv.DayOfWeek(c); wd != calendar.NoWeekday {
			dto.Weekday = s.model.Weekdays[wd].Name
			dto.IsRestDay = s.model.Weekdays[wd].IsRestDay
		}
		if f := s.model.FindFestivalDay(c); f != nil {
			dto.Festival = f.Name
		}
		if season, _, ok := s.conv.SeasonFor(c); ok {
			dto.Season = season.Name
		}
		for _, ev := range events {
			if matcher.Matches(ev, c) {
				dto.Events = append(dto.Events, ev.Title)
			}
		}
		grid.Days = append(grid.Days, dto)
	}

	writeJSON(w, http.StatusOK, grid)
}

// =============================================================================
// EVENT ENDPOINTS
// =============================================================================

// ListEvents returns all event descriptors for a calendar.
// GET /api/calendars/{id}/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetCalendar(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calendar not found", nil)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		}
		return
	}

	events, err := h.Store.ListEvents(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []*recurrence.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent stores an event descriptor.
// POST /api/calendars/{id}/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, _, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	var ev recurrence.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if ev.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", nil)
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Repeat == "" {
		ev.Repeat = recurrence.RepeatNever
	}

	// Anchor the start day so descriptor arithmetic sees a canonical
	// date.
	ev.Start = s.conv.Normalize(ev.Start)

	if err := h.Store.SaveEvent(r.Context(), id, &ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, &ev)
}

// GetEvent returns one event descriptor.
// GET /api/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ev, err := h.Store.GetEvent(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent removes one event descriptor and its cached occurrences.
// DELETE /api/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Store.DeleteEvent(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueryOccurrences walks an inclusive day range and returns every
// (event, day) hit.
// POST /api/calendars/{id}/occurrences
func (h *Handler) QueryOccurrences(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req OccurrencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, _, err := h.getSession(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	from := s.conv.Normalize(fromDisplay(s.model, req.From)).Date()
	to := s.conv.Normalize(fromDisplay(s.model, req.To)).Date()
	fromDay := s.conv.AbsoluteDay(from)
	toDay := s.conv.AbsoluteDay(to)
	if toDay < fromDay {
		writeError(w, http.StatusBadRequest, "to precedes from", nil)
		return
	}
	if toDay-fromDay > maxOccurrenceRangeDays {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Range exceeds %d days", maxOccurrenceRangeDays), nil)
		return
	}

	matcher, events, err := h.buildMatcher(r.Context(), id, s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	occurrences := []OccurrenceDTO{}
	c := from
	for day := fromDay; day <= toDay; day++ {
		for _, ev := range events {
			if matcher.Matches(ev, c) {
				occurrences = append(occurrences, OccurrenceDTO{
					EventID: ev.ID,
					Title:   ev.Title,
					Date:    h.toDateDTO(s, s.conv.ComponentsToTime(c)),
				})
			}
		}
		c = s.conv.AddDays(c, 1)
	}

	writeJSON(w, http.StatusOK, occurrences)
}

// buildMatcher loads a calendar's events and wires a matcher over them,
// backed by the store's occurrence memo.
func (h *Handler) buildMatcher(ctx context.Context, calendarID string, s *session) (*recurrence.Matcher, []*recurrence.Event, error) {
	events, err := h.Store.ListEvents(ctx, calendarID)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*recurrence.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	resolve := func(id string) (*recurrence.Event, bool) {
		ev, ok := byID[id]
		return ev, ok
	}

	return recurrence.NewMatcher(s.conv, h.Store.Memo(), resolve), events, nil
}

// =============================================================================
// DISPLAY CONVERSION
// =============================================================================

// fromDisplay converts a display-indexed request date into internal
// components.
func fromDisplay(m *calendar.Model, req DateRequest) calendar.Components {
	return calendar.Components{
		Year:       req.Year - m.Years.YearZero,
		Month:      req.Month - 1,
		DayOfMonth: req.Day - 1,
		Hour:       req.Hour,
		Minute:     req.Minute,
		Second:     req.Second,
	}
}

// toDateDTO builds the full display view of one instant.
func (h *Handler) toDateDTO(s *session, t int64) DateDTO {
	c := s.conv.TimeToComponents(t)

	dto := DateDTO{
		Time:      t,
		Year:      c.Year + s.model.Years.YearZero,
		Month:     c.Month + 1,
		MonthName: s.model.Months[c.Month].Name,
		Day:       c.DayOfMonth + 1,
		Hour:      c.Hour,
		Minute:    c.Minute,
		Second:    c.Second,
		Moons:     s.conv.MoonPhases(t),
		Cycles:    s.conv.CycleValues(c),
	}

	if wd := s.conv.DayOfWeek(c); wd != calendar.NoWeekday {
		dto.Weekday = s.model.Weekdays[wd].Name
	}
	if f := s.model.FindFestivalDay(c); f != nil {
		dto.Festival = f.Name
	}
	if era, ok := s.conv.CurrentEra(c.Year); ok {
		dto.Era = era.Name
		dto.EraYear = c.Year - era.StartYear + 1
	}
	if season, _, ok := s.conv.SeasonFor(c); ok {
		dto.Season = season.Name
	}
	if s.model.Daylight.Enabled {
		dto.DaylightHours = s.conv.DaylightHours(s.conv.DayOfYear(c), c.Year)
	}
	return dto
}

func toCalendarDTO(rec sqlite.CalendarRecord, warnings []string) CalendarDTO {
	return CalendarDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		WorldTime: rec.WorldTime,
		Warnings:  warnings,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

func weekdayNames(m *calendar.Model) []string {
	names := make([]string, len(m.Weekdays))
	for i, wd := range m.Weekdays {
		names[i] = wd.Name
	}
	return names
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
