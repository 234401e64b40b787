package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"eventra/core/errors"
	calendarDto "eventra/modules/calendar/dto"
	"eventra/modules/calendar/tasks"
	"eventra/modules/event/dto"
	"eventra/modules/event/entity"
	"eventra/modules/event/repository"
	geocodeService "eventra/modules/geocode/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	copied := *event
	r.events[event.ID] = &copied
	return event, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*entity.Event, error) {
	event, ok := r.events[id]
	if !ok || event.UserID != userID {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Search(ctx context.Context, userID uuid.UUID, query, timeFilter string) ([]entity.Event, error) {
	now := time.Now()
	needle := strings.ToLower(strings.TrimSpace(query))

	var results []entity.Event
	for _, event := range r.events {
		if event.UserID != userID {
			continue
		}
		switch timeFilter {
		case repository.FilterUpcoming:
			if event.StartTime.Before(now) {
				continue
			}
		case repository.FilterPast:
			if !event.StartTime.Before(now) {
				continue
			}
		}
		if needle != "" {
			haystack := strings.ToLower(event.Title + " " + event.Description + " " + event.Location)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		results = append(results, *event)
	}
	return results, nil
}

func (r *fakeEventRepo) ListWithCoordinates(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	var results []entity.Event
	for _, event := range r.events {
		if event.UserID == userID && event.Latitude != nil && event.Longitude != nil {
			results = append(results, *event)
		}
	}
	return results, nil
}

func (r *fakeEventRepo) SetRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	if event, ok := r.events[id]; ok && event.GoogleEventID == nil {
		event.GoogleEventID = &remoteID
		event.SyncedToGoogle = true
	}
	return nil
}

type fakeGeocoder struct {
	coords *geocodeService.Coordinates
	err    error
	calls  int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, location string) (*geocodeService.Coordinates, error) {
	g.calls++
	return g.coords, g.err
}

type fakeCalendar struct {
	remote []calendarDto.RemoteEvent
	err    error
}

func (c *fakeCalendar) GetConnections(ctx context.Context, userID uuid.UUID) ([]calendarDto.CalendarConnectionResponse, error) {
	return nil, nil
}

func (c *fakeCalendar) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error {
	return nil
}

func (c *fakeCalendar) CreateRemoteEvent(ctx context.Context, userID uuid.UUID, input *calendarDto.RemoteEventInput) (string, error) {
	return "", nil
}

func (c *fakeCalendar) UpdateRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string, input *calendarDto.RemoteEventInput) error {
	return nil
}

func (c *fakeCalendar) DeleteRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string) error {
	return nil
}

func (c *fakeCalendar) ListRemoteEvents(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]calendarDto.RemoteEvent, error) {
	return c.remote, c.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(ctx context.Context, task *asynq.Task) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func (e *fakeEnqueuer) lastPayload(t *testing.T) tasks.SyncEventPayload {
	t.Helper()
	require.NotEmpty(t, e.tasks)
	var payload tasks.SyncEventPayload
	require.NoError(t, json.Unmarshal(e.tasks[len(e.tasks)-1].Payload(), &payload))
	return payload
}

type testDeps struct {
	repo     *fakeEventRepo
	geocoder *fakeGeocoder
	calendar *fakeCalendar
	enqueuer *fakeEnqueuer
	svc      EventService
	userID   uuid.UUID
}

func newTestDeps() *testDeps {
	d := &testDeps{
		repo:     newFakeEventRepo(),
		geocoder: &fakeGeocoder{},
		calendar: &fakeCalendar{},
		enqueuer: &fakeEnqueuer{},
		userID:   uuid.New(),
	}
	d.svc = NewEventService(d.repo, d.geocoder, d.calendar, d.enqueuer)
	return d
}

func appCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	return appErr.Code
}

func TestCreateEventValidation(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	start := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		req  dto.CreateEventRequest
	}{
		{"missing title", dto.CreateEventRequest{StartTime: start}},
		{"missing start", dto.CreateEventRequest{Title: "Standup"}},
		{"end before start", dto.CreateEventRequest{Title: "Standup", StartTime: start, EndTime: start.Add(-time.Hour)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.svc.Create(ctx, d.userID, &tc.req)
			require.Error(t, err)
			assert.Equal(t, errors.ErrInvalidInput, appCode(t, err))
		})
	}
}

func TestCreateEventDefaultsEndTime(t *testing.T) {
	d := newTestDeps()
	start := time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC)

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Lunch with Dr. Rivera",
		StartTime: start,
	})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), resp.EndTime)
}

func TestCreateEventGeocodesLocation(t *testing.T) {
	d := newTestDeps()
	d.geocoder.coords = &geocodeService.Coordinates{Latitude: 42.3736, Longitude: -71.1190}

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Lunch with Dr. Rivera",
		Location:  "Harvard Square",
		StartTime: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Latitude)
	require.NotNil(t, resp.Longitude)
	assert.InDelta(t, 42.3736, *resp.Latitude, 0.0001)
	assert.Equal(t, 1, d.geocoder.calls)

	payload := d.enqueuer.lastPayload(t)
	assert.Equal(t, tasks.ActionCreate, payload.Action)
	assert.Equal(t, d.userID, payload.UserID)
}

func TestCreateEventGeocodeFailureStillCreates(t *testing.T) {
	d := newTestDeps()
	d.geocoder.err = fmt.Errorf("upstream down")

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Standup",
		Location:  "Somewhere",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Latitude)
	assert.Nil(t, resp.Longitude)
}

func TestCreateEventSlugFromTitle(t *testing.T) {
	d := newTestDeps()

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Lunch with Dr. Rivera",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Slug, "lunch-with-dr-rivera-"), "got slug %q", resp.Slug)
}

func TestDeleteEventEnqueuesRemoteRemoval(t *testing.T) {
	d := newTestDeps()

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Standup",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	eventID := uuid.MustParse(resp.ID)
	require.NoError(t, d.repo.SetRemoteID(context.Background(), eventID, "remote-123"))

	require.NoError(t, d.svc.Delete(context.Background(), d.userID, eventID))

	payload := d.enqueuer.lastPayload(t)
	assert.Equal(t, tasks.ActionDelete, payload.Action)
	assert.Equal(t, "remote-123", payload.RemoteID)

	_, err = d.svc.GetByID(context.Background(), d.userID, eventID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, appCode(t, err))
}

func TestListReturnsOnlyUpcomingEvents(t *testing.T) {
	d := newTestDeps()
	now := time.Now()

	_, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Old retro",
		StartTime: now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Planning",
		StartTime: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	result, err := d.svc.List(context.Background(), d.userID)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "Planning", result.Events[0].Title)
}

func TestListOrdersSoonestFirst(t *testing.T) {
	d := newTestDeps()
	now := time.Now()

	for i, offset := range []time.Duration{72 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		_, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
			Title:     fmt.Sprintf("Event %d", i),
			StartTime: now.Add(offset),
		})
		require.NoError(t, err)
	}

	result, err := d.svc.List(context.Background(), d.userID)
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	for i := 1; i < len(result.Events); i++ {
		assert.True(t, result.Events[i-1].StartTime.Before(result.Events[i].StartTime), "list should be soonest first")
	}
}

func TestSearchRejectsUnknownFilter(t *testing.T) {
	d := newTestDeps()
	_, err := d.svc.Search(context.Background(), d.userID, "", "yesterday")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, appCode(t, err))
}

func TestSearchMergesAndDeduplicatesRemoteEvents(t *testing.T) {
	d := newTestDeps()
	now := time.Now()

	resp, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Synced meeting",
		StartTime: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, d.repo.SetRemoteID(context.Background(), uuid.MustParse(resp.ID), "remote-abc"))

	d.calendar.remote = []calendarDto.RemoteEvent{
		{RemoteID: "remote-abc", Title: "Synced meeting", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)},
		{RemoteID: "remote-xyz", Title: "Google only event", StartTime: now.Add(4 * time.Hour), EndTime: now.Add(5 * time.Hour)},
	}

	result, err := d.svc.Search(context.Background(), d.userID, "", repository.FilterAll)
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)

	var sources []string
	var remoteIDs []string
	for _, ev := range result.Events {
		sources = append(sources, ev.Source)
		remoteIDs = append(remoteIDs, ev.GoogleEventID)
	}
	assert.ElementsMatch(t, []string{dto.SourceLocal, dto.SourceGoogle}, sources)
	assert.ElementsMatch(t, []string{"remote-abc", "remote-xyz"}, remoteIDs)
}

func TestSearchRemoteFailureDegradesToLocal(t *testing.T) {
	d := newTestDeps()
	d.calendar.err = fmt.Errorf("google unavailable")

	_, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Local only",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	result, err := d.svc.Search(context.Background(), d.userID, "", repository.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "Local only", result.Events[0].Title)
}

func TestSearchTimeFilterAndOrdering(t *testing.T) {
	d := newTestDeps()
	now := time.Now()

	for i, offset := range []time.Duration{-48 * time.Hour, -24 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		_, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
			Title:     fmt.Sprintf("Event %d", i),
			StartTime: now.Add(offset),
		})
		require.NoError(t, err)
	}

	upcoming, err := d.svc.Search(context.Background(), d.userID, "", repository.FilterUpcoming)
	require.NoError(t, err)
	require.Equal(t, 2, upcoming.Total)
	assert.True(t, upcoming.Events[0].StartTime.Before(upcoming.Events[1].StartTime), "upcoming should be soonest first")

	past, err := d.svc.Search(context.Background(), d.userID, "", repository.FilterPast)
	require.NoError(t, err)
	require.Equal(t, 2, past.Total)
	assert.True(t, past.Events[0].StartTime.After(past.Events[1].StartTime), "past should be most recent first")
}

func TestSearchQueryFiltersRemoteEvents(t *testing.T) {
	d := newTestDeps()
	now := time.Now()

	d.calendar.remote = []calendarDto.RemoteEvent{
		{RemoteID: "r1", Title: "Dentist appointment", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		{RemoteID: "r2", Title: "Team lunch", StartTime: now.Add(3 * time.Hour), EndTime: now.Add(4 * time.Hour)},
	}

	result, err := d.svc.Search(context.Background(), d.userID, "lunch", repository.FilterAll)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "Team lunch", result.Events[0].Title)
}

func TestMapEventsOnlyReturnsGeocoded(t *testing.T) {
	d := newTestDeps()

	_, err := d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "No location",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	d.geocoder.coords = &geocodeService.Coordinates{Latitude: 1, Longitude: 2}
	_, err = d.svc.Create(context.Background(), d.userID, &dto.CreateEventRequest{
		Title:     "Located",
		Location:  "Harvard Square",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	events, err := d.svc.MapEvents(context.Background(), d.userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Located", events[0].Title)
}
