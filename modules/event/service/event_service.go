package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
	"eventra/core/queue"
	"eventra/core/utils"
	calendarService "eventra/modules/calendar/service"
	"eventra/modules/calendar/tasks"
	"eventra/modules/event/dto"
	"eventra/modules/event/entity"
	"eventra/modules/event/mapper"
	"eventra/modules/event/repository"
	geocodeService "eventra/modules/geocode/service"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, error)
	Update(ctx context.Context, userID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, userID, eventID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) (*dto.SearchEventsResponse, error)
	Search(ctx context.Context, userID uuid.UUID, query, timeFilter string) (*dto.SearchEventsResponse, error)
	MapEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, error)
}

type eventService struct {
	repo        repository.EventRepository
	geocodeSvc  geocodeService.GeocodeService
	calendarSvc calendarService.CalendarService
	queue       queue.Enqueuer
}

func NewEventService(
	repo repository.EventRepository,
	geocodeSvc geocodeService.GeocodeService,
	calendarSvc calendarService.CalendarService,
	enqueuer queue.Enqueuer,
) EventService {
	return &eventService{
		repo:        repo,
		geocodeSvc:  geocodeSvc,
		calendarSvc: calendarSvc,
		queue:       enqueuer,
	}
}

func (s *eventService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.StartTime.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time is required", nil)
	}

	endTime := req.EndTime
	if endTime.IsZero() {
		endTime = req.StartTime.Add(time.Hour)
	}
	if endTime.Before(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must not be before start_time", nil)
	}

	event := &entity.Event{
		UserID:       userID,
		Title:        title,
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		StartTime:    req.StartTime,
		EndTime:      endTime,
		OriginalText: req.OriginalText,
		Slug:         makeSlug(title),
	}
	if req.ColorID != "" {
		event.ColorID = &req.ColorID
	}
	event.GuestEmails = joinEmails(req.GuestEmails)

	s.applyCoordinates(ctx, event)

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	s.enqueueSync(ctx, tasks.SyncEventPayload{
		EventID: created.ID,
		UserID:  userID,
		Action:  tasks.ActionCreate,
	})

	resp := mapper.ToEventResponse(created)
	return &resp, nil
}

func (s *eventService) GetByID(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.repo.GetByID(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	resp := mapper.ToEventResponse(event)
	return &resp, nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	event, err := s.repo.GetByID(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.StartTime.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time is required", nil)
	}
	endTime := req.EndTime
	if endTime.IsZero() {
		endTime = req.StartTime.Add(time.Hour)
	}
	if endTime.Before(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must not be before start_time", nil)
	}

	locationChanged := !strings.EqualFold(strings.TrimSpace(req.Location), event.Location)

	if title != event.Title {
		event.Slug = makeSlug(title)
	}
	event.Title = title
	event.Description = req.Description
	event.Location = strings.TrimSpace(req.Location)
	event.StartTime = req.StartTime
	event.EndTime = endTime
	event.ColorID = nil
	if req.ColorID != "" {
		event.ColorID = &req.ColorID
	}
	event.GuestEmails = joinEmails(req.GuestEmails)

	if locationChanged {
		event.Latitude = nil
		event.Longitude = nil
		s.applyCoordinates(ctx, event)
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}

	s.enqueueSync(ctx, tasks.SyncEventPayload{
		EventID: event.ID,
		UserID:  userID,
		Action:  tasks.ActionUpdate,
	})

	resp := mapper.ToEventResponse(event)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if err := s.repo.Delete(ctx, eventID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}

	payload := tasks.SyncEventPayload{
		EventID: eventID,
		UserID:  userID,
		Action:  tasks.ActionDelete,
	}
	if event.GoogleEventID != nil {
		payload.RemoteID = *event.GoogleEventID
	}
	s.enqueueSync(ctx, payload)
	return nil
}

// List is the default event listing: upcoming events only, soonest first,
// merged with the remote calendar.
func (s *eventService) List(ctx context.Context, userID uuid.UUID) (*dto.SearchEventsResponse, error) {
	return s.Search(ctx, userID, "", repository.FilterUpcoming)
}

// Search returns the user's events merged with their Google Calendar events.
// Remote events already mirrored locally are dropped, keyed on the Google
// event id. A remote failure degrades to local results only.
func (s *eventService) Search(ctx context.Context, userID uuid.UUID, query, timeFilter string) (*dto.SearchEventsResponse, error) {
	switch timeFilter {
	case repository.FilterAll, repository.FilterUpcoming, repository.FilterPast:
	case "":
		timeFilter = repository.FilterAll
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "time filter must be all, upcoming or past", nil)
	}

	local, err := s.repo.Search(ctx, userID, query, timeFilter)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to search events", err)
	}

	results := make([]dto.EventResponse, 0, len(local))
	seenRemote := make(map[string]bool)
	for i := range local {
		if local[i].GoogleEventID != nil && *local[i].GoogleEventID != "" {
			seenRemote[*local[i].GoogleEventID] = true
		}
		results = append(results, mapper.ToEventResponse(&local[i]))
	}

	results = append(results, s.remoteMatches(ctx, userID, query, timeFilter, seenRemote)...)

	sortEvents(results, timeFilter)
	return &dto.SearchEventsResponse{Events: results, Total: len(results)}, nil
}

// MapEvents returns geocoded events for the map view.
func (s *eventService) MapEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, error) {
	events, err := s.repo.ListWithCoordinates(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list geocoded events", err)
	}

	results := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		results = append(results, mapper.ToEventResponse(&events[i]))
	}
	return results, nil
}

func (s *eventService) remoteMatches(ctx context.Context, userID uuid.UUID, query, timeFilter string, seen map[string]bool) []dto.EventResponse {
	now := time.Now()
	timeMin := now.AddDate(0, 0, -constants.RemoteLookbackDays)
	timeMax := now.AddDate(0, 0, constants.RemoteLookaheadDays)

	remote, err := s.calendarSvc.ListRemoteEvents(ctx, userID, timeMin, timeMax)
	if err != nil {
		logger.Warn("EventService:Search:RemoteUnavailable", "error", err, "user_id", userID)
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matches []dto.EventResponse
	for _, rev := range remote {
		if seen[rev.RemoteID] {
			continue
		}
		switch timeFilter {
		case repository.FilterUpcoming:
			if rev.StartTime.Before(now) {
				continue
			}
		case repository.FilterPast:
			if !rev.StartTime.Before(now) {
				continue
			}
		}
		if needle != "" {
			haystack := strings.ToLower(rev.Title + " " + rev.Description + " " + rev.Location)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matches = append(matches, mapper.FromRemoteEvent(rev))
	}
	return matches
}

func (s *eventService) applyCoordinates(ctx context.Context, event *entity.Event) {
	if event.Location == "" {
		return
	}
	coords, err := s.geocodeSvc.Geocode(ctx, event.Location)
	if err != nil || coords == nil {
		return
	}
	event.Latitude = &coords.Latitude
	event.Longitude = &coords.Longitude
}

func (s *eventService) enqueueSync(ctx context.Context, payload tasks.SyncEventPayload) {
	task, err := tasks.NewSyncEventTask(payload)
	if err != nil {
		logger.Error("EventService:EnqueueSync:BuildTask:Error", "error", err, "event_id", payload.EventID)
		return
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		// Sync is best effort; the local write already succeeded.
		logger.Error("EventService:EnqueueSync:Error", "error", err, "event_id", payload.EventID, "action", payload.Action)
	}
}

func sortEvents(events []dto.EventResponse, timeFilter string) {
	sort.SliceStable(events, func(i, j int) bool {
		if timeFilter == repository.FilterPast {
			return events[i].StartTime.After(events[j].StartTime)
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
}

func makeSlug(title string) string {
	return slug.Make(title) + "-" + strings.ToLower(utils.GenerateID())
}

func joinEmails(emails []string) *string {
	cleaned := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}
