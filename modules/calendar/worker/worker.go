package worker

import (
	"context"
	"encoding/json"

	"eventra/core/logger"
	"eventra/modules/calendar/dto"
	"eventra/modules/calendar/service"
	"eventra/modules/calendar/tasks"
	eventEntity "eventra/modules/event/entity"
	eventRepository "eventra/modules/event/repository"

	"github.com/hibiken/asynq"
)

// SyncHandler consumes calendar sync tasks and mirrors local event changes
// onto Google Calendar.
type SyncHandler struct {
	eventRepo   eventRepository.EventRepository
	calendarSvc service.CalendarService
}

func NewSyncHandler(eventRepo eventRepository.EventRepository, calendarSvc service.CalendarService) *SyncHandler {
	return &SyncHandler{
		eventRepo:   eventRepo,
		calendarSvc: calendarSvc,
	}
}

func (h *SyncHandler) HandleEventSync(ctx context.Context, t *asynq.Task) error {
	var payload tasks.SyncEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("SyncHandler:HandleEventSync:BadPayload", "error", err)
		// malformed payloads never succeed on retry
		return nil
	}

	switch payload.Action {
	case tasks.ActionDelete:
		return h.handleDelete(ctx, payload)
	case tasks.ActionCreate, tasks.ActionUpdate:
		return h.handleUpsert(ctx, payload)
	default:
		logger.Warn("SyncHandler:HandleEventSync:UnknownAction", "action", payload.Action)
		return nil
	}
}

func (h *SyncHandler) handleDelete(ctx context.Context, payload tasks.SyncEventPayload) error {
	if payload.RemoteID == "" {
		// never mirrored, nothing to remove
		return nil
	}
	if err := h.calendarSvc.DeleteRemoteEvent(ctx, payload.UserID, payload.RemoteID); err != nil {
		logger.Error("SyncHandler:HandleDelete:Error", "error", err, "remote_id", payload.RemoteID)
		return err
	}
	logger.Info("SyncHandler:HandleDelete:Done", "remote_id", payload.RemoteID, "user_id", payload.UserID)
	return nil
}

func (h *SyncHandler) handleUpsert(ctx context.Context, payload tasks.SyncEventPayload) error {
	event, err := h.eventRepo.GetByID(ctx, payload.EventID, payload.UserID)
	if err != nil {
		return err
	}
	if event == nil {
		// deleted before the task ran
		logger.Info("SyncHandler:HandleUpsert:EventGone", "event_id", payload.EventID)
		return nil
	}

	input := remoteInput(event)

	if event.GoogleEventID != nil && *event.GoogleEventID != "" {
		if err := h.calendarSvc.UpdateRemoteEvent(ctx, payload.UserID, *event.GoogleEventID, input); err != nil {
			logger.Error("SyncHandler:HandleUpsert:Update:Error", "error", err, "event_id", event.ID)
			return err
		}
		return nil
	}

	remoteID, err := h.calendarSvc.CreateRemoteEvent(ctx, payload.UserID, input)
	if err != nil {
		logger.Error("SyncHandler:HandleUpsert:Create:Error", "error", err, "event_id", event.ID)
		return err
	}
	if err := h.eventRepo.SetRemoteID(ctx, event.ID, remoteID); err != nil {
		// The remote event already exists; a retry would create a duplicate.
		logger.Error("SyncHandler:HandleUpsert:SetRemoteID:Error", "error", err, "event_id", event.ID, "remote_id", remoteID)
		return nil
	}
	logger.Info("SyncHandler:HandleUpsert:Created", "event_id", event.ID, "remote_id", remoteID)
	return nil
}

func remoteInput(event *eventEntity.Event) *dto.RemoteEventInput {
	input := &dto.RemoteEventInput{
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		GuestEmails: event.GuestEmailList(),
	}
	if event.ColorID != nil {
		input.ColorID = *event.ColorID
	}
	return input
}
