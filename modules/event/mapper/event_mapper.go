package mapper

import (
	"time"

	calendarDto "eventra/modules/calendar/dto"
	"eventra/modules/event/dto"
	"eventra/modules/event/entity"
)

func ToEventResponse(event *entity.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:             event.ID.String(),
		Source:         dto.SourceLocal,
		Title:          event.Title,
		Description:    event.Description,
		Location:       event.Location,
		Latitude:       event.Latitude,
		Longitude:      event.Longitude,
		StartTime:      event.StartTime,
		EndTime:        event.EndTime,
		Slug:           event.Slug,
		SyncedToGoogle: event.SyncedToGoogle,
		GuestEmails:    event.GuestEmailList(),
		OriginalText:   event.OriginalText,
		CreatedAt:      event.CreatedAt.Format(time.RFC3339),
	}
	if event.GoogleEventID != nil {
		resp.GoogleEventID = *event.GoogleEventID
	}
	if event.ColorID != nil {
		resp.ColorID = *event.ColorID
	}
	return resp
}

// FromRemoteEvent maps a Google Calendar event that has no local row.
func FromRemoteEvent(remote calendarDto.RemoteEvent) dto.EventResponse {
	return dto.EventResponse{
		Source:        dto.SourceGoogle,
		Title:         remote.Title,
		Description:   remote.Description,
		Location:      remote.Location,
		StartTime:     remote.StartTime,
		EndTime:       remote.EndTime,
		GoogleEventID: remote.RemoteID,
	}
}
