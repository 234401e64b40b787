package dto

import "time"

// Event sources in list responses.
const (
	SourceLocal  = "local"
	SourceGoogle = "google"
)

type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time"`
	ColorID      string    `json:"color_id"`
	GuestEmails  []string  `json:"guest_emails"`
	OriginalText string    `json:"original_text"`
}

type UpdateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time"`
	ColorID     string    `json:"color_id"`
	GuestEmails []string  `json:"guest_emails"`
}

type EventResponse struct {
	ID             string    `json:"id,omitempty"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Slug           string    `json:"slug,omitempty"`
	GoogleEventID  string    `json:"google_event_id,omitempty"`
	SyncedToGoogle bool      `json:"synced_to_google"`
	ColorID        string    `json:"color_id,omitempty"`
	GuestEmails    []string  `json:"guest_emails,omitempty"`
	OriginalText   string    `json:"original_text,omitempty"`
	CreatedAt      string    `json:"created_at,omitempty"`
}

// SearchEventsResponse carries the merged local and remote event list.
type SearchEventsResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}
