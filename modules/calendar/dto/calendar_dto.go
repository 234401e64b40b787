package dto

import "time"

// RemoteEventInput is the provider-agnostic shape pushed to Google Calendar.
type RemoteEventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	ColorID     string
	GuestEmails []string
}

// RemoteEvent is an event as it exists on the remote calendar.
type RemoteEvent struct {
	RemoteID    string    `json:"remote_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type CalendarConnectionResponse struct {
	Provider      string `json:"provider"`
	ProviderEmail string `json:"provider_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}
