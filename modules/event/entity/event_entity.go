package entity

import (
	"strings"
	"time"

	"eventra/core/entity"

	"github.com/google/uuid"
)

// Event is a calendar event owned by a user. Latitude and longitude are only
// set when the location could be geocoded, and GoogleEventID only after the
// event was mirrored to Google Calendar.
type Event struct {
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Location       string     `db:"location" json:"location"`
	Latitude       *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64   `db:"longitude" json:"longitude,omitempty"`
	StartTime      time.Time  `db:"start_time" json:"start_time"`
	EndTime        time.Time  `db:"end_time" json:"end_time"`
	OriginalText   string     `db:"original_text" json:"original_text"`
	Slug           string     `db:"slug" json:"slug"`
	GoogleEventID  *string    `db:"google_event_id" json:"google_event_id,omitempty"`
	SyncedToGoogle bool       `db:"synced_to_google" json:"synced_to_google"`
	ColorID        *string    `db:"color_id" json:"color_id,omitempty"`
	GuestEmails    *string    `db:"guest_emails" json:"guest_emails,omitempty"`

	entity.BaseEntity
}

// GuestEmailList splits the stored comma separated guest emails.
func (e *Event) GuestEmailList() []string {
	if e.GuestEmails == nil || strings.TrimSpace(*e.GuestEmails) == "" {
		return nil
	}
	parts := strings.Split(*e.GuestEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}
