package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"eventra/core/database"
	"eventra/core/logger"
	"eventra/modules/event/entity"

	"github.com/google/uuid"
)

// Time filters for Search.
const (
	FilterAll      = "all"
	FilterUpcoming = "upcoming"
	FilterPast     = "past"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query, timeFilter string) ([]entity.Event, error)
	ListWithCoordinates(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	SetRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error
}

type eventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, user_id, title, description, location, latitude, longitude,
	start_time, end_time, original_text, slug, google_event_id, synced_to_google,
	color_id, guest_emails, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (user_id, title, description, location, latitude, longitude,
			start_time, end_time, original_text, slug, color_id, guest_emails)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.UserID, event.Title, event.Description, event.Location,
		event.Latitude, event.Longitude, event.StartTime, event.EndTime,
		event.OriginalText, event.Slug, event.ColorID, event.GuestEmails,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		logger.Error("EventRepository:Create:Error", "error", err, "user_id", event.UserID)
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND user_id = $2`, eventColumns)
	err := r.db.GetContext(ctx, &event, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "error", err, "event_id", id)
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, latitude = $4, longitude = $5,
			start_time = $6, end_time = $7, slug = $8, color_id = $9, guest_emails = $10,
			updated_at = NOW()
		WHERE id = $11 AND user_id = $12
	`
	err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.Location, event.Latitude, event.Longitude,
		event.StartTime, event.EndTime, event.Slug, event.ColorID, event.GuestEmails,
		event.ID, event.UserID,
	)
	if err != nil {
		logger.Error("EventRepository:Update:Error", "error", err, "event_id", event.ID)
		return err
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`
	err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		logger.Error("EventRepository:Delete:Error", "error", err, "event_id", id)
		return err
	}
	return nil
}

// Search filters the user's events by free text and time window. Upcoming
// events come back soonest first, past events most recent first.
func (r *eventRepository) Search(ctx context.Context, userID uuid.UUID, query, timeFilter string) ([]entity.Event, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if q := strings.TrimSpace(query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}

	order := "start_time ASC"
	switch timeFilter {
	case FilterUpcoming:
		conditions = append(conditions, "start_time >= NOW()")
	case FilterPast:
		conditions = append(conditions, "start_time < NOW()")
		order = "start_time DESC"
	}

	sqlQuery := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s`,
		eventColumns, strings.Join(conditions, " AND "), order)

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, sqlQuery, args...); err != nil {
		logger.Error("EventRepository:Search:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return events, nil
}

// ListWithCoordinates returns the user's geocoded events for the map view.
func (r *eventRepository) ListWithCoordinates(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE user_id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY start_time ASC
	`, eventColumns)

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:ListWithCoordinates:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return events, nil
}

// SetRemoteID records the Google event id once the mirror succeeded. It never
// overwrites an existing id.
func (r *eventRepository) SetRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	query := `
		UPDATE events
		SET google_event_id = $1, synced_to_google = TRUE, updated_at = NOW()
		WHERE id = $2 AND google_event_id IS NULL
	`
	err := r.db.ExecContext(ctx, query, remoteID, id)
	if err != nil {
		logger.Error("EventRepository:SetRemoteID:Error", "error", err, "event_id", id)
		return err
	}
	return nil
}
