package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
	authDto "eventra/modules/auth/dto"
	authService "eventra/modules/auth/service"
	"eventra/modules/calendar/dto"

	"github.com/google/uuid"
)

const defaultGoogleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

type CalendarService interface {
	// Connection management
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error

	// Remote event mirror
	CreateRemoteEvent(ctx context.Context, userID uuid.UUID, input *dto.RemoteEventInput) (string, error)
	UpdateRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string, input *dto.RemoteEventInput) error
	DeleteRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string) error
	ListRemoteEvents(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]dto.RemoteEvent, error)
}

type calendarService struct {
	authSvc authService.AuthService

	// overridable in tests
	apiBase    string
	httpClient *http.Client
}

func NewCalendarService(authSvc authService.AuthService) CalendarService {
	return &calendarService{
		authSvc:    authSvc,
		apiBase:    defaultGoogleCalendarAPIBase,
		httpClient: &http.Client{Timeout: constants.DefaultTimeout},
	}
}

// GetConnections returns the user's calendar connections.
func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error) {
	cred, err := s.authSvc.GetGoogleConnection(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := []dto.CalendarConnectionResponse{}
	if cred != nil {
		result = append(result, dto.CalendarConnectionResponse{
			Provider:      cred.Provider,
			ProviderEmail: cred.ProviderEmail,
			IsActive:      cred.IsActive,
			ConnectedAt:   cred.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *calendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error {
	if provider != authDto.ProviderGoogle {
		return errors.NewAppError(errors.ErrNotFound, "unknown calendar provider", nil)
	}
	return s.authSvc.DisconnectGoogle(ctx, userID)
}

// CreateRemoteEvent pushes an event to the user's primary Google calendar and
// returns the remote event id.
func (s *calendarService) CreateRemoteEvent(ctx context.Context, userID uuid.UUID, input *dto.RemoteEventInput) (string, error) {
	accessToken, err := s.authSvc.GetValidGoogleToken(ctx, userID)
	if err != nil {
		return "", err
	}

	body, _ := json.Marshal(buildEventPayload(input))
	endpoint := s.apiBase + "/calendars/primary/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.NewAppError(errors.ErrSyncFailed, "failed to create remote event", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", errors.NewAppError(errors.ErrSyncFailed, fmt.Sprintf("Google Calendar API error: %s", string(raw)), nil)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.NewAppError(errors.ErrSyncFailed, "failed to parse remote event response", err)
	}
	if result.ID == "" {
		return "", errors.NewAppError(errors.ErrSyncFailed, "remote event response missing id", nil)
	}
	return result.ID, nil
}

// UpdateRemoteEvent overwrites the remote copy of an event.
func (s *calendarService) UpdateRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string, input *dto.RemoteEventInput) error {
	accessToken, err := s.authSvc.GetValidGoogleToken(ctx, userID)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(buildEventPayload(input))
	endpoint := fmt.Sprintf("%s/calendars/primary/events/%s", s.apiBase, url.PathEscape(remoteID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrSyncFailed, "failed to update remote event", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return errors.NewAppError(errors.ErrSyncFailed, fmt.Sprintf("Google Calendar API error: %s", string(raw)), nil)
	}
	return nil
}

// DeleteRemoteEvent removes the remote copy. An event already gone on the
// remote side counts as success.
func (s *calendarService) DeleteRemoteEvent(ctx context.Context, userID uuid.UUID, remoteID string) error {
	accessToken, err := s.authSvc.GetValidGoogleToken(ctx, userID)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/calendars/primary/events/%s", s.apiBase, url.PathEscape(remoteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrSyncFailed, "failed to delete remote event", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound, http.StatusGone:
		logger.Warn("CalendarService:DeleteRemoteEvent:AlreadyGone", "remote_id", remoteID, "user_id", userID)
		return nil
	default:
		raw, _ := io.ReadAll(resp.Body)
		return errors.NewAppError(errors.ErrSyncFailed, fmt.Sprintf("Google Calendar API error: %s", string(raw)), nil)
	}
}

// ListRemoteEvents fetches single events from the primary calendar within the
// given window, ordered by start time.
func (s *calendarService) ListRemoteEvents(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]dto.RemoteEvent, error) {
	accessToken, err := s.authSvc.GetValidGoogleToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
	query.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	query.Set("maxResults", "250")

	endpoint := s.apiBase + "/calendars/primary/events?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrSyncFailed, "failed to list remote events", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, errors.NewAppError(errors.ErrSyncFailed, fmt.Sprintf("Google Calendar API error: %s", string(raw)), nil)
	}

	var result struct {
		Items []struct {
			ID          string `json:"id"`
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Location    string `json:"location"`
			Start       struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"start"`
			End struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"end"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewAppError(errors.ErrSyncFailed, "failed to parse remote events", err)
	}

	events := make([]dto.RemoteEvent, 0, len(result.Items))
	for _, item := range result.Items {
		start, ok1 := parseGoogleTime(item.Start.DateTime, item.Start.Date)
		end, ok2 := parseGoogleTime(item.End.DateTime, item.End.Date)
		if !ok1 || !ok2 {
			logger.Warn("CalendarService:ListRemoteEvents:SkipUnparseable", "remote_id", item.ID)
			continue
		}
		events = append(events, dto.RemoteEvent{
			RemoteID:    item.ID,
			Title:       item.Summary,
			Description: item.Description,
			Location:    item.Location,
			StartTime:   start,
			EndTime:     end,
		})
	}
	return events, nil
}

func buildEventPayload(input *dto.RemoteEventInput) map[string]any {
	payload := map[string]any{
		"summary":     input.Title,
		"description": input.Description,
		"location":    input.Location,
		"start": map[string]string{
			"dateTime": input.StartTime.Format(time.RFC3339),
		},
		"end": map[string]string{
			"dateTime": input.EndTime.Format(time.RFC3339),
		},
	}

	if input.ColorID != "" {
		payload["colorId"] = input.ColorID
	}

	if len(input.GuestEmails) > 0 {
		attendees := make([]map[string]string, 0, len(input.GuestEmails))
		for _, email := range input.GuestEmails {
			email = strings.TrimSpace(email)
			if email == "" {
				continue
			}
			attendees = append(attendees, map[string]string{"email": email})
		}
		if len(attendees) > 0 {
			payload["attendees"] = attendees
		}
	}
	return payload
}

// parseGoogleTime handles both timed events (dateTime) and all-day events
// (date only).
func parseGoogleTime(dateTime, date string) (time.Time, bool) {
	if dateTime != "" {
		t, err := time.Parse(time.RFC3339, dateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
