package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authDto "eventra/modules/auth/dto"
	authEntity "eventra/modules/auth/entity"
	"eventra/modules/calendar/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	token string
	cred  *authEntity.OAuthCredential
	err   error
}

func (a *fakeAuthService) Register(ctx context.Context, req *authDto.RegisterRequest) (*authDto.AuthResponse, error) {
	return nil, nil
}

func (a *fakeAuthService) Login(ctx context.Context, req *authDto.LoginRequest) (*authDto.AuthResponse, error) {
	return nil, nil
}

func (a *fakeAuthService) GoogleConnectURL(ctx context.Context, userID uuid.UUID) (*authDto.OAuthURLResponse, error) {
	return nil, nil
}

func (a *fakeAuthService) HandleGoogleCallback(ctx context.Context, state, code string) error {
	return nil
}

func (a *fakeAuthService) GetValidGoogleToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return a.token, a.err
}

func (a *fakeAuthService) GetGoogleConnection(ctx context.Context, userID uuid.UUID) (*authEntity.OAuthCredential, error) {
	return a.cred, a.err
}

func (a *fakeAuthService) DisconnectGoogle(ctx context.Context, userID uuid.UUID) error {
	return a.err
}

func newTestCalendar(t *testing.T, handler http.Handler) *calendarService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &calendarService{
		authSvc:    &fakeAuthService{token: "access-token"},
		apiBase:    server.URL,
		httpClient: server.Client(),
	}
}

func TestCreateRemoteEvent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	svc := newTestCalendar(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id":"remote-123"}`)
	}))

	start := time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC)
	remoteID, err := svc.CreateRemoteEvent(context.Background(), uuid.New(), &dto.RemoteEventInput{
		Title:       "Lunch with Dr. Rivera",
		Location:    "Harvard Square",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		ColorID:     "5",
		GuestEmails: []string{"ana@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-123", remoteID)
	assert.Equal(t, "Bearer access-token", gotAuth)
	assert.Equal(t, "Lunch with Dr. Rivera", gotBody["summary"])
	assert.Equal(t, "Harvard Square", gotBody["location"])
	assert.Equal(t, "5", gotBody["colorId"])

	attendees, ok := gotBody["attendees"].([]any)
	require.True(t, ok)
	require.Len(t, attendees, 1)
}

func TestCreateRemoteEventAPIError(t *testing.T) {
	svc := newTestCalendar(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"insufficient scope"}}`)
	}))

	_, err := svc.CreateRemoteEvent(context.Background(), uuid.New(), &dto.RemoteEventInput{
		Title:     "Standup",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	})
	require.Error(t, err)
}

func TestDeleteRemoteEventToleratesGone(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusGone} {
		svc := newTestCalendar(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(status)
		}))

		err := svc.DeleteRemoteEvent(context.Background(), uuid.New(), "remote-123")
		assert.NoError(t, err, "status %d should not fail", status)
	}
}

func TestListRemoteEvents(t *testing.T) {
	svc := newTestCalendar(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		fmt.Fprint(w, `{"items":[
			{"id":"r1","summary":"Timed event","start":{"dateTime":"2026-10-17T13:00:00Z"},"end":{"dateTime":"2026-10-17T14:00:00Z"}},
			{"id":"r2","summary":"All day","start":{"date":"2026-10-18"},"end":{"date":"2026-10-19"}},
			{"id":"r3","summary":"Broken","start":{},"end":{}}
		]}`)
	}))

	events, err := svc.ListRemoteEvents(context.Background(), uuid.New(), time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2, "unparseable items are skipped")

	assert.Equal(t, "r1", events[0].RemoteID)
	assert.Equal(t, 13, events[0].StartTime.Hour())
	assert.Equal(t, "r2", events[1].RemoteID)
	assert.Equal(t, 18, events[1].StartTime.Day())
}

func TestUpdateRemoteEvent(t *testing.T) {
	var gotPath string
	svc := newTestCalendar(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id":"remote-123"}`)
	}))

	err := svc.UpdateRemoteEvent(context.Background(), uuid.New(), "remote-123", &dto.RemoteEventInput{
		Title:     "Updated",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "/calendars/primary/events/remote-123", gotPath)
}

func TestGetConnections(t *testing.T) {
	now := time.Now()
	cred := &authEntity.OAuthCredential{
		Provider:      authDto.ProviderGoogle,
		ProviderEmail: "me@example.com",
		IsActive:      true,
	}
	cred.CreatedAt = now

	svc := &calendarService{authSvc: &fakeAuthService{cred: cred}}

	connections, err := svc.GetConnections(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, "me@example.com", connections[0].ProviderEmail)

	svc = &calendarService{authSvc: &fakeAuthService{}}
	connections, err = svc.GetConnections(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, connections)
}

func TestDisconnectUnknownProvider(t *testing.T) {
	svc := &calendarService{authSvc: &fakeAuthService{}}
	err := svc.DisconnectCalendar(context.Background(), uuid.New(), "outlook")
	require.Error(t, err)
}
