package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventra/core/cache"
	"eventra/core/config"
	"eventra/core/errors"
	"eventra/core/utils"
	"eventra/modules/auth/dto"
	"eventra/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	usersByEmail map[string]*entity.User
	creds        map[uuid.UUID]*entity.OAuthCredential
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByEmail: make(map[string]*entity.User),
		creds:        make(map[uuid.UUID]*entity.OAuthCredential),
	}
}

func (r *fakeAuthRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.usersByEmail[user.Email] = user
	return user, nil
}

func (r *fakeAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.usersByEmail[email], nil
}

func (r *fakeAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, user := range r.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeAuthRepo) SaveOrUpdateCredential(ctx context.Context, cred *entity.OAuthCredential) error {
	cred.IsActive = true
	r.creds[cred.UserID] = cred
	return nil
}

func (r *fakeAuthRepo) GetCredential(ctx context.Context, userID uuid.UUID, provider string) (*entity.OAuthCredential, error) {
	cred, ok := r.creds[userID]
	if !ok || !cred.IsActive {
		return nil, nil
	}
	return cred, nil
}

func (r *fakeAuthRepo) UpdateCredentialTokens(ctx context.Context, cred *entity.OAuthCredential) error {
	r.creds[cred.UserID] = cred
	return nil
}

func (r *fakeAuthRepo) DeactivateCredential(ctx context.Context, userID uuid.UUID, provider string) error {
	if cred, ok := r.creds[userID]; ok {
		cred.IsActive = false
	}
	return nil
}

func setupAuthTest() (AuthService, *fakeAuthRepo) {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryMinutes: 60},
	})
	repo := newFakeAuthRepo()
	return NewAuthService(repo, cache.NewMemoryCache()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthTest()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:       "  Ana@Example.com ",
		Password:    "correct-horse",
		DisplayName: "Ana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)

	// Issued token round-trips through the middleware path.
	data, err := utils.ValidateAndParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, data.UserID.String())

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "ana@example.com", Password: "another-pass"})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := setupAuthTest()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "ana@example.com", Password: "short"})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthTest()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
}

func TestGetValidGoogleTokenNotConnected(t *testing.T) {
	svc, _ := setupAuthTest()

	_, err := svc.GetValidGoogleToken(context.Background(), uuid.New())
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestGetValidGoogleTokenFreshToken(t *testing.T) {
	svc, repo := setupAuthTest()
	userID := uuid.New()

	repo.creds[userID] = &entity.OAuthCredential{
		UserID:         userID,
		Provider:       dto.ProviderGoogle,
		AccessToken:    "fresh-token",
		RefreshToken:   "refresh",
		TokenExpiresAt: time.Now().Add(time.Hour),
		IsActive:       true,
	}

	token, err := svc.GetValidGoogleToken(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestGoogleConnectURLNotConfigured(t *testing.T) {
	svc, _ := setupAuthTest()

	_, err := svc.GoogleConnectURL(context.Background(), uuid.New())
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotConfigured, appErr.Code)
}

func TestGoogleConnectURLStateRoundTrip(t *testing.T) {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryMinutes: 60},
		GoogleAPI: config.GoogleAPIConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:8080/api/v1/auth/google/callback",
		},
	})
	repo := newFakeAuthRepo()
	cacheStore := cache.NewMemoryCache()
	svc := NewAuthService(repo, cacheStore)

	userID := uuid.New()
	resp, err := svc.GoogleConnectURL(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, resp.URL, "client-id")
	assert.Contains(t, resp.URL, "access_type=offline")
	assert.NotEmpty(t, resp.State)

	stored, err := cacheStore.Get(context.Background(), oauthStateKeyPrefix+resp.State)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), stored)
}

func TestDisconnectGoogleDeactivates(t *testing.T) {
	_, repo := setupAuthTest()
	revoke := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer revoke.Close()

	svc := &authService{
		repo:        repo,
		cache:       cache.NewMemoryCache(),
		userInfoURL: revoke.URL,
		revokeURL:   revoke.URL,
	}
	userID := uuid.New()

	repo.creds[userID] = &entity.OAuthCredential{
		UserID:         userID,
		Provider:       dto.ProviderGoogle,
		AccessToken:    "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
		IsActive:       true,
	}

	require.NoError(t, svc.DisconnectGoogle(context.Background(), userID))
	assert.False(t, repo.creds[userID].IsActive)

	cred, err := svc.GetGoogleConnection(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, cred)
}
