package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"eventra/core/config"
	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
	"eventra/core/utils"
	"eventra/modules/auth/dto"
	"eventra/modules/auth/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarScope = "https://www.googleapis.com/auth/calendar"
	googleEmailScope    = "https://www.googleapis.com/auth/userinfo.email"
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleRevokeURL     = "https://oauth2.googleapis.com/revoke"

	oauthStateKeyPrefix = "oauth_state:"
)

func (s *authService) googleOAuthConfig() (*oauth2.Config, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "Google OAuth is not configured", nil)
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes:       []string{googleCalendarScope, googleEmailScope},
		Endpoint:     google.Endpoint,
	}, nil
}

// GoogleConnectURL builds the consent URL and parks the state token in cache
// until the callback arrives.
func (s *authService) GoogleConnectURL(ctx context.Context, userID uuid.UUID) (*dto.OAuthURLResponse, error) {
	oauthConfig, err := s.googleOAuthConfig()
	if err != nil {
		return nil, err
	}

	state := utils.GenerateRandomString(32)
	if err := s.cache.Set(ctx, oauthStateKeyPrefix+state, userID.String(), constants.OAuthStateLifetime); err != nil {
		logger.Error("AuthService:GoogleConnectURL:SaveState:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save OAuth state", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return &dto.OAuthURLResponse{URL: authURL, State: state}, nil
}

// HandleGoogleCallback verifies the state, exchanges the code and stores the
// credential for the user that initiated the flow.
func (s *authService) HandleGoogleCallback(ctx context.Context, state, code string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	userIDStr, err := s.cache.Get(ctx, oauthStateKeyPrefix+state)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:InvalidState", "error", err)
		return errors.NewAppError(errors.ErrUnauthorized, "invalid or expired OAuth state", err)
	}
	_ = s.cache.Delete(ctx, oauthStateKeyPrefix+state)

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "corrupt OAuth state", err)
	}

	oauthConfig, err := s.googleOAuthConfig()
	if err != nil {
		return err
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	email, err := s.fetchGoogleEmail(ctx, token.AccessToken)
	if err != nil {
		// Email is informational only; keep going with an empty one.
		logger.Warn("AuthService:HandleGoogleCallback:FetchEmail:Error", "error", err, "user_id", userID)
	}

	cred := &entity.OAuthCredential{
		UserID:         userID,
		Provider:       dto.ProviderGoogle,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		ProviderEmail:  email,
		IsActive:       true,
	}
	if err := s.repo.SaveOrUpdateCredential(ctx, cred); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to store credential", err)
	}

	logger.Info("AuthService:HandleGoogleCallback:Connected", "user_id", userID, "email", email)
	return nil
}

// GetValidGoogleToken returns a usable access token for the user, refreshing
// it first when it is about to expire.
func (s *authService) GetValidGoogleToken(ctx context.Context, userID uuid.UUID) (string, error) {
	cred, err := s.repo.GetCredential(ctx, userID, dto.ProviderGoogle)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to load credential", err)
	}
	if cred == nil {
		return "", errors.NewAppError(errors.ErrUnauthorized, "Google Calendar is not connected", nil)
	}

	if !tokenExpiring(cred.TokenExpiresAt) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", errors.NewAppError(errors.ErrTokenExpired, "Google token expired and no refresh token available", nil)
	}

	oauthConfig, err := s.googleOAuthConfig()
	if err != nil {
		return "", err
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	newToken, err := tokenSource.Token()
	if err != nil {
		logger.Error("AuthService:GetValidGoogleToken:Refresh:Error", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrTokenExpired, "failed to refresh Google token", err)
	}

	cred.AccessToken = newToken.AccessToken
	if newToken.RefreshToken != "" {
		cred.RefreshToken = newToken.RefreshToken
	}
	cred.TokenExpiresAt = newToken.Expiry

	if err := s.repo.UpdateCredentialTokens(ctx, cred); err != nil {
		logger.Error("AuthService:GetValidGoogleToken:Persist:Error", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to persist refreshed token", err)
	}

	return newToken.AccessToken, nil
}

// DisconnectGoogle revokes the token upstream and deactivates the stored
// credential. Revocation failures are logged but do not keep the credential
// active locally.
func (s *authService) DisconnectGoogle(ctx context.Context, userID uuid.UUID) error {
	cred, err := s.repo.GetCredential(ctx, userID, dto.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load credential", err)
	}
	if cred == nil {
		return errors.NewAppError(errors.ErrNotFound, "Google Calendar is not connected", nil)
	}

	if err := s.revokeGoogleToken(ctx, cred.AccessToken); err != nil {
		logger.Warn("AuthService:DisconnectGoogle:Revoke:Error", "error", err, "user_id", userID)
	}

	if err := s.repo.DeactivateCredential(ctx, userID, dto.ProviderGoogle); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect", err)
	}

	logger.Info("AuthService:DisconnectGoogle:Disconnected", "user_id", userID)
	return nil
}

func (s *authService) fetchGoogleEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: constants.HTTPClientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("userinfo API error: %d %s", resp.StatusCode, string(body))
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	return info.Email, nil
}

func (s *authService) revokeGoogleToken(ctx context.Context, accessToken string) error {
	data := url.Values{}
	data.Set("token", accessToken)

	req, err := http.NewRequestWithContext(ctx, "POST", s.revokeURL+"?"+data.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: constants.HTTPClientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revoke API error: %d %s", resp.StatusCode, string(body))
	}
	return nil
}
