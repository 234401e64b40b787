package service

import (
	"context"
	"strings"
	"time"

	"eventra/core/cache"
	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
	"eventra/core/utils"
	"eventra/modules/auth/dto"
	"eventra/modules/auth/entity"
	"eventra/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)

	// Google Calendar connection
	GoogleConnectURL(ctx context.Context, userID uuid.UUID) (*dto.OAuthURLResponse, error)
	HandleGoogleCallback(ctx context.Context, state, code string) error
	GetValidGoogleToken(ctx context.Context, userID uuid.UUID) (string, error)
	GetGoogleConnection(ctx context.Context, userID uuid.UUID) (*entity.OAuthCredential, error)
	DisconnectGoogle(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	repo  repository.AuthRepository
	cache cache.Cache

	// overridable in tests
	userInfoURL string
	revokeURL   string
}

func NewAuthService(repo repository.AuthRepository, cache cache.Cache) AuthService {
	return &authService{
		repo:        repo,
		cache:       cache,
		userInfoURL: googleUserInfoURL,
		revokeURL:   googleRevokeURL,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and a password of at least 8 characters are required", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.Error("AuthService:buildAuthResponse:GenerateToken:Error", "error", err, "user_id", user.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:          user.ID.String(),
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

// GetGoogleConnection returns the active Google credential, or nil when the
// user never connected (or disconnected).
func (s *authService) GetGoogleConnection(ctx context.Context, userID uuid.UUID) (*entity.OAuthCredential, error) {
	return s.repo.GetCredential(ctx, userID, dto.ProviderGoogle)
}

// tokenExpiring reports whether the access token needs a refresh.
func tokenExpiring(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && time.Now().After(expiresAt.Add(-constants.TokenRefreshLeeway))
}
