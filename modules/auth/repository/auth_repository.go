package repository

import (
	"context"
	"database/sql"

	"eventra/core/database"
	"eventra/core/logger"
	"eventra/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// OAuth credentials
	SaveOrUpdateCredential(ctx context.Context, cred *entity.OAuthCredential) error
	GetCredential(ctx context.Context, userID uuid.UUID, provider string) (*entity.OAuthCredential, error)
	UpdateCredentialTokens(ctx context.Context, cred *entity.OAuthCredential) error
	DeactivateCredential(ctx context.Context, userID uuid.UUID, provider string) error
}

type authRepository struct {
	db database.IDatabase
}

func NewAuthRepository(db database.IDatabase) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.DisplayName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Error("AuthRepository:CreateUser:Error", "error", err, "email", user.Email)
		return nil, err
	}
	return user, nil
}

func (r *authRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail:Error", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *authRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID:Error", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// SaveOrUpdateCredential upserts the token pair for (user, provider).
func (r *authRepository) SaveOrUpdateCredential(ctx context.Context, cred *entity.OAuthCredential) error {
	query := `
		INSERT INTO oauth_credentials (user_id, provider, access_token, refresh_token, token_expires_at, provider_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (user_id, provider)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token <> '' THEN EXCLUDED.refresh_token ELSE oauth_credentials.refresh_token END,
			token_expires_at = EXCLUDED.token_expires_at,
			provider_email = EXCLUDED.provider_email,
			is_active = TRUE,
			updated_at = NOW()
	`
	err := r.db.ExecContext(ctx, query,
		cred.UserID, cred.Provider, cred.AccessToken, cred.RefreshToken,
		cred.TokenExpiresAt, cred.ProviderEmail,
	)
	if err != nil {
		logger.Error("AuthRepository:SaveOrUpdateCredential:Error", "error", err, "user_id", cred.UserID)
		return err
	}
	return nil
}

func (r *authRepository) GetCredential(ctx context.Context, userID uuid.UUID, provider string) (*entity.OAuthCredential, error) {
	var cred entity.OAuthCredential
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, provider_email, is_active, created_at, updated_at
		FROM oauth_credentials
		WHERE user_id = $1 AND provider = $2 AND is_active = TRUE
	`
	err := r.db.GetContext(ctx, &cred, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetCredential:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return &cred, nil
}

func (r *authRepository) UpdateCredentialTokens(ctx context.Context, cred *entity.OAuthCredential) error {
	query := `
		UPDATE oauth_credentials
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	err := r.db.ExecContext(ctx, query, cred.AccessToken, cred.RefreshToken, cred.TokenExpiresAt, cred.ID)
	if err != nil {
		logger.Error("AuthRepository:UpdateCredentialTokens:Error", "error", err, "user_id", cred.UserID)
		return err
	}
	return nil
}

// DeactivateCredential soft deletes a credential on disconnect.
func (r *authRepository) DeactivateCredential(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `
		UPDATE oauth_credentials
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2
	`
	err := r.db.ExecContext(ctx, query, userID, provider)
	if err != nil {
		logger.Error("AuthRepository:DeactivateCredential:Error", "error", err, "user_id", userID)
		return err
	}
	return nil
}
