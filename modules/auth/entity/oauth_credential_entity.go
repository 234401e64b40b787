package entity

import (
	"time"

	"github.com/google/uuid"

	"eventra/core/entity"
)

// OAuthCredential stores a user's token pair for an external provider.
// Refreshed on expiry, deactivated on disconnect.
type OAuthCredential struct {
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Provider       string    `db:"provider" json:"provider"` // "google"
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	ProviderEmail  string    `db:"provider_email" json:"provider_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	entity.BaseEntity
}
