package dto

// Provider constants
const (
	ProviderGoogle = "google"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// OAuthURLResponse carries the Google consent URL for the client to open.
type OAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type ConnectionResponse struct {
	Provider      string `json:"provider"`
	ProviderEmail string `json:"provider_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}
