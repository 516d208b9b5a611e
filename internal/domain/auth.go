package domain

import "time"

// ============================================================
// Auth — Request / Response types (matches frontend API contract)
// ============================================================

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	CNPJ         string   `json:"cnpj"`
	RazaoSocial  string   `json:"razaoSocial"`
	NomeFantasia string   `json:"nomeFantasia"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Activity     Activity `json:"activity,omitempty"`
}

// RegisterResponse is the body for 201 from POST /v1/auth/register.
type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /v1/auth/login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	CompanyName  string `json:"companyName"`
}

// RefreshRequest is the body for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// PasswordResetRequestBody is the body for POST /v1/auth/password/reset-request.
type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetRequestResponse is the response for reset-request.
type PasswordResetRequestResponse struct {
	Message     string `json:"message"`
	MaskedEmail string `json:"maskedEmail"`
	ExpiresIn   int    `json:"expiresIn"`
}

// PasswordResetConfirmRequest is the body for POST /v1/auth/password/reset-confirm.
type PasswordResetConfirmRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

// ChangePasswordRequest is the body for PUT /v1/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileResponse is returned by GET /v1/auth/profile.
type ProfileResponse struct {
	ID           string   `json:"id"`
	CNPJ         string   `json:"cnpj"`
	RazaoSocial  string   `json:"razaoSocial"`
	NomeFantasia string   `json:"nomeFantasia"`
	Email        string   `json:"email"`
	Activity     Activity `json:"activity"`
	CreatedAt    string   `json:"createdAt"`
}

// UpdateProfileRequest is the body for PUT /v1/auth/profile.
type UpdateProfileRequest struct {
	NomeFantasia string   `json:"nomeFantasia,omitempty"`
	Email        string   `json:"email,omitempty"`
	Activity     Activity `json:"activity,omitempty"`
}

// ============================================================
// Auth — database rows
// ============================================================

// UserAccount is a registered company user as stored in the database.
type UserAccount struct {
	ID                string     `json:"id"`
	CNPJ              string     `json:"cnpj"`
	Email             string     `json:"email"`
	RazaoSocial       string     `json:"razao_social"`
	NomeFantasia      string     `json:"nome_fantasia,omitempty"`
	Activity          Activity   `json:"activity,omitempty"`
	PasswordHash      string     `json:"password_hash"`
	FailedAttempts    int        `json:"failed_attempts"`
	LockedUntil       *time.Time `json:"locked_until,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// AuthRefreshToken represents a refresh token stored in the database.
type AuthRefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// AuthPasswordResetCode represents a password reset verification code.
type AuthPasswordResetCode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}
