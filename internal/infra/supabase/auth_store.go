package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// AuthStore implementation — auth CRUD via PostgREST
// ============================================================

// --- User lookup ---

func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.UserAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s&limit=1", userID)
	rows, err := fetchRows[domain.UserAccount](ctx, c, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	path := fmt.Sprintf("users?email=eq.%s&limit=1", email)
	rows, err := fetchRows[domain.UserAccount](ctx, c, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil // not found is not an error for auth lookup
	}
	return &rows[0], nil
}

func (c *Client) GetUserByCNPJ(ctx context.Context, cnpj string) (*domain.UserAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByCNPJ")
	defer span.End()

	path := fmt.Sprintf("users?cnpj=eq.%s&limit=1", cnpj)
	rows, err := fetchRows[domain.UserAccount](ctx, c, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// --- Registration ---

func (c *Client) CreateUser(ctx context.Context, user *domain.UserAccount) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	if _, err := c.doPost(ctx, "users", user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// --- Credential updates ---

func (c *Client) UpdateUser(ctx context.Context, userID string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateUser")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s", userID)
	return c.doPatch(ctx, path, updates)
}

// --- Refresh tokens ---

func (c *Client) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreRefreshToken")
	defer span.End()

	row := domain.AuthRefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt.UTC(),
		Revoked:   false,
	}

	_, err := c.doPost(ctx, "refresh_tokens", row)
	return err
}

func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s&revoked=eq.false&limit=1", tokenHash)
	rows, err := fetchRows[domain.AuthRefreshToken](ctx, c, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s", tokenHash)
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}

func (c *Client) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeAllRefreshTokens")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?user_id=eq.%s&revoked=eq.false", userID)
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}

// --- Password reset codes ---

func (c *Client) StoreResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreResetCode")
	defer span.End()

	row := domain.AuthPasswordResetCode{
		ID:        uuid.New().String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt.UTC(),
		Used:      false,
	}

	_, err := c.doPost(ctx, "password_reset_codes", row)
	return err
}

func (c *Client) GetValidResetCode(ctx context.Context, userID, code string) (*domain.AuthPasswordResetCode, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetValidResetCode")
	defer span.End()

	now := time.Now().UTC().Format(time.RFC3339)
	path := fmt.Sprintf("password_reset_codes?user_id=eq.%s&code=eq.%s&used=eq.false&expires_at=gt.%s&order=expires_at.desc&limit=1",
		userID, code, now)
	rows, err := fetchRows[domain.AuthPasswordResetCode](ctx, c, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) MarkResetCodeUsed(ctx context.Context, codeID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkResetCodeUsed")
	defer span.End()

	path := fmt.Sprintf("password_reset_codes?id=eq.%s", codeID)
	return c.doPatch(ctx, path, map[string]any{"used": true})
}

// --- Profile ---

// UpdateProfile patches mutable profile fields and re-reads the row.
func (c *Client) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.UserAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateProfile")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s", userID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return user, nil
}
