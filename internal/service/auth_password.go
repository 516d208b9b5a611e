package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// PasswordResetRequest — POST /v1/auth/password/reset-request
// ============================================================

func (s *AuthService) PasswordResetRequest(ctx context.Context, req *domain.PasswordResetRequestBody) (*domain.PasswordResetRequestResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetRequest")
	defer span.End()

	req.Email = normalizeEmail(req.Email)

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		// Return success anyway (don't leak whether account exists)
		return &domain.PasswordResetRequestResponse{
			Message:     "Se os dados estiverem corretos, enviaremos o código de verificação",
			MaskedEmail: "***@***.com",
			ExpiresIn:   int(resetCodeTTL.Seconds()),
		}, nil
	}

	// Generate 6-digit code
	code := generateVerificationCode()
	expiresAt := time.Now().Add(resetCodeTTL)

	if err := s.store.StoreResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("store reset code: %w", err)
	}

	// In production, send email here
	s.logger.Info("password reset code generated",
		zap.String("user_id", user.ID),
		zap.String("code", code), // ONLY in dev — remove in production
	)

	return &domain.PasswordResetRequestResponse{
		Message:     "Código de verificação enviado",
		MaskedEmail: maskEmail(user.Email),
		ExpiresIn:   int(resetCodeTTL.Seconds()),
	}, nil
}

// ============================================================
// PasswordResetConfirm — POST /v1/auth/password/reset-confirm
// ============================================================

func (s *AuthService) PasswordResetConfirm(ctx context.Context, req *domain.PasswordResetConfirmRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetConfirm")
	defer span.End()

	req.Email = normalizeEmail(req.Email)

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return &domain.ErrUnauthorized{Message: "Credenciais inválidas"}
	}

	// Validate code
	resetCode, err := s.store.GetValidResetCode(ctx, user.ID, req.VerificationCode)
	if err != nil {
		return fmt.Errorf("get reset code: %w", err)
	}
	if resetCode == nil {
		return &domain.ErrInvalidCode{}
	}

	if err := validatePassword("newPassword", req.NewPassword); err != nil {
		return err
	}

	// Hash new password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateUser(ctx, user.ID, map[string]any{
		"password_hash":       string(hash),
		"failed_attempts":     0,
		"locked_until":        nil,
		"password_changed_at": time.Now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	// Mark code as used
	_ = s.store.MarkResetCodeUsed(ctx, resetCode.ID)

	// Revoke all refresh tokens (force re-login)
	_ = s.store.RevokeAllRefreshTokens(ctx, user.ID)

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

// ============================================================
// ChangePassword — PUT /v1/auth/password
// ============================================================

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return &domain.ErrUnauthorized{Message: "Credenciais inválidas"}
	}

	// Verify current password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("password change: wrong current password",
			zap.String("user_id", userID),
		)
		return &domain.ErrUnauthorized{Message: "Senha atual incorreta"}
	}

	if err := validatePassword("newPassword", req.NewPassword); err != nil {
		return err
	}

	// Hash new password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateUser(ctx, userID, map[string]any{
		"password_hash":       string(hash),
		"password_changed_at": time.Now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	// Revoke all refresh tokens (force re-login on other devices)
	_ = s.store.RevokeAllRefreshTokens(ctx, userID)

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// ============================================================
// Internal helpers
// ============================================================

func generateVerificationCode() string {
	code := ""
	for i := 0; i < 6; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code
}

func maskEmail(email string) string {
	if email == "" {
		return "***@***.com"
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***@***.com"
	}
	local := parts[0]
	domainPart := parts[1]

	masked := string(local[0])
	if len(local) > 1 {
		masked += strings.Repeat("*", len(local)-2)
		masked += string(local[len(local)-1])
	} else {
		masked += "***"
	}
	return masked + "@" + domainPart
}
