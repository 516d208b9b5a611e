package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// ============================================================
// Profile — GET /v1/auth/profile
// ============================================================

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.ProfileResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Profile")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}

	return profileResponse(user), nil
}

// ============================================================
// UpdateProfile — PUT /v1/auth/profile
// ============================================================

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.ProfileResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	updates := map[string]any{}
	if req.NomeFantasia != "" {
		updates["nome_fantasia"] = req.NomeFantasia
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if !strings.Contains(email, "@") {
			return nil, &domain.ErrValidation{Field: "email", Message: "E-mail inválido"}
		}
		updates["email"] = email
	}
	if req.Activity != "" {
		if !req.Activity.Valid() {
			return nil, &domain.ErrValidation{Field: "activity", Message: "Atividade desconhecida"}
		}
		updates["activity"] = string(req.Activity)
	}

	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "Nenhum campo para atualizar"}
	}

	user, err := s.store.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return profileResponse(user), nil
}

func profileResponse(user *domain.UserAccount) *domain.ProfileResponse {
	return &domain.ProfileResponse{
		ID:           user.ID,
		CNPJ:         user.CNPJ,
		RazaoSocial:  user.RazaoSocial,
		NomeFantasia: user.NomeFantasia,
		Email:        user.Email,
		Activity:     user.Activity,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
}
