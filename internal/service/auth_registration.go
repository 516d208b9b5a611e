package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// Register — POST /v1/auth/register
// ============================================================

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	// Normalize: strip masks so storage is always digits-only
	req.CNPJ = normalizeDoc(req.CNPJ)
	req.Email = normalizeEmail(req.Email)

	if len(req.CNPJ) != 14 {
		return nil, &domain.ErrValidation{Field: "cnpj", Message: "CNPJ deve ter 14 dígitos"}
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, &domain.ErrValidation{Field: "email", Message: "E-mail inválido"}
	}
	if strings.TrimSpace(req.RazaoSocial) == "" {
		return nil, &domain.ErrValidation{Field: "razaoSocial", Message: "Razão social é obrigatória"}
	}
	if req.Activity != "" && !req.Activity.Valid() {
		return nil, &domain.ErrValidation{Field: "activity", Message: "Atividade desconhecida"}
	}
	if err := validatePassword("password", req.Password); err != nil {
		return nil, err
	}

	// Check if email or CNPJ already registered
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "E-mail já cadastrado"}
	}

	existing, err = s.store.GetUserByCNPJ(ctx, req.CNPJ)
	if err != nil {
		return nil, fmt.Errorf("check existing cnpj: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "CNPJ já cadastrado"}
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.UserAccount{
		ID:           uuid.New().String(),
		CNPJ:         req.CNPJ,
		Email:        req.Email,
		RazaoSocial:  req.RazaoSocial,
		NomeFantasia: req.NomeFantasia,
		Activity:     req.Activity,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("cnpj", user.CNPJ),
	)

	return &domain.RegisterResponse{
		UserID:  user.ID,
		Message: "Cadastro realizado com sucesso",
	}, nil
}
