package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ratesTracer = otel.Tracer("service/rates")

// RatesService serves the default rate tables and per-user presets.
type RatesService struct {
	store   port.PresetStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRatesService creates the rates service with all dependencies injected.
func NewRatesService(store port.PresetStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *RatesService {
	return &RatesService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Defaults returns the documented statutory configurations.
func (s *RatesService) Defaults() *domain.RateDefaults {
	return &domain.RateDefaults{
		Presumido: domain.DefaultPresumidoRates(),
		Real:      domain.DefaultRealRates(),
		Reform:    domain.DefaultReformRates(),
	}
}

// ============================================================
// Presets — /v1/rates/presets
// ============================================================

func (s *RatesService) SavePreset(ctx context.Context, userID string, req *domain.SavePresetRequest) (*domain.RatePreset, error) {
	ctx, span := ratesTracer.Start(ctx, "RatesService.SavePreset")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "Nome é obrigatório"}
	}

	preset := &domain.RatePreset{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Rates:     req.Rates,
		Reform:    req.Reform,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SavePreset(ctx, preset); err != nil {
		return nil, fmt.Errorf("save preset: %w", err)
	}

	s.cache.DeletePrefix("presets:" + userID)

	s.logger.Info("rate preset saved",
		zap.String("user_id", userID),
		zap.String("name", preset.Name),
	)
	return preset, nil
}

func (s *RatesService) ListPresets(ctx context.Context, userID string) ([]domain.RatePreset, error) {
	ctx, span := ratesTracer.Start(ctx, "RatesService.ListPresets")
	defer span.End()

	cacheKey := "presets:" + userID
	if cached, ok := s.cache.Get(cacheKey); ok {
		if presets, ok := cached.([]domain.RatePreset); ok {
			s.metrics.IncrCacheHit("presets")
			return presets, nil
		}
	}
	s.metrics.IncrCacheMiss("presets")

	presets, err := s.store.ListPresets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	s.cache.Set(cacheKey, presets)
	return presets, nil
}

func (s *RatesService) GetPreset(ctx context.Context, userID, presetID string) (*domain.RatePreset, error) {
	ctx, span := ratesTracer.Start(ctx, "RatesService.GetPreset")
	defer span.End()

	return s.store.GetPreset(ctx, userID, presetID)
}

func (s *RatesService) DeletePreset(ctx context.Context, userID, presetID string) error {
	ctx, span := ratesTracer.Start(ctx, "RatesService.DeletePreset")
	defer span.End()

	// Look up first so a wrong id comes back as 404, not a silent no-op.
	if _, err := s.store.GetPreset(ctx, userID, presetID); err != nil {
		return err
	}
	if err := s.store.DeletePreset(ctx, userID, presetID); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}

	s.cache.DeletePrefix("presets:" + userID)

	s.logger.Info("rate preset deleted",
		zap.String("user_id", userID),
		zap.String("preset_id", presetID),
	)
	return nil
}
