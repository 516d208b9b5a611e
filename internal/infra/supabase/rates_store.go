package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// PresetStore implementation — rate presets via PostgREST
// ============================================================

// SavePreset inserts or replaces the preset with the same user and
// name, so re-saving a tweaked configuration never piles up rows.
func (c *Client) SavePreset(ctx context.Context, preset *domain.RatePreset) error {
	ctx, span := tracer.Start(ctx, "Supabase.SavePreset")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", preset.UserID))

	if _, err := c.doUpsert(ctx, "rate_presets", "user_id,name", preset); err != nil {
		return &domain.ErrExternalService{Service: "supabase/rate_presets", Err: err}
	}
	return nil
}

func (c *Client) ListPresets(ctx context.Context, userID string) ([]domain.RatePreset, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPresets")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var presets []domain.RatePreset

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("rate_presets?user_id=eq.%s&order=created_at.desc", userID)
			rows, err := fetchRows[domain.RatePreset](ctx, c, path)
			if err != nil {
				return err
			}
			presets = rows
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rate_presets", Err: err}
	}
	if presets == nil {
		presets = []domain.RatePreset{}
	}
	return presets, nil
}

func (c *Client) GetPreset(ctx context.Context, userID, presetID string) (*domain.RatePreset, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPreset")
	defer span.End()

	path := fmt.Sprintf("rate_presets?id=eq.%s&user_id=eq.%s&limit=1", presetID, userID)
	rows, err := fetchRows[domain.RatePreset](ctx, c, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rate_presets", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "preset", ID: presetID}
	}
	return &rows[0], nil
}

func (c *Client) DeletePreset(ctx context.Context, userID, presetID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePreset")
	defer span.End()

	path := fmt.Sprintf("rate_presets?id=eq.%s&user_id=eq.%s", presetID, userID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/rate_presets", Err: err}
	}
	return nil
}
