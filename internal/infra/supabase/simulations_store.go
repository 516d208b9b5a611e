package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// SimulationStore implementation — saved simulations via PostgREST
// ============================================================

// Listing returns only the row metadata; the full request and result
// payloads come back on GetSimulation.
const simulationListColumns = "id,user_id,name,activity,created_at"

func (c *Client) SaveSimulation(ctx context.Context, sim *domain.SavedSimulation) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveSimulation")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", sim.UserID))

	if _, err := c.doPost(ctx, "simulations", sim); err != nil {
		return &domain.ErrExternalService{Service: "supabase/simulations", Err: err}
	}
	return nil
}

func (c *Client) ListSimulations(ctx context.Context, userID string, limit, offset int) ([]domain.SavedSimulation, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSimulations")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var sims []domain.SavedSimulation

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("simulations?user_id=eq.%s&select=%s&order=created_at.desc&limit=%d&offset=%d",
				userID, simulationListColumns, limit, offset)
			rows, err := fetchRows[domain.SavedSimulation](ctx, c, path)
			if err != nil {
				return err
			}
			sims = rows
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/simulations", Err: err}
	}
	if sims == nil {
		sims = []domain.SavedSimulation{}
	}
	return sims, nil
}

func (c *Client) GetSimulation(ctx context.Context, userID, simulationID string) (*domain.SavedSimulation, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSimulation")
	defer span.End()

	path := fmt.Sprintf("simulations?id=eq.%s&user_id=eq.%s&limit=1", simulationID, userID)
	rows, err := fetchRows[domain.SavedSimulation](ctx, c, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/simulations", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "simulation", ID: simulationID}
	}
	return &rows[0], nil
}

func (c *Client) DeleteSimulation(ctx context.Context, userID, simulationID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSimulation")
	defer span.End()

	path := fmt.Sprintf("simulations?id=eq.%s&user_id=eq.%s", simulationID, userID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/simulations", Err: err}
	}
	return nil
}

// CountSimulations returns how many simulations a user has saved. A
// plain select of ids is cheap enough at the volumes involved here.
func (c *Client) CountSimulations(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountSimulations")
	defer span.End()

	path := fmt.Sprintf("simulations?user_id=eq.%s&select=id", userID)
	rows, err := fetchRows[struct {
		ID string `json:"id"`
	}](ctx, c, path)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase/simulations", Err: err}
	}
	return len(rows), nil
}
