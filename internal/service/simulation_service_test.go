package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/cache"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockSimulationStore struct {
	saved     []*domain.SavedSimulation
	listItems []domain.SavedSimulation
	total     int
	getResult *domain.SavedSimulation
	getErr    error
	listCalls int
	deleted   []string
}

func (m *mockSimulationStore) SaveSimulation(_ context.Context, sim *domain.SavedSimulation) error {
	m.saved = append(m.saved, sim)
	return nil
}

func (m *mockSimulationStore) ListSimulations(_ context.Context, _ string, _, _ int) ([]domain.SavedSimulation, error) {
	m.listCalls++
	return m.listItems, nil
}

func (m *mockSimulationStore) GetSimulation(_ context.Context, _, simulationID string) (*domain.SavedSimulation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getResult != nil {
		return m.getResult, nil
	}
	return nil, &domain.ErrNotFound{Resource: "simulation", ID: simulationID}
}

func (m *mockSimulationStore) DeleteSimulation(_ context.Context, _, simulationID string) error {
	m.deleted = append(m.deleted, simulationID)
	return nil
}

func (m *mockSimulationStore) CountSimulations(_ context.Context, _ string) (int, error) {
	return m.total, nil
}

// --- Tests ---

func TestRun_ComparesAllRegimes(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	result, err := svc.Run(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityServicos,
		Summary: &domain.FinancialSummary{
			Revenue: 600_000,
			Payroll: 180_000,
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Results) != 3 {
		t.Fatalf("expected 3 regime results, got %d", len(result.Results))
	}
	for _, r := range result.Results {
		if r.Blocked {
			t.Errorf("expected %s to be applicable, got blocked", r.Regime)
		}
		if r.TotalTax <= 0 {
			t.Errorf("expected positive total tax for %s, got %f", r.Regime, r.TotalTax)
		}
		if result.Best.TotalTax > r.TotalTax {
			t.Errorf("best regime %s (%f) costs more than %s (%f)",
				result.Best.Regime, result.Best.TotalTax, r.Regime, r.TotalTax)
		}
	}
	if result.Reform.Regime != domain.RegimeReforma {
		t.Errorf("expected reform projection, got %s", result.Reform.Regime)
	}
	if result.GeneratedAt.IsZero() {
		t.Error("expected generated_at to be set")
	}
}

func TestRun_InvalidActivity(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	_, err := svc.Run(context.Background(), &domain.SimulationRequest{
		Activity: domain.Activity("banana"),
		Summary:  &domain.FinancialSummary{Revenue: 100_000},
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "activity" {
		t.Errorf("expected field 'activity', got '%s'", validationErr.Field)
	}
}

func TestRun_EmptyBody(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	_, err := svc.Run(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityComercio,
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRun_ExplicitSummaryWins(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	result, err := svc.Run(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityServicos,
		Lines: []domain.LineItem{
			{Description: "Receita de serviços prestados", Value: 100, Section: domain.SectionDRE, Kind: domain.LineAnalytical},
		},
		Summary: &domain.FinancialSummary{Revenue: 500_000},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Summary.Revenue != 500_000 {
		t.Errorf("expected explicit summary revenue 500000, got %f", result.Summary.Revenue)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("expected classified lines in response, got %d", len(result.Lines))
	}
	if result.Lines[0].Tag != domain.TagRevenue {
		t.Errorf("expected line tagged REVENUE, got %s", result.Lines[0].Tag)
	}
}

func TestRun_BlockedSimplesAlert(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	result, err := svc.Run(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityComercio,
		Summary: &domain.FinancialSummary{
			Revenue: 6_000_000,
			COGS:    2_400_000,
			Payroll: 600_000,
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var simples domain.RegimeResult
	for _, r := range result.Results {
		if r.Regime == domain.RegimeSimples {
			simples = r
		}
	}
	if !simples.Blocked {
		t.Error("expected Simples to be blocked above the revenue ceiling")
	}
	if result.Best.Regime == domain.RegimeSimples {
		t.Error("blocked regime must not be selected as best")
	}

	found := false
	for _, a := range result.Alerts {
		if a == "Simples Nacional indisponível para o faturamento informado." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected blocked-Simples alert, got %v", result.Alerts)
	}
}

func TestSave_FreezesResult(t *testing.T) {
	store := &mockSimulationStore{}
	svc := service.NewSimulationService(
		store,
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	sim, err := svc.Save(context.Background(), "user-1", &domain.SaveSimulationRequest{
		Name: "Cenário base",
		Simulation: domain.SimulationRequest{
			Activity: domain.ActivityComercio,
			Summary:  &domain.FinancialSummary{Revenue: 1_000_000, COGS: 400_000},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sim.ID == "" {
		t.Error("expected generated simulation id")
	}
	if sim.UserID != "user-1" {
		t.Errorf("expected user_id 'user-1', got '%s'", sim.UserID)
	}
	if sim.Result == nil {
		t.Fatal("expected frozen result on saved simulation")
	}
	if sim.Result.Best.TotalTax <= 0 {
		t.Errorf("expected frozen result totals, got %f", sim.Result.Best.TotalTax)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted simulation, got %d", len(store.saved))
	}
}

func TestSave_RequiresName(t *testing.T) {
	svc := service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	_, err := svc.Save(context.Background(), "user-1", &domain.SaveSimulationRequest{
		Simulation: domain.SimulationRequest{
			Activity: domain.ActivityComercio,
			Summary:  &domain.FinancialSummary{Revenue: 100_000},
		},
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "name" {
		t.Errorf("expected field 'name', got '%s'", validationErr.Field)
	}
}

func TestList_PaginatesAndCaches(t *testing.T) {
	store := &mockSimulationStore{
		listItems: []domain.SavedSimulation{{ID: "sim-1"}, {ID: "sim-2"}},
		total:     5,
	}
	svc := service.NewSimulationService(
		store,
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	resp, err := svc.List(context.Background(), "user-1", 1, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(resp.Data) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp.Data))
	}
	if resp.Total != 5 {
		t.Errorf("expected total 5, got %d", resp.Total)
	}
	if !resp.HasMore {
		t.Error("expected has_more with 5 total and page size 2")
	}

	// Second identical call must come from the cache.
	if _, err := svc.List(context.Background(), "user-1", 1, 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.listCalls != 1 {
		t.Errorf("expected 1 store call, got %d", store.listCalls)
	}
}

func TestDelete_NotFound(t *testing.T) {
	store := &mockSimulationStore{
		getErr: &domain.ErrNotFound{Resource: "simulation", ID: "ghost"},
	}
	svc := service.NewSimulationService(
		store,
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	err := svc.Delete(context.Background(), "user-1", "ghost")

	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Errorf("expected no delete call for missing simulation, got %v", store.deleted)
	}
}

func TestDelete_Success(t *testing.T) {
	store := &mockSimulationStore{
		getResult: &domain.SavedSimulation{ID: "sim-1", UserID: "user-1"},
	}
	svc := service.NewSimulationService(
		store,
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	if err := svc.Delete(context.Background(), "user-1", "sim-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "sim-1" {
		t.Errorf("expected delete of sim-1, got %v", store.deleted)
	}
}
